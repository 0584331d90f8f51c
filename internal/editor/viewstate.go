// View state: per-side persistence of the two scene graphs.
package editor

import (
	"github.com/printforge/designer/internal/entity"
)

// stateManager is the explicit front/back state machine. It owns the
// stored ViewState slots; exactly one side is active at a time and only
// the active side may be bound to the interactive canvas.
type stateManager struct {
	side  entity.Side
	slots entity.ViewState
}

func newStateManager() *stateManager {
	return &stateManager{side: entity.SideFront}
}

// Active reports which side is currently being edited.
func (m *stateManager) Active() entity.Side {
	return m.side
}

// Switch performs the serialize -> clear -> load transition: the
// outgoing scene is stored under the current side's slot, the side
// flips, and the stored scene of the incoming side (nil when empty) is
// returned for the caller to rebind.
func (m *stateManager) Switch(outgoing entity.SerializedScene) *entity.SerializedScene {
	m.store(m.side, &outgoing)
	m.side = m.side.Opposite()
	return m.stored(m.side)
}

// State snapshots both slots, with the given scene standing in for the
// active side. Used for session checkpoints.
func (m *stateManager) State(active entity.SerializedScene) entity.ViewState {
	st := entity.ViewState{Front: m.slots.Front, Back: m.slots.Back}
	if m.side == entity.SideFront {
		st.Front = &active
	} else {
		st.Back = &active
	}
	return st
}

// Restore replaces both slots from a checkpoint and returns the scene
// to bind for the active side.
func (m *stateManager) Restore(st entity.ViewState, side entity.Side) *entity.SerializedScene {
	m.slots = st
	m.side = side
	return m.stored(side)
}

func (m *stateManager) store(side entity.Side, s *entity.SerializedScene) {
	if side == entity.SideFront {
		m.slots.Front = s
	} else {
		m.slots.Back = s
	}
}

func (m *stateManager) stored(side entity.Side) *entity.SerializedScene {
	if side == entity.SideFront {
		return m.slots.Front
	}
	return m.slots.Back
}
