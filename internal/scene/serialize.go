package scene

import (
	"encoding/json"
	"fmt"

	"github.com/printforge/designer/internal/entity"
)

// Serialize produces an independent persisted form of the graph. The
// returned scene shares no memory with the live graph.
func Serialize(g *Graph, printArea entity.PrintArea) entity.SerializedScene {
	return entity.SerializedScene{
		Objects:   g.Snapshot(),
		PrintArea: printArea,
	}
}

// Deserialize rebuilds a graph from its persisted form, again copying
// every layer. Unknown layer types or missing ids mean the stored data
// is corrupt.
func Deserialize(s entity.SerializedScene) (*Graph, error) {
	g := New()
	for _, l := range s.Objects {
		if l.ID == "" {
			return nil, fmt.Errorf("%w: layer without id", entity.ErrSceneCorrupt)
		}
		if l.Type != entity.LayerImage && l.Type != entity.LayerText {
			return nil, fmt.Errorf("%w: unknown layer type %q", entity.ErrSceneCorrupt, l.Type)
		}
		g.layers = append(g.layers, l)
	}
	return g, nil
}

// Marshal encodes a persisted scene as JSON.
func Marshal(s entity.SerializedScene) ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal decodes a persisted scene from JSON.
func Unmarshal(data []byte) (entity.SerializedScene, error) {
	var s entity.SerializedScene
	if err := json.Unmarshal(data, &s); err != nil {
		return entity.SerializedScene{}, fmt.Errorf("%w: %v", entity.ErrSceneCorrupt, err)
	}
	return s, nil
}
