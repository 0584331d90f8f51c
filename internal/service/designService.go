package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	// register decoders for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/printforge/designer/internal/database"
	"github.com/printforge/designer/internal/editor"
	"github.com/printforge/designer/internal/entity"
	"github.com/printforge/designer/internal/pkg/export"
	"github.com/printforge/designer/internal/pkg/kafka"
	"github.com/printforge/designer/internal/pkg/storage"
	"github.com/printforge/designer/internal/pkg/uploader"
	"github.com/sirupsen/logrus"
)

// session binds one editor to its debounced preview cache.
type session struct {
	id        string
	ed        *editor.Editor
	debouncer *export.Debouncer
	lastUsed  atomic.Int64

	previewMu sync.Mutex
	preview   []byte
}

func (s *session) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

// sweepInterval paces the idle-session sweep.
const sweepInterval = time.Minute

type designService struct {
	mu       sync.RWMutex
	sessions map[string]*session

	products ProductService
	store    storage.FileStorage
	exporter *export.Pipeline
	uploads  *uploader.Client
	orders   OrderSubmitter
	events   kafka.Producer
	repo     database.SessionRepository

	maxUploadBytes int64
	debounce       time.Duration
	sessionTTL     time.Duration
	stop           chan struct{}
}

// NewDesignService wires the editor sessions to the export, upload and
// persistence collaborators. Sessions idle longer than sessionTTL are
// swept out of memory; their checkpoints stay until the store expires
// them, so a late client still gets its session rebuilt.
func NewDesignService(products ProductService, store storage.FileStorage, exporter *export.Pipeline,
	uploads *uploader.Client, orders OrderSubmitter, events kafka.Producer,
	repo database.SessionRepository, maxUploadBytes int64, debounce, sessionTTL time.Duration) DesignService {

	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	d := &designService{
		sessions:       map[string]*session{},
		products:       products,
		store:          store,
		exporter:       exporter,
		uploads:        uploads,
		orders:         orders,
		events:         events,
		repo:           repo,
		maxUploadBytes: maxUploadBytes,
		debounce:       debounce,
		sessionTTL:     sessionTTL,
		stop:           make(chan struct{}),
	}
	go d.sweepIdle()
	return d
}

// Close stops the idle-session sweeper.
func (d *designService) Close() {
	close(d.stop)
}

func (d *designService) sweepIdle() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.evictIdle(time.Now().Add(-d.sessionTTL))
		}
	}
}

// evictIdle drops sessions untouched since the cutoff. This reclaims
// process memory only; the persisted checkpoint is left alone.
func (d *designService) evictIdle(cutoff time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, s := range d.sessions {
		if s.lastUsed.Load() < cutoff.UnixNano() {
			s.debouncer.Stop()
			delete(d.sessions, id)
		}
	}
}

func (d *designService) CreateSession(ctx context.Context, productID, colorID string) (SessionInfo, error) {
	product, err := d.products.Get(productID)
	if err != nil {
		return SessionInfo{}, err
	}
	ed, err := editor.New(product, colorID)
	if err != nil {
		return SessionInfo{}, err
	}
	s := &session{
		id:        uuid.New().String(),
		ed:        ed,
		debouncer: export.NewDebouncer(d.debounce),
	}
	s.touch()
	d.mu.Lock()
	d.sessions[s.id] = s
	d.mu.Unlock()

	d.checkpoint(ctx, s)
	return d.info(s), nil
}

func (d *designService) GetSession(ctx context.Context, sessionID string) (SessionInfo, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return SessionInfo{}, err
	}
	return d.info(s), nil
}

// CloseSession discards the session and its persisted checkpoint.
func (d *designService) CloseSession(ctx context.Context, sessionID string) error {
	d.mu.Lock()
	s, ok := d.sessions[sessionID]
	delete(d.sessions, sessionID)
	d.mu.Unlock()

	if ok {
		s.debouncer.Stop()
	} else if _, err := d.repo.LoadCheckpoint(ctx, sessionID); err != nil {
		return err
	}
	return d.repo.Delete(ctx, sessionID)
}

// validImageExts mirrors the upload contract: anything else is
// rejected before a layer is created.
var validImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

func (d *designService) AddImageLayer(ctx context.Context, sessionID, filename string, file io.Reader, size int64) (entity.Layer, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return entity.Layer{}, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !validImageExts[ext] {
		return entity.Layer{}, entity.ErrUnsupportedImageType
	}
	if size > d.maxUploadBytes {
		return entity.Layer{}, entity.ErrImageTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, d.maxUploadBytes+1))
	if err != nil {
		return entity.Layer{}, err
	}
	if int64(len(data)) > d.maxUploadBytes {
		return entity.Layer{}, entity.ErrImageTooLarge
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return entity.Layer{}, fmt.Errorf("%w: %v", entity.ErrUnsupportedImageType, err)
	}

	ref := filepath.Join("uploads", uuid.New().String()+ext)
	if err := d.store.Save(ref, bytes.NewReader(data)); err != nil {
		return entity.Layer{}, err
	}

	layer := s.ed.AddImageLayer(ref, cfg.Width, cfg.Height)
	d.markDirty(s)
	return layer, nil
}

func (d *designService) AddTextLayer(ctx context.Context, sessionID string, req TextLayerRequest) (entity.Layer, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return entity.Layer{}, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return entity.Layer{}, fmt.Errorf("empty text layer")
	}
	if req.FontSizePx <= 0 {
		req.FontSizePx = 36
	}
	if req.ColorHex == "" {
		req.ColorHex = "#000000"
	}
	layer := s.ed.AddTextLayer(req.Text, req.FontFamily, req.FontSizePx, req.ColorHex, req.Direction, req.Align)
	d.markDirty(s)
	return layer, nil
}

func (d *designService) UpdateLayer(ctx context.Context, sessionID, layerID string, upd LayerUpdate) error {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return err
	}
	if upd.Transform != nil {
		if err := s.ed.SetTransform(layerID, *upd.Transform); err != nil {
			return err
		}
	}
	if upd.Visible != nil {
		if err := s.ed.SetVisibility(layerID, *upd.Visible); err != nil {
			return err
		}
	}
	if upd.Text != nil || upd.FontFamily != nil || upd.FontSizePx != nil || upd.ColorHex != nil || upd.Align != nil {
		err := s.ed.SetTextStyle(layerID, editor.TextStyle{
			Text:       upd.Text,
			FontFamily: upd.FontFamily,
			FontSizePx: upd.FontSizePx,
			ColorHex:   upd.ColorHex,
			Align:      upd.Align,
		})
		if err != nil {
			return err
		}
	}
	d.markDirty(s)
	return nil
}

func (d *designService) CloneLayer(ctx context.Context, sessionID, layerID string) (entity.Layer, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return entity.Layer{}, err
	}
	dup, err := s.ed.CloneLayer(layerID)
	if err != nil {
		return entity.Layer{}, err
	}
	d.markDirty(s)
	return dup, nil
}

func (d *designService) RemoveLayer(ctx context.Context, sessionID, layerID string) error {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.ed.RemoveLayer(layerID); err != nil {
		return err
	}
	d.markDirty(s)
	return nil
}

func (d *designService) ReorderLayer(ctx context.Context, sessionID, layerID string, toTop bool) error {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.ed.Reorder(layerID, toTop); err != nil {
		return err
	}
	d.markDirty(s)
	return nil
}

func (d *designService) SwitchSide(ctx context.Context, sessionID string) (entity.Side, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return "", err
	}
	side, err := s.ed.SwitchSide()
	if err != nil {
		return side, err
	}
	d.markDirty(s)
	return side, nil
}

// LivePreview returns the latest debounced preview, rendering one
// synchronously when no cache exists yet.
func (d *designService) LivePreview(ctx context.Context, sessionID string) ([]byte, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.previewMu.Lock()
	cached := s.preview
	s.previewMu.Unlock()
	if cached != nil {
		return cached, nil
	}
	return d.regeneratePreview(s)
}

// Save snapshots the scene, renders both artifacts, uploads everything
// and submits the design. Any failure surfaces as a retryable error and
// leaves the editor state untouched.
func (d *designService) Save(ctx context.Context, sessionID string) (entity.DesignConfig, entity.ExportArtifact, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return entity.DesignConfig{}, entity.ExportArtifact{}, err
	}

	// Scene and side come out of one editor lock so a concurrent side
	// switch can never pair this snapshot with the other side's label.
	snap := s.ed.ExportSnapshot()
	if len(snap.Scene.Objects) == 0 {
		return entity.DesignConfig{}, entity.ExportArtifact{}, entity.ErrNothingToExport
	}
	product, view, color, err := d.sceneContext(s.ed, snap.Side)
	if err != nil {
		return entity.DesignConfig{}, entity.ExportArtifact{}, err
	}

	artifact, raws, err := d.exporter.Export(snap.Scene, product, view, color)
	if err != nil {
		return entity.DesignConfig{}, entity.ExportArtifact{}, err
	}

	originals, passthrough, err := d.collectOriginals(s.ed.AssetSources())
	if err != nil {
		return entity.DesignConfig{}, entity.ExportArtifact{}, err
	}

	arts, err := d.uploads.UploadDesign(ctx,
		uploader.Asset{Name: "print-" + s.id + ".png", Data: raws[0]},
		uploader.Asset{Name: "preview-" + s.id + ".jpg", Data: raws[1]},
		originals,
	)
	if err != nil {
		return entity.DesignConfig{}, entity.ExportArtifact{}, err
	}

	primary := snap.Scene.Objects[0].Transform
	cfg := entity.DesignConfig{
		PositionX:    primary.X,
		PositionY:    primary.Y,
		Scale:        primary.Scale,
		Rotation:     primary.RotationDeg,
		Side:         snap.Side,
		CanvasJSON:   snap.Scene,
		AssetUrls:    append(arts.AssetURLs, passthrough...),
		PreviewURL:   arts.PreviewURL,
		PrintURL:     arts.PrintURL,
		ProductType:  product.ID,
		ProductColor: color.ID,
		Price:        product.BasePriceUnit,
	}

	orderID, err := d.orders.Submit(ctx, cfg)
	if err != nil {
		return entity.DesignConfig{}, entity.ExportArtifact{}, err
	}

	if err := d.events.SendMessage("design-saved", map[string]interface{}{
		"order_id":      orderID,
		"session_id":    s.id,
		"product_type":  product.ID,
		"product_color": color.ID,
		"side":          snap.Side,
		"preview_url":   arts.PreviewURL,
		"print_url":     arts.PrintURL,
	}); err != nil {
		logrus.Warnf("design-saved event not published: %v", err)
	}

	d.checkpoint(ctx, s)
	return cfg, artifact, nil
}

// collectOriginals reads locally spooled assets for upload; sources
// that are already durable URLs pass through untouched.
func (d *designService) collectOriginals(sources []string) ([]uploader.Asset, []string, error) {
	var assets []uploader.Asset
	var passthrough []string
	for _, ref := range sources {
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			passthrough = append(passthrough, ref)
			continue
		}
		data, err := d.store.ReadAll(ref)
		if err != nil {
			return nil, nil, fmt.Errorf("read original %s: %w", ref, err)
		}
		assets = append(assets, uploader.Asset{Name: filepath.Base(ref), Data: data})
	}
	return assets, passthrough, nil
}

// session returns the live session, rebuilding it from the checkpoint
// store when the process has restarted since it was created.
func (d *designService) session(ctx context.Context, sessionID string) (*session, error) {
	d.mu.RLock()
	s, ok := d.sessions[sessionID]
	d.mu.RUnlock()
	if ok {
		s.touch()
		return s, nil
	}

	cp, err := d.repo.LoadCheckpoint(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	product, err := d.products.Get(cp.ProductID)
	if err != nil {
		return nil, err
	}
	ed, err := editor.New(product, cp.ColorID)
	if err != nil {
		return nil, err
	}
	if err := ed.RestoreState(cp.State, cp.Side); err != nil {
		return nil, err
	}
	s = &session{
		id:        sessionID,
		ed:        ed,
		debouncer: export.NewDebouncer(d.debounce),
	}
	s.touch()
	d.mu.Lock()
	d.sessions[sessionID] = s
	d.mu.Unlock()
	return s, nil
}

func (d *designService) info(s *session) SessionInfo {
	return SessionInfo{
		SessionID: s.id,
		ProductID: s.ed.Product().ID,
		ColorID:   s.ed.ColorID(),
		Side:      s.ed.Side(),
		PrintArea: s.ed.PrintAreaRect(),
		Panel:     s.ed.Panel(),
	}
}

func (d *designService) sceneContext(ed *editor.Editor, side entity.Side) (entity.ProductConfig, entity.ProductView, entity.ProductColor, error) {
	product := ed.Product()
	view, err := product.View(string(side))
	if err != nil {
		return product, entity.ProductView{}, entity.ProductColor{}, err
	}
	color, err := product.Color(ed.ColorID())
	if err != nil {
		return product, view, entity.ProductColor{}, err
	}
	return product, view, color, nil
}

// markDirty schedules the debounced preview regeneration and session
// checkpoint after a mutation. Bursts of edits collapse into one pass.
func (d *designService) markDirty(s *session) {
	s.debouncer.Trigger(func() {
		if _, err := d.regeneratePreview(s); err != nil {
			logrus.Warnf("preview regeneration failed: %v", err)
		}
		d.checkpoint(context.Background(), s)
	})
}

func (d *designService) regeneratePreview(s *session) ([]byte, error) {
	snap := s.ed.ExportSnapshot()
	product, view, color, err := d.sceneContext(s.ed, snap.Side)
	if err != nil {
		return nil, err
	}
	raw, err := d.exporter.LivePreview(snap.Scene, product, view, color)
	if err != nil {
		return nil, err
	}
	s.previewMu.Lock()
	s.preview = raw
	s.previewMu.Unlock()
	return raw, nil
}

func (d *designService) checkpoint(ctx context.Context, s *session) {
	state, side := s.ed.Checkpoint()
	cp := entity.SessionCheckpoint{
		ProductID: s.ed.Product().ID,
		ColorID:   s.ed.ColorID(),
		Side:      side,
		State:     state,
	}
	if err := d.repo.SaveCheckpoint(ctx, s.id, cp); err != nil {
		logrus.Warnf("session checkpoint failed: %v", err)
	}
}
