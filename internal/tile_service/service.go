package tile_service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"atontiles/internal/aton"
	"atontiles/internal/blank_index"
	"atontiles/internal/mercator"
	"atontiles/internal/metrics"
	"atontiles/internal/tile_renderer"
	"atontiles/internal/tile_store"
)

// TileResponse describes an HTTP-cacheable tile result. NotModified
// means the caller's validator matched and no body is included. Blank
// responses carry no ETag: every blank tile is byte-identical.
type TileResponse struct {
	Data        []byte
	ETag        string
	ExpiresAt   time.Time
	NotModified bool
	Blank       bool
}

// Service resolves tile requests through the cache tiers and falls back
// to query + render + store. Duplicate concurrent renders for the same
// address are tolerated; rendering is idempotent for a given marker
// snapshot and the store resolves races to last-writer-wins.
type Service struct {
	source   aton.Source
	store    tile_store.Store
	blanks   *blank_index.Index
	renderer *tile_renderer.Renderer
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	blankPersisted atomic.Bool
}

func New(source aton.Source, store tile_store.Store, blanks *blank_index.Index,
	renderer *tile_renderer.Renderer, ttl time.Duration, logger *zap.Logger) *Service {

	return &Service{
		source:   source,
		store:    store,
		blanks:   blanks,
		renderer: renderer,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) HandleTileRequest(ctx context.Context, addr mercator.TileAddress, ifNoneMatch string) (*TileResponse, error) {
	metrics.TileRequests.Inc()
	expiresAt := s.now().Add(s.ttl)

	// Known blank tiles are streamed directly; see BlankTile for why a
	// redirect to a shared blank URL is not an option.
	if s.blanks.IsKnownBlank(addr) {
		metrics.BlankHits.Inc()
		return s.blankResponse(expiresAt), nil
	}

	if tile, ok := s.store.Get(addr); ok {
		metrics.StoreHits.Inc()
		etag := tile.ETag()
		if ifNoneMatch != "" && ifNoneMatch == etag {
			metrics.NotModified.Inc()
			return &TileResponse{ETag: etag, ExpiresAt: expiresAt, NotModified: true}, nil
		}
		return &TileResponse{Data: tile.Data, ETag: etag, ExpiresAt: expiresAt}, nil
	}

	bounds := mercator.TileBounds(addr)

	start := time.Now()
	markers, err := s.source.Query(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("spatial query failed for tile %s: %w", addr, err)
	}
	metrics.QueryDuration.Observe(time.Since(start).Seconds())

	if len(markers) == 0 {
		s.blanks.MarkBlank(addr)
		metrics.BlankMarks.Inc()
		return s.blankResponse(expiresAt), nil
	}

	data, err := s.renderer.Render(addr.Zoom, mercator.TileOrigin(addr), markers)
	if err != nil {
		return nil, fmt.Errorf("render failed for tile %s: %w", addr, err)
	}

	stored, err := s.store.Put(addr, data)
	if err != nil {
		return nil, fmt.Errorf("store write failed for tile %s: %w", addr, err)
	}
	metrics.TilesRendered.Inc()

	s.logger.Debug("Generated tile",
		zap.String("tile", addr.String()),
		zap.Int("markers", len(markers)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return &TileResponse{Data: stored.Data, ETag: stored.ETag(), ExpiresAt: expiresAt}, nil
}

func (s *Service) blankResponse(expiresAt time.Time) *TileResponse {
	s.ensureBlankPersisted()
	return &TileResponse{Data: tile_renderer.BlankTile(), ExpiresAt: expiresAt, Blank: true}
}

// ensureBlankPersisted copies the shared blank tile into the store the
// first time it is needed per deployment. A persist failure only delays
// the copy; the in-memory bytes still serve the request.
func (s *Service) ensureBlankPersisted() {
	if s.blankPersisted.Load() {
		return
	}
	if err := s.store.EnsureBlank(tile_renderer.BlankTile()); err != nil {
		s.logger.Warn("Failed to persist blank tile", zap.Error(err))
		return
	}
	s.blankPersisted.Store(true)
}
