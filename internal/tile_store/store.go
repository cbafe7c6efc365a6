package tile_store

import (
	"fmt"
	"time"

	"atontiles/internal/mercator"
)

// BlankTileName is the sentinel name under which the shared blank tile
// is persisted once per deployment.
const BlankTileName = "blank_256.png"

// RenderedTile is a cached PNG tile together with the metadata needed
// for conditional HTTP responses.
type RenderedTile struct {
	Address   mercator.TileAddress
	Data      []byte
	CreatedAt time.Time
}

// ETag derives the tile's validator from its modification time and
// size. It changes whenever the bytes change and is stable across
// repeated reads of unchanged content.
func (t *RenderedTile) ETag() string {
	return fmt.Sprintf("%d_%d", t.CreatedAt.UnixMilli(), len(t.Data))
}

// Store persists rendered tiles keyed by tile address. Get treats
// entries at or past the store's TTL as absent; Put overwrites in
// place, resetting the entry's age.
type Store interface {
	Get(addr mercator.TileAddress) (*RenderedTile, bool)
	Put(addr mercator.TileAddress, data []byte) (*RenderedTile, error)

	// EnsureBlank lazily materializes the shared blank tile at the
	// store's sentinel location. Calling it again once the tile exists
	// is a no-op.
	EnsureBlank(data []byte) error
}
