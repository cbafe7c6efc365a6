package tile_store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"atontiles/internal/mercator"
)

// FileStore keeps tiles as {root}/{zoom}/{x}/{y}.png and uses file
// modification times for TTL expiry. Writes publish through a temp file
// and rename, so a crash mid-encode never leaves a truncated PNG
// visible to readers, and racing writers for the same address resolve
// to last-writer-wins with the file always valid.
type FileStore struct {
	root string
	ttl  time.Duration
	now  func() time.Time
}

func NewFileStore(root string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tile store root: %w", err)
	}

	return &FileStore{
		root: root,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

func (s *FileStore) tilePath(addr mercator.TileAddress) string {
	return filepath.Join(s.root,
		strconv.Itoa(addr.Zoom),
		strconv.Itoa(addr.X),
		strconv.Itoa(addr.Y)+".png")
}

func (s *FileStore) Get(addr mercator.TileAddress) (*RenderedTile, bool) {
	path := s.tilePath(addr)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	createdAt := info.ModTime()
	if s.now().Sub(createdAt) >= s.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	return &RenderedTile{Address: addr, Data: data, CreatedAt: createdAt}, true
}

func (s *FileStore) Put(addr mercator.TileAddress, data []byte) (*RenderedTile, error) {
	path := s.tilePath(addr)
	if err := s.writeAtomic(path, data); err != nil {
		return nil, err
	}

	// Re-stat so the ETag is derived from the same mtime later reads
	// will observe.
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat stored tile: %w", err)
	}

	return &RenderedTile{Address: addr, Data: data, CreatedAt: info.ModTime()}, nil
}

func (s *FileStore) EnsureBlank(data []byte) error {
	path := filepath.Join(s.root, BlankTileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return s.writeAtomic(path, data)
}

func (s *FileStore) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create tile directory: %w", err)
	}

	// Unique temp name per writer so concurrent puts for the same
	// address never trample each other's partial writes.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp tile: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write tile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp tile: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish tile: %w", err)
	}
	return nil
}
