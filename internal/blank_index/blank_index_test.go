package blank_index

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atontiles/internal/mercator"
)

func TestMarkAndCheck(t *testing.T) {
	idx := New(time.Hour)
	addr := mercator.TileAddress{Zoom: 10, X: 512, Y: 340}

	assert.False(t, idx.IsKnownBlank(addr))

	idx.MarkBlank(addr)
	assert.True(t, idx.IsKnownBlank(addr))
	assert.Equal(t, 1, idx.Len())

	other := mercator.TileAddress{Zoom: 10, X: 513, Y: 340}
	assert.False(t, idx.IsKnownBlank(other))
}

func TestEntriesExpire(t *testing.T) {
	idx := New(time.Hour)
	current := time.Now()
	idx.now = func() time.Time { return current }

	addr := mercator.TileAddress{Zoom: 8, X: 128, Y: 85}
	idx.MarkBlank(addr)
	require.True(t, idx.IsKnownBlank(addr))

	current = current.Add(time.Hour)
	assert.False(t, idx.IsKnownBlank(addr))
	assert.Equal(t, 0, idx.Len(), "expired entry should be dropped")

	// Re-marking after expiry starts a fresh TTL window.
	idx.MarkBlank(addr)
	assert.True(t, idx.IsKnownBlank(addr))
}

func TestZeroTTLNeverExpires(t *testing.T) {
	idx := New(0)
	current := time.Now()
	idx.now = func() time.Time { return current }

	addr := mercator.TileAddress{Zoom: 3, X: 4, Y: 2}
	idx.MarkBlank(addr)

	current = current.Add(1000 * time.Hour)
	assert.True(t, idx.IsKnownBlank(addr))
}

func TestConcurrentAccess(t *testing.T) {
	idx := New(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := mercator.TileAddress{Zoom: 10, X: i % 4, Y: i % 8}
			idx.MarkBlank(addr)
			idx.IsKnownBlank(addr)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, idx.Len(), 32)
	assert.Greater(t, idx.Len(), 0)
}
