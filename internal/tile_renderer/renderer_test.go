package tile_renderer

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atontiles/internal/aton"
	"atontiles/internal/mercator"
)

// centerMarker builds a marker whose projection lands on the exact
// center pixel of the tile.
func centerMarker(addr mercator.TileAddress) aton.Marker {
	n := math.Exp2(float64(addr.Zoom))
	lon := (float64(addr.X)+0.5)/n*360.0 - 180.0
	lat := 180.0 / math.Pi * math.Atan(math.Sinh(math.Pi*(1.0-2.0*(float64(addr.Y)+0.5)/n)))
	return aton.Marker{Position: orb.Point{lon, lat}}
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func alphaCount(img image.Image) int {
	count := 0
	for y := 0; y < mercator.TileSize; y++ {
		for x := 0; x < mercator.TileSize; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				count++
			}
		}
	}
	return count
}

func TestRenderDeterministic(t *testing.T) {
	addr := mercator.TileAddress{Zoom: 8, X: 128, Y: 85}
	markers := []aton.Marker{centerMarker(addr)}
	r := New()

	first, err := r.Render(addr.Zoom, mercator.TileOrigin(addr), markers)
	require.NoError(t, err)
	second, err := r.Render(addr.Zoom, mercator.TileOrigin(addr), markers)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderCenterMarker(t *testing.T) {
	addr := mercator.TileAddress{Zoom: 8, X: 128, Y: 85}
	r := New()

	data, err := r.Render(addr.Zoom, mercator.TileOrigin(addr), []aton.Marker{centerMarker(addr)})
	require.NoError(t, err)

	img := decodePNG(t, data)
	require.Equal(t, mercator.TileSize, img.Bounds().Dx())
	require.Equal(t, mercator.TileSize, img.Bounds().Dy())

	// A radius-1 circle centered on pixel (128,128) covers its
	// immediate neighborhood.
	covered := false
	for y := 127; y <= 129; y++ {
		for x := 127; x <= 129; x++ {
			cr, cg, cb, ca := img.At(x, y).RGBA()
			if ca > 0 {
				covered = true
				assert.Greater(t, cr, uint32(0))
				assert.Zero(t, cg)
				assert.Zero(t, cb)
			}
		}
	}
	assert.True(t, covered, "marker should be drawn at the tile center")

	// Corners stay transparent.
	for _, p := range [][2]int{{0, 0}, {255, 0}, {0, 255}, {255, 255}} {
		_, _, _, a := img.At(p[0], p[1]).RGBA()
		assert.Zero(t, a)
	}
}

func TestRenderRadiusShrinksAtLowZoom(t *testing.T) {
	r := New()

	lowAddr := mercator.TileAddress{Zoom: 3, X: 4, Y: 2}
	low, err := r.Render(lowAddr.Zoom, mercator.TileOrigin(lowAddr), []aton.Marker{centerMarker(lowAddr)})
	require.NoError(t, err)

	highAddr := mercator.TileAddress{Zoom: 8, X: 128, Y: 85}
	high, err := r.Render(highAddr.Zoom, mercator.TileOrigin(highAddr), []aton.Marker{centerMarker(highAddr)})
	require.NoError(t, err)

	lowCount := alphaCount(decodePNG(t, low))
	highCount := alphaCount(decodePNG(t, high))

	assert.Greater(t, lowCount, 0)
	assert.Greater(t, highCount, 0)
	assert.Less(t, lowCount, highCount)
}

func TestRenderMarkerOutsideTileLeavesCanvasBlank(t *testing.T) {
	addr := mercator.TileAddress{Zoom: 8, X: 128, Y: 85}
	far := aton.Marker{Position: orb.Point{-70.0, -30.0}}
	r := New()

	data, err := r.Render(addr.Zoom, mercator.TileOrigin(addr), []aton.Marker{far})
	require.NoError(t, err)

	assert.Zero(t, alphaCount(decodePNG(t, data)))
}

func TestBlankTile(t *testing.T) {
	data := BlankTile()

	img := decodePNG(t, data)
	assert.Equal(t, mercator.TileSize, img.Bounds().Dx())
	assert.Equal(t, mercator.TileSize, img.Bounds().Dy())
	assert.Zero(t, alphaCount(img))

	// Shared bytes, encoded once.
	assert.Equal(t, data, BlankTile())
}
