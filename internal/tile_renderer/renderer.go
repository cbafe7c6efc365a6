package tile_renderer

import (
	"bytes"
	"sync"

	"github.com/fogleman/gg"

	"atontiles/internal/aton"
	"atontiles/internal/mercator"
)

// Markers are drawn as filled circles in a fixed red, independent of
// category. At low zoom levels the dot shrinks so dense regions stay
// readable.
const (
	markerR = 200
	markerG = 0
	markerB = 0
)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

// Render draws the given markers onto a transparent 256x256 canvas.
// Marker positions are projected to absolute pixel space and offset by
// the tile's origin pixel. Output is deterministic: the same marker set
// at the same zoom produces byte-identical PNGs, which keeps ETags
// meaningful.
func (r *Renderer) Render(zoom int, origin mercator.Pixel, markers []aton.Marker) ([]byte, error) {
	dc := gg.NewContext(mercator.TileSize, mercator.TileSize)
	dc.SetRGBA255(0, 0, 0, 0)
	dc.Clear()
	dc.SetRGBA255(markerR, markerG, markerB, 255)

	radius := 1.0
	if zoom < 6 {
		radius = 0.5
	}

	for _, m := range markers {
		p := mercator.Project(m.Lon(), m.Lat(), zoom)
		dc.DrawCircle(p.X-origin.X, p.Y-origin.Y, radius)
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	blankOnce sync.Once
	blankPNG  []byte
)

// BlankTile returns the canonical fully transparent 256x256 tile,
// encoded once per process. Blank tiles are streamed directly to
// clients; tiles must be full-size per the tiling contract, and some
// clients abort redirected image sub-resources, so neither a 1x1 body
// nor a redirect to a shared URL is an option.
func BlankTile() []byte {
	blankOnce.Do(func() {
		dc := gg.NewContext(mercator.TileSize, mercator.TileSize)
		dc.SetRGBA255(0, 0, 0, 0)
		dc.Clear()

		var buf bytes.Buffer
		// Writing to a bytes.Buffer cannot fail.
		_ = dc.EncodePNG(&buf)
		blankPNG = buf.Bytes()
	})
	return blankPNG
}
