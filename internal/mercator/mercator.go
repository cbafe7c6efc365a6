package mercator

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	// TileSize is the width and height of every tile in pixels.
	TileSize = 256

	// MaxLatitude is the northernmost latitude representable in the
	// spherical-mercator projection. Latitudes beyond it are clamped.
	MaxLatitude = 85.05112878
)

// TileAddress identifies one 256x256 tile in the XYZ slippy-map scheme.
// At zoom z the world is 2^z tiles wide; x grows eastward, y southward.
type TileAddress struct {
	Zoom int
	X    int
	Y    int
}

func (t TileAddress) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// Pixel is an absolute pixel coordinate at some zoom level. The y axis
// grows southward, matching the tile scheme.
type Pixel struct {
	X float64
	Y float64
}

// TileBounds returns the WGS84 bounding box of a tile. Adjacent tiles
// share edge values exactly: the east edge of (z,x,y) is bit-for-bit
// the west edge of (z,x+1,y), so markers on an edge never fall into a
// seam between tiles.
func TileBounds(addr TileAddress) orb.Bound {
	n := math.Exp2(float64(addr.Zoom))
	west := float64(addr.X)/n*360.0 - 180.0
	east := float64(addr.X+1)/n*360.0 - 180.0
	north := tileRowLat(float64(addr.Y), n)
	south := tileRowLat(float64(addr.Y+1), n)
	return orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{east, north},
	}
}

// tileRowLat converts a fractional tile row to the latitude of its
// northern edge, in degrees.
func tileRowLat(y, n float64) float64 {
	return 180.0 / math.Pi * math.Atan(math.Sinh(math.Pi*(1.0-2.0*y/n)))
}

// Project maps a geographic point to absolute pixel coordinates at the
// given zoom level, consistent with TileBounds: projecting a tile's
// bounds reproduces the tile's pixel rectangle.
func Project(lon, lat float64, zoom int) Pixel {
	lon = wrapLon(lon)
	lat = clampLat(lat)
	n := math.Exp2(float64(zoom))
	x := (lon + 180.0) / 360.0 * n * TileSize
	latRad := lat * math.Pi / 180.0
	y := (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n * TileSize
	return Pixel{X: x, Y: y}
}

// TileOrigin returns the absolute pixel coordinate of a tile's
// top-left corner.
func TileOrigin(addr TileAddress) Pixel {
	return Pixel{
		X: float64(addr.X) * TileSize,
		Y: float64(addr.Y) * TileSize,
	}
}

// TileAt returns the tile containing the given geographic point.
// Points at the antimeridian or the projection's latitude limit land on
// the last row or column rather than outside the grid.
func TileAt(lon, lat float64, zoom int) TileAddress {
	p := Project(lon, lat, zoom)
	max := int(math.Exp2(float64(zoom))) - 1
	x := clampTile(int(math.Floor(p.X/TileSize)), max)
	y := clampTile(int(math.Floor(p.Y/TileSize)), max)
	return TileAddress{Zoom: zoom, X: x, Y: y}
}

func clampTile(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// wrapLon normalizes a longitude into [-180, 180).
func wrapLon(lon float64) float64 {
	lon = math.Mod(lon+180.0, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon - 180.0
}

func clampLat(lat float64) float64 {
	if lat > MaxLatitude {
		return MaxLatitude
	}
	if lat < -MaxLatitude {
		return -MaxLatitude
	}
	return lat
}
