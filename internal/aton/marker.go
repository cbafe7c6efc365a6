package aton

import (
	"context"

	"github.com/paulmach/orb"
)

// Marker is a read-only snapshot of an Aid-to-Navigation position taken
// at render time. The tile pipeline never mutates markers.
type Marker struct {
	Position orb.Point
	Category string
}

func (m Marker) Lon() float64 { return m.Position.Lon() }
func (m Marker) Lat() float64 { return m.Position.Lat() }

// Source answers spatial queries over the AtoN dataset: all markers
// whose position falls inside the given WGS84 bounding box. The tile
// pipeline depends only on this interface, not on how markers are
// persisted or indexed.
type Source interface {
	Query(ctx context.Context, bounds orb.Bound) ([]Marker, error)
}
