package aton

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FileSource serves markers from a GeoJSON FeatureCollection loaded at
// startup. It backs standalone deployments that have no live AtoN
// database behind them; features with non-point geometry are skipped.
type FileSource struct {
	markers []Marker
}

func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read aton source: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse aton source: %w", err)
	}

	s := &FileSource{}
	for _, f := range fc.Features {
		point, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		category, _ := f.Properties["category"].(string)
		s.markers = append(s.markers, Marker{Position: point, Category: category})
	}

	return s, nil
}

// Query returns the markers inside bounds. The marker list is immutable
// after construction, so concurrent queries need no locking.
func (s *FileSource) Query(ctx context.Context, bounds orb.Bound) ([]Marker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result []Marker
	for _, m := range s.markers {
		if bounds.Contains(m.Position) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *FileSource) Len() int {
	return len(s.markers)
}
