package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TileRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aton_tile_requests_total",
		Help: "Total number of tile requests",
	})

	BlankHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aton_tile_blank_hits_total",
		Help: "Requests short-circuited by the known-blank index",
	})

	StoreHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aton_tile_store_hits_total",
		Help: "Requests served from the persistent tile store",
	})

	NotModified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aton_tile_not_modified_total",
		Help: "Conditional requests answered with 304",
	})

	BlankMarks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aton_tile_blank_marks_total",
		Help: "Tile addresses newly recorded as blank",
	})

	TilesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aton_tiles_rendered_total",
		Help: "Tiles rendered and written to the store",
	})

	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aton_tile_query_duration_seconds",
		Help:    "Latency of spatial queries in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
