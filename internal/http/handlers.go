package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"atontiles/internal/config"
	"atontiles/internal/mercator"
	"atontiles/internal/tile_service"
)

type Handlers struct {
	config *config.Config
	logger *zap.Logger
	tiles  *tile_service.Service
}

func New(cfg *config.Config, logger *zap.Logger, tiles *tile_service.Service) *Handlers {
	return &Handlers{
		config: cfg,
		logger: logger,
		tiles:  tiles,
	}
}

func (h *Handlers) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(h.RequestLoggingMiddleware())
	r.Use(h.CORSMiddleware())

	r.GET("/aton-tiles/:z/:x/:y", h.HandleTile)
	r.GET("/healthz", h.HandleHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// HandleTile serves GET /aton-tiles/{z}/{x}/{y}.png. Blank tiles are
// streamed as full 256x256 bodies, never redirected.
func (h *Handlers) HandleTile(c *gin.Context) {
	addr, ok := h.parseTileAddress(c)
	if !ok {
		return
	}

	resp, err := h.tiles.HandleTileRequest(c.Request.Context(), addr, conditionalTag(c))
	if err != nil {
		h.logger.Error("Failed to resolve tile",
			zap.Int("z", addr.Zoom),
			zap.Int("x", addr.X),
			zap.Int("y", addr.Y),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate tile"})
		return
	}

	c.Header("Expires", resp.ExpiresAt.UTC().Format(http.TimeFormat))
	if resp.ETag != "" {
		c.Header("ETag", `"`+resp.ETag+`"`)
	}

	if resp.NotModified {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "image/png", resp.Data)
}

func (h *Handlers) HandleHealthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handlers) parseTileAddress(c *gin.Context) (mercator.TileAddress, bool) {
	z, err := strconv.Atoi(c.Param("z"))
	if err != nil || z < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "z should be a non-negative integer"})
		return mercator.TileAddress{}, false
	}

	x, err := strconv.Atoi(c.Param("x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x should be an integer"})
		return mercator.TileAddress{}, false
	}

	y, err := strconv.Atoi(strings.TrimSuffix(c.Param("y"), ".png"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "y should be an integer"})
		return mercator.TileAddress{}, false
	}

	return mercator.TileAddress{Zoom: z, X: x, Y: y}, true
}

// conditionalTag extracts the validator from If-None-Match, stripping
// quoting and the weak prefix.
func conditionalTag(c *gin.Context) string {
	tag := c.GetHeader("If-None-Match")
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}

func (h *Handlers) RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		start := time.Now()

		c.Next()

		h.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

func (h *Handlers) CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowedOrigin := h.config.AllowedOrigin
		if allowedOrigin == "" {
			allowedOrigin = "*"
		}

		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "If-None-Match")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
