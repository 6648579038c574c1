package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/pkg/metrics"
	"github.com/kamal-hamza/extrude-cli/pkg/workspace"
)

const (
	catalogCacheControl = "public, max-age=3600"
	modelCacheControl   = "public, max-age=31536000"
)

// Handler serves processed models and the catalog
type Handler struct {
	workspace *workspace.Workspace
	publicDir string
	logger    *zap.Logger
}

// NewRouter sets up the API routes. publicDir may be empty to use the
// workspace public directory; m may be nil to disable /metrics.
func NewRouter(ws *workspace.Workspace, publicDir string, logger *zap.Logger, m *metrics.Metrics) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publicDir == "" {
		publicDir = ws.PublicPath
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	h := &Handler{workspace: ws, publicDir: publicDir, logger: logger}

	api := router.Group("/api")
	{
		api.GET("/models/catalog", h.GetCatalog)
		api.GET("/models", h.GetModel)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	return router
}

// GetCatalog returns the prepared catalog, falling back to the one in
// the processed directory
func (h *Handler) GetCatalog(c *gin.Context) {
	for _, p := range []string{
		filepath.Join(h.publicDir, "catalog.json"),
		h.workspace.CatalogPath(),
	} {
		if !isFile(p) {
			continue
		}
		c.Header("Cache-Control", catalogCacheControl)
		c.File(p)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Catalog not found"})
}

// GetModel streams the GLB of ?id= at ?lod= (default medium)
func (h *Handler) GetModel(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model ID is required"})
		return
	}
	if !validID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid model ID"})
		return
	}

	lod := domain.DefaultLOD
	if raw := c.Query("lod"); raw != "" {
		parsed, err := domain.ParseLOD(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lod = parsed
	}

	// processed output first, then the flat public layout, then the
	// per-model layout written by catalog prepare
	checked := []string{
		h.workspace.ModelPath(lod, id),
		filepath.Join(h.publicDir, string(lod), id+".glb"),
		filepath.Join(h.publicDir, id, string(lod), id+".glb"),
		filepath.Join(h.publicDir, id, id+".glb"),
	}
	for _, p := range checked {
		if !isFile(p) {
			continue
		}
		c.Header("Content-Type", "model/gltf-binary")
		c.Header("Content-Disposition", `inline; filename="`+id+`.glb"`)
		c.Header("Cache-Control", modelCacheControl)
		c.File(p)
		return
	}

	h.logger.Debug("model not found", zap.String("id", id), zap.Strings("checked", checked))
	c.JSON(http.StatusNotFound, gin.H{
		"error":        "Model not found",
		"checkedPaths": checked,
	})
}

// validID rejects ids that would escape the model directories
func validID(id string) bool {
	return !strings.ContainsAny(id, `/\`) && id != "." && id != ".." && !strings.Contains(id, "\x00")
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
