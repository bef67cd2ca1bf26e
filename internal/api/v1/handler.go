package v1

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/morgween/ulu-pricing/internal/render"
	svcstore "github.com/morgween/ulu-pricing/internal/service/store"
	"github.com/morgween/ulu-pricing/internal/store"
)

const defaultDownloadTTL = 10 * time.Minute

// Options optional handler dependencies
type Options struct {
	PDF         *render.PDFRenderer // nil disables PDF export
	ExportDir   string              // where linked downloads are staged
	DownloadTTL time.Duration
	PricingFile string // mirror of the pricing document, skipped when empty
}

// Handler pricing API handler
type Handler struct {
	store       *store.Store
	snapshot    *svcstore.MemoryStore
	pdf         *render.PDFRenderer
	exportDir   string
	pricingFile string
	downloads   *exportDownloadStore
	downloadTTL time.Duration
	basePath    string
}

// NewHandler creates the API handler
func NewHandler(st *store.Store, snapshot *svcstore.MemoryStore, opts Options) *Handler {
	ttl := opts.DownloadTTL
	if ttl <= 0 {
		ttl = defaultDownloadTTL
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = os.TempDir()
	}
	return &Handler{
		store:       st,
		snapshot:    snapshot,
		pdf:         opts.PDF,
		exportDir:   exportDir,
		pricingFile: opts.PricingFile,
		downloads:   newExportDownloadStore(),
		downloadTTL: ttl,
	}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	h.basePath = router.BasePath()

	router.GET("/health", h.Health)

	// pricing document
	router.GET("/config", h.GetConfig)
	router.PUT("/config", h.UpdateConfig)

	// add-on presets
	router.GET("/quotas", h.GetQuotas)
	router.PUT("/quotas", h.UpdateQuotas)

	router.GET("/wine/suggest", h.SuggestWine)

	// quotes
	router.POST("/quotes/calculate", h.Calculate)
	router.POST("/quotes", h.CreateQuote)
	router.GET("/quotes", h.ListQuotes)
	router.GET("/quotes/:id", h.GetQuote)
	router.DELETE("/quotes/:id", h.DeleteQuote)
	router.GET("/quotes/:id/export.xlsx", h.ExportSavedQuote)

	// exports
	router.POST("/export/xlsx", h.ExportXLSX)
	router.POST("/export/pdf", h.ExportPDF)
	router.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
	router.GET("/exports", h.ListExports)
}
