package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	v1 "github.com/morgween/ulu-pricing/internal/api/v1"
	"github.com/morgween/ulu-pricing/internal/config"
	"github.com/morgween/ulu-pricing/internal/logging"
	"github.com/morgween/ulu-pricing/internal/model"
	"github.com/morgween/ulu-pricing/internal/render"
	"github.com/morgween/ulu-pricing/internal/service/settings"
	svcstore "github.com/morgween/ulu-pricing/internal/service/store"
	"github.com/morgween/ulu-pricing/internal/store"
)

// Server HTTP server
type Server struct {
	router   *gin.Engine
	store    *store.Store
	snapshot *svcstore.MemoryStore
	api      *v1.Handler
	http     *http.Server
}

// NewServer opens the database, loads the pricing snapshot and builds the router.
// baseDir resolves the relative paths of cfg.
func NewServer(cfg *config.AppConfig, baseDir string) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	sqliteStore, err := store.New(config.DBPath(cfg, dataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	pricing, err := loadPricing(sqliteStore, config.ResolvePath(baseDir, cfg.Pricing.File))
	if err != nil {
		sqliteStore.Close()
		return nil, err
	}
	presets, err := loadPresets(sqliteStore, config.ResolvePath(baseDir, cfg.Pricing.PresetsFile))
	if err != nil {
		sqliteStore.Close()
		return nil, err
	}
	snapshot := svcstore.NewMemoryStore(pricing, presets)

	pdf := &render.PDFRenderer{
		ChromePath: cfg.Export.ChromePath,
		Timeout:    time.Duration(cfg.Export.PDFTimeoutSeconds) * time.Second,
	}
	if !pdf.Available() {
		log.Warn().Msg("chrome not found, PDF export disabled until it is installed")
	}

	api := v1.NewHandler(sqliteStore, snapshot, v1.Options{
		PDF:         pdf,
		ExportDir:   filepath.Join(dataDir, "exports"),
		DownloadTTL: time.Duration(cfg.Export.DownloadTTLMinutes) * time.Minute,
	})

	s := &Server{
		router:   gin.New(),
		store:    sqliteStore,
		snapshot: snapshot,
		api:      api,
	}
	s.setupRoutes(cfg.Server)
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("data_dir", dataDir).
		Int("presets", len(presets)).
		Msg("pricing snapshot loaded")
	return s, nil
}

func (s *Server) setupRoutes(cfg config.ServerConfig) {
	s.router.Use(logging.GinLogger(), gin.Recovery())
	s.router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	if cfg.DevMode {
		// front end served by its own dev server
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
		return
	}
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

func corsConfig(origins []string) cors.Config {
	conf := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
	}
	conf.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	conf.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	conf.ExposeHeaders = []string{"Content-Disposition", "X-Config-Version"}
	conf.MaxAge = 12 * time.Hour
	return conf
}

// loadPricing stored document, else the seed file (or defaults), which is then stored
func loadPricing(st *store.Store, file string) (*model.PricingConfig, error) {
	raw, err := st.GetConfig(store.ConfigKeyPricing)
	if err == nil {
		cfg, err := settings.Decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("stored pricing config is invalid: %w", err)
		}
		return cfg, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	cfg := model.DefaultPricingConfig()
	if file != "" {
		if cfg, err = settings.LoadFile(file); err != nil {
			return nil, err
		}
	}
	if err := settings.Validate(cfg); err != nil {
		return nil, fmt.Errorf("pricing file %s: %w", file, err)
	}
	if err := st.SetConfigJSON(store.ConfigKeyPricing, cfg); err != nil {
		return nil, err
	}
	log.Info().Str("file", file).Msg("pricing config seeded")
	return cfg, nil
}

// loadPresets stored presets, else the seed file, else the built-in list
func loadPresets(st *store.Store, file string) ([]model.AddonPreset, error) {
	raw, err := st.GetConfig(store.ConfigKeyPresets)
	if err == nil {
		presets, err := settings.DecodePresets([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("stored quotas are invalid: %w", err)
		}
		return presets, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	presets := settings.DefaultPresets()
	if file != "" {
		data, err := os.ReadFile(file)
		switch {
		case err == nil:
			if presets, err = settings.DecodePresets(data); err != nil {
				return nil, fmt.Errorf("quotas file %s: %w", file, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read quotas file: %w", err)
		}
	}
	if err := st.SetConfigJSON(store.ConfigKeyPresets, presets); err != nil {
		return nil, err
	}
	return presets, nil
}

// Handler root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until Shutdown
func (s *Server) Run(addr string) error {
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener and closes the database
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	return errors.Join(err, s.store.Close())
}

// GetStore database (tests)
func (s *Server) GetStore() *store.Store {
	return s.store
}
