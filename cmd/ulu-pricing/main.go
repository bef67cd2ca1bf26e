package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/morgween/ulu-pricing/internal/config"
	"github.com/morgween/ulu-pricing/internal/logging"
	"github.com/morgween/ulu-pricing/internal/server"
	"github.com/morgween/ulu-pricing/internal/util"
)

var (
	configPath  = flag.String("config", "", "config.toml path (default: next to the executable)")
	port        = flag.Int("port", 0, "listen port (ignored when config.toml or ULU_PORT sets one)")
	devMode     = flag.Bool("dev", false, "development mode")
	dataDir     = flag.String("dataDir", "", "data directory (overrides the config file)")
	pricingFile = flag.String("pricing", "", "seed pricing document used when the database holds none")
	openBrowser = flag.Bool("open", false, "open the app in the default browser once started")
)

func main() {
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, info, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{Path: path}
	}

	// command line overrides
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
		cfg.Log.Console = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *pricingFile != "" {
		cfg.Pricing.File = *pricingFile
	}

	logging.Init(logging.Options{Level: cfg.Log.Level, Console: cfg.Log.Console})
	log.Info().
		Str("config", info.Path).
		Bool("config_found", info.FileFound).
		Msg("ULU pricing starting")

	srv, err := server.NewServer(cfg, filepath.Dir(info.Path))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("listening")
		if err := srv.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	if *openBrowser && !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("could not open the browser, open it manually")
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
