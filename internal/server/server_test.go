package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/morgween/ulu-pricing/internal/config"
	"github.com/morgween/ulu-pricing/internal/model"
	"github.com/morgween/ulu-pricing/internal/store"
)

func newTestConfig(t *testing.T) (*config.AppConfig, string) {
	t.Helper()
	base := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Data.DataDir = "data"
	cfg.Server.AllowOrigins = []string{"http://localhost:5173"}
	cfg.Export.ChromePath = filepath.Join(base, "no-chrome")
	return cfg, base
}

func shutdown(t *testing.T, s *Server) {
	t.Helper()
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNewServerSeedsFromPricingFile(t *testing.T) {
	cfg, base := newTestConfig(t)
	doc := `{"vat": 0.17, "childFactor": 0.5, "workerRate": 60}`
	if err := os.WriteFile(filepath.Join(base, cfg.Pricing.File), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewServer(cfg, base)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer shutdown(t, s)

	if got := s.snapshot.Config(); got.VAT != 0.17 || got.Staffing.WorkerRate != 60 {
		t.Errorf("snapshot vat=%v workerRate=%v", got.VAT, got.Staffing.WorkerRate)
	}

	var stored model.PricingConfig
	if err := s.GetStore().GetConfigJSON(store.ConfigKeyPricing, &stored); err != nil {
		t.Fatalf("stored config: %v", err)
	}
	if stored.Children.Factor != 0.5 {
		t.Errorf("stored children factor = %v", stored.Children.Factor)
	}
	if presets := s.snapshot.Presets(); len(presets) == 0 {
		t.Error("default presets not loaded")
	}
}

func TestNewServerPrefersStoredConfig(t *testing.T) {
	cfg, base := newTestConfig(t)

	s, err := NewServer(cfg, base)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	stored := model.DefaultPricingConfig()
	stored.VAT = 0.16
	if err := s.GetStore().SetConfigJSON(store.ConfigKeyPricing, stored); err != nil {
		t.Fatal(err)
	}
	shutdown(t, s)

	// a seed file appearing later must not override the database
	if err := os.WriteFile(filepath.Join(base, cfg.Pricing.File), []byte(`{"vat": 0.1}`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err = NewServer(cfg, base)
	if err != nil {
		t.Fatalf("NewServer reopen: %v", err)
	}
	defer shutdown(t, s)
	if got := s.snapshot.Config().VAT; got != 0.16 {
		t.Errorf("vat = %v, want stored 0.16", got)
	}
}

func TestNewServerRejectsInvalidSeed(t *testing.T) {
	cfg, base := newTestConfig(t)
	if err := os.WriteFile(filepath.Join(base, cfg.Pricing.File), []byte(`{"vat": 2}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewServer(cfg, base); err == nil {
		t.Fatal("expected error for invalid pricing file")
	}
}

func TestRoutes(t *testing.T) {
	cfg, base := newTestConfig(t)
	s, err := NewServer(cfg, base)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer shutdown(t, s)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
}
