package store

import (
	"sync"

	"github.com/morgween/ulu-pricing/internal/model"
	"github.com/morgween/ulu-pricing/internal/service/calculator"
)

// MemoryStore in-memory pricing snapshot.
//
// Readers get the engine and presets of one snapshot; Replace swaps the whole snapshot
// so a running calculation never sees a half-updated config.
type MemoryStore struct {
	engine  *calculator.Engine
	presets []model.AddonPreset
	version int
	mu      sync.RWMutex
}

// NewMemoryStore creates a store holding cfg (defaults when nil)
func NewMemoryStore(cfg *model.PricingConfig, presets []model.AddonPreset) *MemoryStore {
	return &MemoryStore{
		engine:  calculator.NewEngine(cfg),
		presets: clonePresets(presets),
		version: 1,
	}
}

// Engine engine bound to the current snapshot
func (s *MemoryStore) Engine() *calculator.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Config current pricing snapshot
func (s *MemoryStore) Config() *model.PricingConfig {
	return s.Engine().Config()
}

// Version increments on every config swap
func (s *MemoryStore) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot engine and the version it was installed under, read together
func (s *MemoryStore) Snapshot() (*calculator.Engine, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine, s.version
}

// Replace swaps in a new pricing snapshot
func (s *MemoryStore) Replace(cfg *model.PricingConfig) {
	engine := calculator.NewEngine(cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = engine
	s.version++
}

// Presets copy of the add-on presets
func (s *MemoryStore) Presets() []model.AddonPreset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePresets(s.presets)
}

// SetPresets replaces the add-on presets
func (s *MemoryStore) SetPresets(presets []model.AddonPreset) {
	cloned := clonePresets(presets)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = cloned
}

// Calculate runs a quote against the current snapshot
func (s *MemoryStore) Calculate(req model.QuoteRequest) *model.QuoteResult {
	return s.Engine().Calculate(req)
}

func clonePresets(in []model.AddonPreset) []model.AddonPreset {
	out := make([]model.AddonPreset, len(in))
	copy(out, in)
	return out
}
