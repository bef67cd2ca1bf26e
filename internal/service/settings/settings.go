package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/morgween/ulu-pricing/internal/model"
)

// ErrInvalidConfig returned when a pricing document fails validation
var ErrInvalidConfig = errors.New("invalid pricing configuration")

// Decode parses a raw pricing document: legacy-name migration, typed decode, defaults.
func Decode(data []byte) (*model.PricingConfig, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode pricing document: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document must be a JSON object", ErrInvalidConfig)
	}
	return FromMap(raw)
}

// FromMap converts an already parsed document
func FromMap(raw map[string]any) (*model.PricingConfig, error) {
	migrated, err := json.Marshal(Migrate(raw))
	if err != nil {
		return nil, fmt.Errorf("encode migrated document: %w", err)
	}
	cfg := documentDefaults()
	if err := json.Unmarshal(migrated, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg.WithDefaults(), nil
}

// documentDefaults scalars a document may leave out; keys present in the document overwrite them,
// an explicit 0 included. Lists and maps stay empty so decoded entries never merge with defaults.
func documentDefaults() *model.PricingConfig {
	def := model.DefaultPricingConfig()
	return &model.PricingConfig{
		VAT:      def.VAT,
		Children: def.Children,
		Events:   def.Events,
		Staffing: model.StaffingConfig{RevenueComponent: def.Staffing.RevenueComponent},
		Drinks: model.DrinksConfig{
			ChildHotMultiplier:  def.Drinks.ChildHotMultiplier,
			ChildColdMultiplier: def.Drinks.ChildColdMultiplier,
		},
		Wine: model.WineConfig{
			Baseline: model.WineBaseline{
				GuestsPerBottle:          def.Wine.Baseline.GuestsPerBottle,
				MinimumGuestsForAllTypes: def.Wine.Baseline.MinimumGuestsForAllTypes,
			},
		},
		Addons: def.Addons,
	}
}

// Validate reports values that defaults cannot repair sensibly
func Validate(cfg *model.PricingConfig) error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(cfg.VAT < 1, "vat %v must be a fraction below 1", cfg.VAT)
	check(cfg.Food.Winery.PriceIncVAT >= 0 && cfg.Food.Winery.CostExVAT >= 0, "winery menu prices must not be negative")
	check(cfg.Drinks.Hot.CostPerUnit >= 0 && cfg.Drinks.Cold.CostPerUnit >= 0, "drink costs must not be negative")

	for i, b := range cfg.Staffing.WorkerMatrix {
		if b.MinGuests != nil && b.MaxGuests != nil {
			check(*b.MinGuests <= *b.MaxGuests, "workerMatrix[%d]: minGuests above maxGuests", i)
		}
		check(b.OurFood >= 0 && b.Catering >= 0, "workerMatrix[%d]: negative worker count", i)
	}

	keys := map[string]bool{}
	for i, e := range cfg.Food.Extras {
		check(e.Key != "" || e.ID != "", "extras[%d]: key or id required", i)
		check(!keys[e.Key] || e.Key == "", "extras[%d]: duplicate key %q", i, e.Key)
		keys[e.Key] = true
		check(e.PriceIncVAT >= 0 && e.CostExVAT >= 0, "extras[%d]: negative price", i)
	}

	for mode, rows := range cfg.RevenueTargets {
		for i, r := range rows {
			check(!math.IsNaN(r.Pct) && r.Pct >= 0 && r.Pct < 10, "revenueTargets.%s[%d]: pct %v out of range", mode, i, r.Pct)
		}
	}

	venueKeys := map[string]bool{}
	for i, v := range cfg.Venues {
		check(v.Key != "", "venues[%d]: key required", i)
		check(!venueKeys[v.Key], "venues[%d]: duplicate key %q", i, v.Key)
		venueKeys[v.Key] = true
		check(v.BaseFee >= 0 && v.Cost >= 0, "venues[%d]: negative fee", i)
	}

	for key, tier := range cfg.Wine.Tiers {
		for _, color := range model.Colors {
			check(tier.CostExVAT.Get(color) >= 0 && tier.PriceIncVAT.Get(color) >= 0, "wine tier %s: negative %s price", key, color)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// LoadFile reads a pricing document; a missing file yields the built-in defaults
func LoadFile(path string) (*model.PricingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultPricingConfig(), nil
		}
		return nil, fmt.Errorf("read pricing file: %w", err)
	}
	return Decode(data)
}

// SaveFile writes the document atomically (temp file + rename)
func SaveFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// DecodePresets parses an add-on preset list; anything but a JSON array is rejected
func DecodePresets(data []byte) ([]model.AddonPreset, error) {
	var presets []model.AddonPreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("invalid quotas data: %w", err)
	}
	if presets == nil {
		return nil, errors.New("invalid quotas data: expected an array")
	}
	return presets, nil
}

// DefaultPresets presets offered before any are saved
func DefaultPresets() []model.AddonPreset {
	return []model.AddonPreset{
		{Label: "DJ", Source: model.AddonSourceWinery, Type: model.AddonCommissionFixed, UnitExVAT: 2500, Category: "entertainment"},
		{Label: "Photographer", Source: model.AddonSourceCustomer, Type: model.AddonFixed, UnitExVAT: 0, Category: "media"},
		{Label: "Flowers per table", Source: model.AddonSourceWinery, Type: model.AddonCommissionPerPerson, UnitExVAT: 12, Category: "decor"},
	}
}
