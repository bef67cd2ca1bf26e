package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morgween/ulu-pricing/internal/model"
	"github.com/morgween/ulu-pricing/internal/service/calculator"
)

const currentDocument = `{
  "vat": 0.17,
  "children": {"factor": 0.5},
  "events": {"minimumGuests": 25},
  "food": {
    "winery": {"price_incVAT": 190, "cost_exVAT": 50},
    "extras": {
      "pizza": {"id": "menu_extra_pizza", "label": "Pizza", "price_incVAT": 25, "cost_exVAT": 7, "appliesTo": "winery"},
      "cake": {"id": "menu_extra_cake", "label": "Cake", "price_incVAT": 30, "cost_exVAT": 9, "appliesTo": "any"}
    },
    "child_food_factor": 0.6
  },
  "drinks": {
    "hot": {"cost_exVAT": 4, "priceMultiplier": 3},
    "cold": {"costPerUnit": 5, "pricePerUnit": 17},
    "counts_by_duration": {"short": {"hot": 1, "cold": 1}}
  },
  "addons": {"we_bring": {"markup_percent": 0}},
  "pricing": {
    "venues": {"baseFees": [
      {"key": "inside", "label": "Inside", "baseFee_exVAT": 500, "cost_exVAT": 100, "locationMultiplier": 1}
    ]},
    "place": {"venues": {
      "garden": {"label": "Garden", "base_exVAT": 800, "cost_exVAT": 200},
      "inside": {"label": "Duplicate", "base_exVAT": 1}
    }}
  }
}`

func TestDecodeCurrentDocument(t *testing.T) {
	t.Parallel()

	cfg, err := Decode([]byte(currentDocument))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if cfg.VAT != 0.17 || cfg.Events.MinimumGuests != 25 {
		t.Fatalf("vat/minimum = %v/%d", cfg.VAT, cfg.Events.MinimumGuests)
	}
	if cfg.Children.Factor != 0.6 {
		t.Errorf("child_food_factor should win, got %v", cfg.Children.Factor)
	}
	if cfg.Drinks.Hot.CostPerUnit != 4 || cfg.Drinks.Hot.PricePerUnit != 12 {
		t.Errorf("hot drinks = %+v", cfg.Drinks.Hot)
	}
	if rates, ok := cfg.Drinks.RatesByDuration["short"]; !ok || rates.Hot != 1 {
		t.Errorf("ratesByDuration = %+v", cfg.Drinks.RatesByDuration)
	}

	if len(cfg.Food.Extras) != 2 || cfg.Food.Extras[0].Key != "cake" || cfg.Food.Extras[1].Key != "pizza" {
		t.Fatalf("extras = %+v", cfg.Food.Extras)
	}
	if _, ok := cfg.Extra("menu_extra_pizza"); !ok {
		t.Error("extra lookup by id failed")
	}

	if len(cfg.Venues) != 2 {
		t.Fatalf("venues = %+v", cfg.Venues)
	}
	inside, _ := cfg.Venue("inside")
	if inside.Label != "Inside" || inside.BaseFee != 500 {
		t.Errorf("inside = %+v", inside)
	}
	garden, ok := cfg.Venue("garden")
	if !ok || garden.BaseFee != 800 || garden.LocationMultiplier != 1 {
		t.Errorf("garden = %+v", garden)
	}

	// untouched sections take their defaults
	if cfg.Wine.Baseline.GuestsPerBottle != model.DefaultGuestsPerBottle || len(cfg.Wine.Tiers) != 2 {
		t.Errorf("wine defaults missing: %+v", cfg.Wine)
	}
	if cfg.Addons.WineryCommissionRate != model.DefaultWineryCommissionRate {
		t.Errorf("addons = %+v", cfg.Addons)
	}
}

func TestDecodeFlatLegacyDocument(t *testing.T) {
	t.Parallel()

	doc := `{
		"vat": 0.2,
		"childFactor": 0.5,
		"workerRate": 600,
		"managerBonus": 400,
		"staffSteps": [{"minGuests": 0, "maxGuests": 50, "workers": 2}],
		"menu": {"winery_cost_exVAT": 40, "winery_price_exVAT": 150},
		"bottlePerAdults": 4,
		"defaultWineMix": {"white": 0.5, "rose": 0.3, "red": 0.2},
		"winePrice": {"winery": {"label": "House", "white": 100, "rose": 100, "red": 150}},
		"wineCost": {"winery": {"white": 30, "rose": 30, "red": 45}},
		"venues": {"hall": {"label": "Hall", "base_exVAT": 1000, "cost_exVAT": 300}}
	}`
	cfg, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if cfg.Children.Factor != 0.5 || cfg.Staffing.WorkerRate != 600 || cfg.Staffing.ManagerBonus != 400 {
		t.Fatalf("flat fields not upgraded: %+v / %+v", cfg.Children, cfg.Staffing)
	}
	if len(cfg.Staffing.WorkerMatrix) != 1 || cfg.Staffing.WorkerMatrix[0].OurFood != 2 || cfg.Staffing.WorkerMatrix[0].Catering != 2 {
		t.Errorf("worker matrix = %+v", cfg.Staffing.WorkerMatrix)
	}
	if cfg.Food.Winery.CostExVAT != 40 || !floatEquals(cfg.Food.Winery.PriceIncVAT, 180) {
		t.Errorf("winery menu = %+v", cfg.Food.Winery)
	}
	if cfg.Wine.Baseline.GuestsPerBottle != 4 || cfg.Wine.Baseline.Ratio.White != 0.5 {
		t.Errorf("wine baseline = %+v", cfg.Wine.Baseline)
	}
	ulu, ok := cfg.Wine.Tiers[model.SupplierUlu]
	if !ok || ulu.Label != "House" || ulu.CostExVAT.Red != 45 || !floatEquals(ulu.PriceIncVAT.Red, 180) {
		t.Errorf("ulu tier = %+v", ulu)
	}
	hall, ok := cfg.Venue("hall")
	if !ok || hall.BaseFee != 1000 || hall.Cost != 300 {
		t.Errorf("hall = %+v", hall)
	}
}

func TestMigrateKeepsExplicitNewNames(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"drinks": map[string]any{
			"hot":                map[string]any{"cost_exVAT": 1.0, "costPerUnit": 6.0, "pricePerUnit": 20.0, "priceMultiplier": 5.0},
			"counts_by_duration": map[string]any{"short": map[string]any{"hot": 9.0}},
			"ratesByDuration":    map[string]any{"short": map[string]any{"hot": 1.0}},
		},
	}
	Migrate(doc)

	drinks := doc["drinks"].(map[string]any)
	hot := drinks["hot"].(map[string]any)
	if hot["costPerUnit"] != 6.0 || hot["pricePerUnit"] != 20.0 {
		t.Fatalf("explicit names overwritten: %+v", hot)
	}
	if _, ok := hot["cost_exVAT"]; ok {
		t.Error("legacy cost_exVAT left behind")
	}
	if _, ok := drinks["counts_by_duration"]; ok {
		t.Error("counts_by_duration left behind")
	}
	short := drinks["ratesByDuration"].(map[string]any)["short"].(map[string]any)
	if short["hot"] != 1.0 {
		t.Errorf("ratesByDuration overwritten: %+v", short)
	}
}

func TestDecodeFillsOmittedScalars(t *testing.T) {
	t.Parallel()

	cfg, err := Decode([]byte(`{"wine":{"baseline":{"guestsPerBottle":5}}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Children.Factor != model.DefaultChildFactor || cfg.VAT != model.DefaultVAT {
		t.Errorf("children.factor=%v vat=%v", cfg.Children.Factor, cfg.VAT)
	}
	if cfg.Staffing.RevenueComponent != model.DefaultRevenueComponent || cfg.Events.MinimumGuests != model.DefaultMinimumGuests {
		t.Errorf("revenueComponent=%v minimumGuests=%d", cfg.Staffing.RevenueComponent, cfg.Events.MinimumGuests)
	}

	res := calculator.NewEngine(cfg).Calculate(model.QuoteRequest{
		Guests:     model.GuestCounts{Adults: 40, Children: 10},
		Selections: model.Selections{Menu: model.MenuWinery},
	})
	if res.Guests.Effective != 47.5 || res.Guests.Total != 50 || res.VATRate != model.DefaultVAT {
		t.Errorf("effective=%v total=%d vat=%v", res.Guests.Effective, res.Guests.Total, res.VATRate)
	}
}

func TestDecodeKeepsExplicitZero(t *testing.T) {
	t.Parallel()

	cfg, err := Decode([]byte(`{"vat": 0, "children": {"factor": 0}, "staffing": {"revenueComponent_exVAT": 0}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.VAT != 0 || cfg.Children.Factor != 0 || cfg.Staffing.RevenueComponent != 0 {
		t.Errorf("vat=%v children.factor=%v revenueComponent=%v", cfg.VAT, cfg.Children.Factor, cfg.Staffing.RevenueComponent)
	}
	if len(cfg.Staffing.WorkerMatrix) == 0 {
		t.Error("worker matrix default missing")
	}
}

func TestDecodeRejectsNonObject(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{`[1,2]`, `null`, `not json`} {
		if _, err := Decode([]byte(doc)); err == nil {
			t.Errorf("Decode(%s) succeeded", doc)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate(model.DefaultPricingConfig()); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	cfg := model.DefaultPricingConfig()
	cfg.VAT = 1.5
	cfg.Venues = append(cfg.Venues, model.VenueConfig{Key: "inside"})
	err := Validate(cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "vat") || !strings.Contains(msg, `duplicate key "inside"`) {
		t.Errorf("message = %s", msg)
	}
}

func TestLoadAndSaveFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "pricing.json")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile missing: %v", err)
	}
	if cfg.VAT != model.DefaultVAT {
		t.Fatalf("missing file should give defaults, vat = %v", cfg.VAT)
	}

	cfg.VAT = 0.16
	cfg.Events.MinimumGuests = 30
	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.VAT != 0.16 || loaded.Events.MinimumGuests != 30 || len(loaded.Venues) != len(cfg.Venues) {
		t.Fatalf("reloaded = vat %v min %d venues %d", loaded.VAT, loaded.Events.MinimumGuests, len(loaded.Venues))
	}
}

func TestDecodePresets(t *testing.T) {
	t.Parallel()

	presets, err := DecodePresets([]byte(`[{"label":"DJ","type":"fixed","unit_exVAT":1500,"qty":2}]`))
	if err != nil {
		t.Fatalf("DecodePresets: %v", err)
	}
	line := presets[0].Line()
	if line.Description != "DJ" || line.Price != 3000 || line.Type != model.AddonFixed {
		t.Errorf("line = %+v", line)
	}

	for _, doc := range []string{`{"label":"DJ"}`, `null`, `"x"`} {
		if _, err := DecodePresets([]byte(doc)); err == nil {
			t.Errorf("DecodePresets(%s) succeeded", doc)
		}
	}
	if empty, err := DecodePresets([]byte(`[]`)); err != nil || len(empty) != 0 {
		t.Errorf("empty list: %v %v", empty, err)
	}
}

func floatEquals(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
