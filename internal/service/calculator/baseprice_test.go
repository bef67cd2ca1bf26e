package calculator

import (
	"testing"

	"github.com/morgween/ulu-pricing/internal/model"
)

func TestTargetPct(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	tests := []struct {
		name   string
		guests float64
		mode   model.MarginMode
		want   float64
	}{
		{"interpolates between knots", 45, model.MarginOurFood, 0.58},
		{"exact knot", 70, model.MarginOurFood, 0.6},
		{"below first knot clamps", 5, model.MarginOurFood, 0.67},
		{"above last knot clamps", 250, model.MarginOurFood, 0.55},
		{"catering is flat", 65, model.MarginCatering, 0.68},
		{"customer catering", 90, model.MarginCustomerCatering, 0.325},
		{"unknown mode uses our_food", 45, model.MarginMode("buffet"), 0.58},
	}
	for _, tt := range tests {
		if got := TargetPct(cfg, tt.guests, tt.mode); !floatEquals(got, tt.want) {
			t.Errorf("%s: TargetPct(%v, %s) = %v, want %v", tt.name, tt.guests, tt.mode, got, tt.want)
		}
	}
}

func TestTargetPctCustomTable(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	cfg.RevenueTargets = map[model.MarginMode][]model.RevenueTarget{
		model.MarginOurFood: {{Guests: 50, Pct: 0.59}, {Guests: 40, Pct: 0.57}},
	}
	if got := TargetPct(cfg, 45, model.MarginOurFood); !floatEquals(got, 0.58) {
		t.Fatalf("unsorted table: got %v, want 0.58", got)
	}
	// missing mode falls back to the built-in table
	if got := TargetPct(cfg, 20, model.MarginCatering); !floatEquals(got, 0.68) {
		t.Fatalf("missing mode: got %v, want 0.68", got)
	}
}

func TestSolveBasePriceDegenerate(t *testing.T) {
	t.Parallel()

	got := SolveBasePrice(0.6, BasePriceInput{FoodIncome: 500, DrinksIncome: 200})
	if got.BP != 0 || got.RevenuePct != 0 || got.RevenuePctNoBP != 0 {
		t.Fatalf("degenerate solve = %+v", got)
	}
	if got.Note == "" {
		t.Fatal("expected a diagnostic note for zero base cost")
	}
}

func TestSolveBasePriceReachesTarget(t *testing.T) {
	t.Parallel()

	in := BasePriceInput{
		FoodIncome: 1000, FoodCost: 800,
		DrinksIncome: 600, DrinksCost: 500,
		WorkIncome: 1700, WorkCost: 1600,
	}
	got := SolveBasePrice(0.5, in)

	// denom 2900, profit 400, raw 1450 - 400
	if !floatEquals(got.Denom, 2900) || !floatEquals(got.RawBP, 1050) || !floatEquals(got.BP, 1050) {
		t.Fatalf("solve = %+v", got)
	}
	if got.RevenuePct < 0.5-1e-9 {
		t.Fatalf("revenue pct %v below target", got.RevenuePct)
	}
	if got.Surplus != 0 || got.Note != "" {
		t.Fatalf("unexpected surplus or note: %+v", got)
	}
}

func TestSolveBasePriceSurplus(t *testing.T) {
	t.Parallel()

	in := BasePriceInput{FoodIncome: 3000, FoodCost: 1000}
	got := SolveBasePrice(0.5, in)
	if got.BP != 0 {
		t.Fatalf("bp = %v, want 0", got.BP)
	}
	if !floatEquals(got.Surplus, 1500) {
		t.Fatalf("surplus = %v, want 1500", got.Surplus)
	}
	if !floatEquals(got.RevenuePct, got.RevenuePctNoBP) || !floatEquals(got.RevenuePct, 2) {
		t.Fatalf("revenue pct = %v (natural %v)", got.RevenuePct, got.RevenuePctNoBP)
	}
}

func TestSolveBasePriceMonotonic(t *testing.T) {
	t.Parallel()

	inputs := []BasePriceInput{
		{FoodIncome: 1000, FoodCost: 800, DrinksIncome: 600, DrinksCost: 500, WorkIncome: 1700, WorkCost: 1600},
		{FoodIncome: 3000, FoodCost: 1000},
		{FoodCost: 100, DrinksCost: 50, WorkCost: 10},
	}
	for _, in := range inputs {
		prev := -1.0
		for step := 0; step <= 40; step++ {
			target := float64(step) * 0.05
			got := SolveBasePrice(target, in)
			if got.BP < prev {
				t.Fatalf("bp decreased at target %v: %v < %v", target, got.BP, prev)
			}
			prev = got.BP
		}
	}
}

func TestComputeBasePriceUsesTable(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	in := BasePriceInput{Guests: 45, Mode: model.MarginOurFood, FoodIncome: 1000, FoodCost: 1000}
	got := ComputeBasePrice(cfg, in)
	if !floatEquals(got.TargetPct, 0.58) || !floatEquals(got.BP, 580) {
		t.Fatalf("ComputeBasePrice = %+v", got)
	}
}
