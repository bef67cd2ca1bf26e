package calculator

import (
	"math"
	"testing"

	"github.com/morgween/ulu-pricing/internal/model"
)

func TestDistributeByRatioLargestRemainder(t *testing.T) {
	t.Parallel()

	got := DistributeByRatio(8, model.DefaultWineRatio, 40, 20)
	want := model.BottleAllocation{White: 3, Rose: 3, Red: 2, Total: 8}
	if got != want {
		t.Fatalf("DistributeByRatio(8) = %+v, want %+v", got, want)
	}
}

func TestDistributeByRatioTieBreak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		total  int
		ratio  model.ColorValues
		adults float64
		want   model.BottleAllocation
	}{
		{
			name:  "equal thirds single bottle goes to rose",
			total: 1,
			ratio: model.ColorValues{White: 1, Rose: 1, Red: 1},
			want:  model.BottleAllocation{Rose: 1, Total: 1},
		},
		{
			name:  "equal thirds two bottles go rose then white",
			total: 2,
			ratio: model.ColorValues{White: 1, Rose: 1, Red: 1},
			want:  model.BottleAllocation{White: 1, Rose: 1, Total: 2},
		},
		{
			name:   "small event keeps red at zero",
			total:  5,
			ratio:  model.ColorValues{White: 0.48, Rose: 0.48, Red: 0.04},
			adults: 10,
			want:   model.BottleAllocation{White: 2, Rose: 3, Total: 5},
		},
		{
			name:   "large event forces one bottle per colour",
			total:  5,
			ratio:  model.ColorValues{White: 0.48, Rose: 0.48, Red: 0.04},
			adults: 30,
			want:   model.BottleAllocation{White: 2, Rose: 2, Red: 1, Total: 5},
		},
		{
			name:   "forced bottles are trimmed from the largest colour",
			total:  3,
			ratio:  model.ColorValues{White: 0.98, Rose: 0.01, Red: 0.01},
			adults: 30,
			want:   model.BottleAllocation{White: 1, Rose: 1, Red: 1, Total: 3},
		},
		{
			name:  "malformed ratio falls back to default",
			total: 8,
			ratio: model.ColorValues{White: -1, Rose: 0, Red: 0},
			want:  model.BottleAllocation{White: 3, Rose: 3, Red: 2, Total: 8},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DistributeByRatio(tt.total, tt.ratio, tt.adults, 20)
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDistributeByRatioConservation(t *testing.T) {
	t.Parallel()

	ratios := []model.ColorValues{
		model.DefaultWineRatio,
		{White: 1, Rose: 0, Red: 1},
		{White: 0, Rose: 0, Red: 1},
		{White: 0.33, Rose: 0.33, Red: 0.34},
		{White: 0.98, Rose: 0.01, Red: 0.01},
		{White: 7, Rose: 2, Red: 1},
	}
	for _, ratio := range ratios {
		for _, adults := range []float64{0, 19, 20, 150} {
			for total := 0; total <= 60; total++ {
				got := DistributeByRatio(total, ratio, adults, 20)
				if got.White+got.Rose+got.Red != total || got.Total != total {
					t.Fatalf("ratio %+v adults %v total %d: got %+v", ratio, adults, total, got)
				}
				if (ratio.White == 0 && got.White > 0) || (ratio.Rose == 0 && got.Rose > 0) || (ratio.Red == 0 && got.Red > 0) {
					t.Fatalf("zero-weight colour received bottles: ratio %+v got %+v", ratio, got)
				}
			}
		}
	}
}

func TestSplitByTierSingleSupplier(t *testing.T) {
	t.Parallel()

	counts := model.BottleAllocation{White: 3, Rose: 3, Red: 2, Total: 8}
	split := model.MixSplit{Ulu: 0.7, Kosher: 0.3}

	kosher := SplitByTier(counts, model.SupplierKosher, model.DefaultWineRatio, split)
	if kosher.Kosher != counts || kosher.Ulu.Total != 0 {
		t.Fatalf("kosher tier: %+v", kosher)
	}
	for _, tier := range []string{model.SupplierUlu, "", "premium"} {
		got := SplitByTier(counts, tier, model.DefaultWineRatio, split)
		if got.Ulu != counts || got.Kosher.Total != 0 {
			t.Fatalf("tier %q: %+v", tier, got)
		}
	}
}

func TestSplitByTierMixGreedy(t *testing.T) {
	t.Parallel()

	counts := model.BottleAllocation{White: 3, Rose: 3, Red: 2, Total: 8}
	got := SplitByTier(counts, model.TierMix, model.DefaultWineRatio, model.MixSplit{Ulu: 0.7, Kosher: 0.3})

	wantUlu := model.BottleAllocation{White: 2, Rose: 2, Red: 2, Total: 6}
	wantKosher := model.BottleAllocation{White: 1, Rose: 1, Red: 0, Total: 2}
	if got.Ulu != wantUlu || got.Kosher != wantKosher {
		t.Fatalf("mix split = %+v, want ulu %+v kosher %+v", got, wantUlu, wantKosher)
	}
}

func TestSplitByTierMixUsesHouseShare(t *testing.T) {
	t.Parallel()

	counts := model.BottleAllocation{White: 4, Rose: 4, Red: 2, Total: 10}
	tests := []struct {
		split      model.MixSplit
		wantUlu    int
		wantKosher int
	}{
		{model.MixSplit{Ulu: 0.6, Kosher: 0.6}, 6, 4},
		{model.MixSplit{Ulu: 0.2, Kosher: 0.2}, 2, 8},
		{model.MixSplit{Ulu: 1.5, Kosher: 0}, 10, 0},
		{model.MixSplit{Ulu: -0.5, Kosher: 1}, 0, 10},
		{model.MixSplit{Ulu: math.NaN(), Kosher: 0.3}, 7, 3},
	}
	for _, tt := range tests {
		got := SplitByTier(counts, model.TierMix, model.DefaultWineRatio, tt.split)
		if got.Ulu.Total != tt.wantUlu || got.Kosher.Total != tt.wantKosher {
			t.Errorf("split %+v: ulu %d kosher %d, want %d/%d", tt.split, got.Ulu.Total, got.Kosher.Total, tt.wantUlu, tt.wantKosher)
		}
		for _, color := range model.Colors {
			if got.Ulu.Get(color)+got.Kosher.Get(color) != counts.Get(color) {
				t.Errorf("split %+v: colour %s not conserved: %+v", tt.split, color, got)
			}
		}
	}
}

func TestSplitByTierConservation(t *testing.T) {
	t.Parallel()

	splits := []model.MixSplit{{Ulu: 0.7, Kosher: 0.3}, {Ulu: 0, Kosher: 1}, {Ulu: 1, Kosher: 0}, {Ulu: 0.5, Kosher: 0.5}}
	for _, split := range splits {
		for w := 0; w <= 7; w++ {
			for r := 0; r <= 7; r++ {
				for red := 0; red <= 5; red++ {
					counts := model.BottleAllocation{White: w, Rose: r, Red: red, Total: w + r + red}
					for _, tier := range []string{model.SupplierUlu, model.SupplierKosher, model.TierMix} {
						got := SplitByTier(counts, tier, model.DefaultWineRatio, split)
						for _, color := range model.Colors {
							if got.Ulu.Get(color)+got.Kosher.Get(color) != counts.Get(color) {
								t.Fatalf("split %+v tier %s counts %+v: colour %s not conserved: %+v", split, tier, counts, color, got)
							}
						}
						if got.Total() != counts.Total {
							t.Fatalf("total not conserved: %+v vs %+v", got, counts)
						}
					}
				}
			}
		}
	}
}

func TestBaselineBottles(t *testing.T) {
	t.Parallel()

	baseline := model.DefaultPricingConfig().Wine.Baseline
	tests := []struct {
		adults float64
		want   int
	}{
		{0, 0},
		{8, 2},
		{20, 4},
		{40, 8},
		{41, 9},
	}
	for _, tt := range tests {
		if got := BaselineBottles(tt.adults, baseline); got != tt.want {
			t.Errorf("BaselineBottles(%v) = %d, want %d", tt.adults, got, tt.want)
		}
	}

	baseline.GuestsPerBottle = 10
	if got := BaselineBottles(20, baseline); got != 3 {
		t.Errorf("floor of three bottles not applied, got %d", got)
	}
	baseline.GuestsPerBottle = 0
	if got := BaselineBottles(40, baseline); got != 8 {
		t.Errorf("invalid guestsPerBottle should default to 5, got %d", got)
	}
}

func TestComputeWineExtraAndShortfall(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	sel := model.WineSelection{Tier: model.SupplierUlu, Bottles: model.ColorCounts{White: 5, Rose: 3, Red: 1}}
	got := ComputeWine(cfg, 40, sel, 0.18)

	if got.Required.Total != 8 || got.Actual.Total != 9 {
		t.Fatalf("required %+v actual %+v", got.Required, got.Actual)
	}
	if got.Extra != 2 || got.ExtraByColor.White != 2 {
		t.Fatalf("extra = %d (%+v), want 2 white", got.Extra, got.ExtraByColor)
	}
	if got.Shortfall != 1 || got.ShortfallByColor.Red != 1 {
		t.Fatalf("shortfall = %d (%+v), want 1 red", got.Shortfall, got.ShortfallByColor)
	}

	wantCost := 3*40.0 + 3*40.0 + 2*55.0 + 2*40.0
	if !floatEquals(got.Cost, wantCost) {
		t.Errorf("cost = %v, want %v", got.Cost, wantCost)
	}
	wantIncome := (3*145.0+3*145.0+2*189.0)/1.18 + 2*145.0/1.18
	if !floatEquals(got.Income, wantIncome) {
		t.Errorf("income = %v, want %v", got.Income, wantIncome)
	}
	if got.Combined.Ulu.Total != 10 {
		t.Errorf("combined allocation = %+v", got.Combined)
	}
}

func TestComputeWineAutoBottles(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	got := ComputeWine(cfg, 40, model.WineSelection{Tier: model.TierMix, AutoBottles: true}, 0.18)
	if got.Actual != got.Required || got.Shortfall != 0 || got.Extra != 0 {
		t.Fatalf("auto bottles: %+v", got)
	}
	if got.Combined.Ulu.Total != 6 || got.Combined.Kosher.Total != 2 {
		t.Fatalf("mix combined = %+v", got.Combined)
	}
	wantCost := 2*40.0 + 2*40.0 + 2*55.0 + 35.0 + 35.0
	if !floatEquals(got.Cost, wantCost) {
		t.Errorf("cost = %v, want %v", got.Cost, wantCost)
	}
}

func TestComputeWineCapsEnteredBottles(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	sel := model.WineSelection{Tier: model.TierMix, Bottles: model.ColorCounts{White: 1_000_000_000, Rose: 2, Red: 2}}
	got := ComputeWine(cfg, 40, sel, 0.18)

	if got.Actual.White != model.MaxBottlesPerColor || got.Actual.Total != model.MaxBottlesPerColor+4 {
		t.Fatalf("actual = %+v, want white capped at %d", got.Actual, model.MaxBottlesPerColor)
	}
	if got.Combined.Ulu.Total+got.Combined.Kosher.Total != got.Actual.Total+got.Shortfall {
		t.Fatalf("combined %+v does not cover actual %+v", got.Combined, got.Actual)
	}
}

func TestBaselineBottlesBounded(t *testing.T) {
	t.Parallel()

	baseline := model.DefaultPricingConfig().Wine.Baseline
	baseline.GuestsPerBottle = 0.0001
	want := model.MaxBottlesPerColor * len(model.Colors)
	if got := BaselineBottles(1_000_000, baseline); got != want {
		t.Fatalf("BaselineBottles = %d, want %d", got, want)
	}
}
