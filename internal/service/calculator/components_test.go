package calculator

import (
	"testing"

	"github.com/morgween/ulu-pricing/internal/model"
)

func testGuests(cfg *model.PricingConfig) model.GuestSummary {
	return ResolveGuests(cfg, model.GuestCounts{Adults: 40, Children: 10})
}

func TestComputeFoodWinery(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	sel := model.Selections{Menu: model.MenuWinery, Extras: []string{"snack"}}
	got := ComputeFood(cfg, testGuests(cfg), sel, 0.18)

	if !floatEquals(got.BaseCost, 46*47.5) || !floatEquals(got.BaseIncome, 181/1.18*47.5) {
		t.Fatalf("base = %v / %v", got.BaseCost, got.BaseIncome)
	}
	if len(got.Extras) != 1 || got.Extras[0].InsideBase {
		t.Fatalf("extras = %+v", got.Extras)
	}
	if !floatEquals(got.Cost, 46*47.5+21*47.5) {
		t.Fatalf("cost = %v", got.Cost)
	}
	if !floatEquals(got.Income-got.BaseIncome, 88/1.18*47.5) {
		t.Fatalf("extra income = %v", got.Income-got.BaseIncome)
	}
}

func TestComputeFoodCatering(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	guests := testGuests(cfg)

	own := ComputeFood(cfg, guests, model.Selections{Menu: model.MenuOwnCatering, OwnCateringRate: 100, Extras: []string{"quiches"}}, 0.18)
	if !floatEquals(own.Cost, 5000) || !floatEquals(own.Income, 5750) {
		t.Fatalf("own catering = %v / %v", own.Cost, own.Income)
	}
	if len(own.Extras) != 0 {
		t.Fatalf("winery extra applied to own catering: %+v", own.Extras)
	}

	client := ComputeFood(cfg, guests, model.Selections{Menu: model.MenuClientCatering}, 0.18)
	if client.Cost != 0 || !floatEquals(client.Income, 2000) || !floatEquals(client.BaseIncome, 2000) {
		t.Fatalf("client catering = %+v", client)
	}
}

func TestComputeFoodPerEventExtra(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	cfg.Food.Extras = append(cfg.Food.Extras, model.MenuExtra{
		Key: "cake", ID: "menu_extra_cake", Label: "Cake", PriceIncVAT: 118, CostExVAT: 50,
		AppliesTo: model.AppliesAny, PerGuestMode: model.PerGuestEvent,
	})
	sel := model.Selections{Menu: model.MenuClientCatering, Extras: []string{"menu_extra_cake"}}
	got := ComputeFood(cfg, testGuests(cfg), sel, 0.18)

	if len(got.Extras) != 1 || got.Extras[0].Quantity != 1 || !got.Extras[0].InsideBase {
		t.Fatalf("extras = %+v", got.Extras)
	}
	if !floatEquals(got.BaseIncome, 2000+100) || !floatEquals(got.BaseCost, 50) {
		t.Fatalf("base = %v / %v", got.BaseCost, got.BaseIncome)
	}
}

func TestComputeDrinks(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	hotRate := 2.0
	off := false
	got := ComputeDrinks(cfg, testGuests(cfg), "medium", model.DrinkSelection{HotRate: &hotRate})

	if !floatEquals(got.Hot.Units, 95) || !floatEquals(got.Hot.BaselineUnits, 71.25) || !floatEquals(got.Hot.ExtraUnits, 23.75) {
		t.Fatalf("hot = %+v", got.Hot)
	}
	if !floatEquals(got.Cold.Units, 75) || !floatEquals(got.Cold.ExtraUnits, 0) {
		t.Fatalf("cold = %+v", got.Cold)
	}
	if !floatEquals(got.Cost, 95*5.5+75*5) || !floatEquals(got.Income, 95*17.6+75*17) {
		t.Fatalf("totals = %v / %v", got.Cost, got.Income)
	}
	if !floatEquals(got.BaselineCost, 71.25*5.5+75*5) {
		t.Fatalf("baseline cost = %v", got.BaselineCost)
	}

	noCold := ComputeDrinks(cfg, testGuests(cfg), "unknown", model.DrinkSelection{IncludeCold: &off})
	if noCold.Duration != "short" || noCold.Cold.Units != 0 || noCold.Cold.Cost != 0 {
		t.Fatalf("cold disabled = %+v", noCold)
	}
	if !floatEquals(noCold.Hot.Units, 40+0.75*10) {
		t.Fatalf("hot short = %+v", noCold.Hot)
	}
}

func TestDrinkUnitPriceMultiplier(t *testing.T) {
	t.Parallel()

	unit := model.DrinkUnit{CostPerUnit: 4}
	if got := unit.UnitPrice(); !floatEquals(got, 12) {
		t.Fatalf("default multiplier: %v", got)
	}
	unit.PriceMultiplier = 2.5
	if got := unit.UnitPrice(); !floatEquals(got, 10) {
		t.Fatalf("custom multiplier: %v", got)
	}
}

func TestWorkerCount(t *testing.T) {
	t.Parallel()

	matrix := model.DefaultPricingConfig().Staffing.WorkerMatrix
	tests := []struct {
		guests float64
		mode   string
		want   int
	}{
		{45, "our_food", 2},
		{20, "our_food", 1},
		{65, "catering", 2},
		{85, "our_food", 4},
		{10, "our_food", 1},
		{150, "our_food", 4},
		{150, "catering", 3},
	}
	for _, tt := range tests {
		if got := WorkerCount(matrix, tt.guests, tt.mode); got != tt.want {
			t.Errorf("WorkerCount(%v, %s) = %d, want %d", tt.guests, tt.mode, got, tt.want)
		}
	}

	if got := WorkerCount(nil, 50, "our_food"); got != 1 {
		t.Errorf("empty matrix = %d, want 1", got)
	}
	zero := []model.WorkerBracket{{OurFood: 0, Catering: 0}}
	if got := WorkerCount(zero, 50, "our_food"); got != 1 {
		t.Errorf("zero workers = %d, want 1", got)
	}
}

func TestComputeStaffing(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	got := ComputeStaffing(cfg, 45, model.MenuWinery)
	if got.Workers != 2 || !floatEquals(got.Cost, 1600) || !floatEquals(got.Income, 1700) {
		t.Fatalf("staffing = %+v", got)
	}
}

func TestComputeVenue(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	small := 30.0
	fee := 1200.0
	cfg.Venues = append(cfg.Venues, model.VenueConfig{
		Key: "hall", Label: "Barrel hall", BaseFee: 1000, Cost: 200, LocationMultiplier: 1.5,
		Brackets: []model.VenueBracket{
			{MaxGuests: &small, Multiplier: 1},
			{BaseFee: &fee, Multiplier: 1.1},
		},
	})
	cfg.TimeMultiplier = map[string]float64{model.TimeNight: 1.2}

	got := ComputeVenue(cfg, "hall", 50, []string{model.TimeNight})
	if !got.Selected || !floatEquals(got.Multiplier, 1.98) {
		t.Fatalf("venue = %+v", got)
	}
	if !floatEquals(got.Income, 1200*1.98) || !floatEquals(got.Cost, 200*1.98) {
		t.Fatalf("venue totals = %v / %v", got.Income, got.Cost)
	}

	smallEvent := ComputeVenue(cfg, "hall", 25, nil)
	if !floatEquals(smallEvent.Income, 1500) {
		t.Fatalf("small bracket income = %v", smallEvent.Income)
	}

	none := ComputeVenue(cfg, "rooftop", 50, nil)
	if none.Selected || none.Income != 0 || none.Cost != 0 {
		t.Fatalf("unknown venue = %+v", none)
	}
}

func TestComputeAddons(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultPricingConfig()
	lines := []model.AddonLine{
		{Description: "DJ", Source: "winery", Type: "commission_fixed", Price: 1000},
		{Description: "Photographer", Source: "winery", Type: "commission_winery_per_person", Price: 50},
		{Description: "Band", Source: "customer", Type: "commission_per_person", Price: 100},
		{Description: "Florist", Source: "customer", Type: "per_person", Price: 5},
		{Description: "Sign", Type: "fixed", Price: 300},
		{Description: "Broken", Type: "fixed", Price: -20},
	}
	got := ComputeAddons(cfg, 50, lines)

	wantIncome := []float64{1150, 2875, 3000, 500, 300, 0}
	wantCost := []float64{1000, 2500, 0, 0, 0, 0}
	wantType := []string{
		model.AddonCommissionFixed, model.AddonCommissionPerPerson, model.AddonPerPerson,
		model.AddonPerPerson, model.AddonFixed, model.AddonFixed,
	}
	for i, line := range got.Lines {
		if !floatEquals(line.Income, wantIncome[i]) || !floatEquals(line.Cost, wantCost[i]) || line.Type != wantType[i] {
			t.Errorf("line %d (%s) = %+v", i, line.Description, line)
		}
	}
	if !floatEquals(got.Income, 1150+2875+3000+500+300) || !floatEquals(got.Cost, 3500) {
		t.Fatalf("totals = %v / %v", got.Income, got.Cost)
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{" 12.5 ", 12.5},
		{"12,5", 12.5},
		{"1,234.5", 1234.5},
		{"₪90", 90},
		{"abc", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in, -1); !floatEquals(got, tt.want) {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
