package model

import "math"

// documented fallbacks
const (
	DefaultVAT                      = 0.18
	DefaultChildFactor              = 0.75
	DefaultMinimumGuests            = 20
	DefaultGuestsPerBottle          = 5
	DefaultMinimumGuestsForAllTypes = 5
	DefaultDrinkPriceMultiplier     = 3
	DefaultChildHotMultiplier       = 0.75
	DefaultChildColdMultiplier      = 1
	DefaultRevenueComponent         = 100
	DefaultWineryCommissionRate     = 0.15
	DefaultCustomerCommissionMin    = 10
	DefaultCustomerCommissionMax    = 60
	DefaultMixSplitUlu              = 0.7
	DefaultMixSplitKosher           = 0.3
	DefaultDuration                 = "short"

	// MaxBottlesPerColor upper bound on entered bottles per colour
	MaxBottlesPerColor = 10000
)

// DefaultWineRatio white/rose/red
var DefaultWineRatio = ColorValues{White: 0.4, Rose: 0.4, Red: 0.2}

// DefaultRevenueTargets margin breakpoints per mode
func DefaultRevenueTargets() map[MarginMode][]RevenueTarget {
	knots := []float64{20, 30, 40, 50, 60, 70, 80, 100}
	pct := map[MarginMode][]float64{
		MarginOurFood:          {0.67, 0.59, 0.57, 0.59, 0.59, 0.6, 0.58, 0.55},
		MarginCatering:         {0.68, 0.68, 0.68, 0.68, 0.68, 0.68, 0.68, 0.68},
		MarginCustomerCatering: {0.48, 0.42, 0.39, 0.38, 0.38, 0.38, 0.3, 0.35},
	}
	out := make(map[MarginMode][]RevenueTarget, len(pct))
	for mode, values := range pct {
		rows := make([]RevenueTarget, len(knots))
		for i, g := range knots {
			rows[i] = RevenueTarget{Guests: g, Pct: values[i]}
		}
		out[mode] = rows
	}
	return out
}

func bound(v float64) *float64 { return &v }

// DefaultPricingConfig the winery's shipped pricing
func DefaultPricingConfig() *PricingConfig {
	return &PricingConfig{
		VAT:      DefaultVAT,
		Children: ChildrenConfig{Factor: DefaultChildFactor},
		Events:   EventsConfig{MinimumGuests: DefaultMinimumGuests},
		Staffing: StaffingConfig{
			WorkerRate:       550,
			ManagerBonus:     500,
			RevenueComponent: DefaultRevenueComponent,
			WorkerMatrix: []WorkerBracket{
				{MinGuests: bound(20), MaxGuests: bound(39), OurFood: 1, Catering: 1},
				{MinGuests: bound(40), MaxGuests: bound(59), OurFood: 2, Catering: 2},
				{MinGuests: bound(60), MaxGuests: bound(79), OurFood: 3, Catering: 2},
				{MinGuests: bound(80), MaxGuests: bound(100), OurFood: 4, Catering: 3},
			},
		},
		Food: FoodConfig{
			Winery: WineryMenu{PriceIncVAT: 181, CostExVAT: 46},
			Extras: []MenuExtra{
				{Key: "quiches", ID: "menu_extra_quiches", Label: "Quiches", PriceIncVAT: 33, CostExVAT: 8,
					AppliesTo: AppliesWinery, PerGuestMode: PerGuestAdultEquivalent, ExcludeFromBase: true},
				{Key: "pizza", ID: "menu_extra_pizza", Label: "Pizza", PriceIncVAT: 25, CostExVAT: 7,
					AppliesTo: AppliesWinery, PerGuestMode: PerGuestAdultEquivalent, ExcludeFromBase: true},
				{Key: "snack", ID: "menu_extra_snack", Label: "Morning snack for groups", PriceIncVAT: 88, CostExVAT: 21,
					AppliesTo: AppliesWinery, PerGuestMode: PerGuestAdultEquivalent, ExcludeFromBase: true},
			},
			CateringWeBring:      CateringWeBring{MarkupPercent: 15},
			CateringClientBrings: CateringClientBrings{FeePerGuest: 40},
		},
		Drinks: DrinksConfig{
			Hot:                 DrinkUnit{CostPerUnit: 5.5, PricePerUnit: 17.6},
			Cold:                DrinkUnit{CostPerUnit: 5, PricePerUnit: 17},
			ChildHotMultiplier:  DefaultChildHotMultiplier,
			ChildColdMultiplier: DefaultChildColdMultiplier,
			RatesByDuration: map[string]DrinkRates{
				"short":  {Hot: 1, Cold: 1},
				"medium": {Hot: 1.5, Cold: 1.5},
				"long":   {Hot: 2, Cold: 2},
			},
		},
		Wine: WineConfig{
			Baseline: WineBaseline{
				GuestsPerBottle:          DefaultGuestsPerBottle,
				Ratio:                    DefaultWineRatio,
				MinimumGuestsForAllTypes: 20,
				MixSplit:                 MixSplit{Ulu: DefaultMixSplitUlu, Kosher: DefaultMixSplitKosher},
			},
			Tiers: map[string]WineTier{
				SupplierUlu: {
					Key: SupplierUlu, Label: "ULU wines",
					CostExVAT:   ColorValues{White: 40, Rose: 40, Red: 55},
					PriceIncVAT: ColorValues{White: 145, Rose: 145, Red: 189},
				},
				SupplierKosher: {
					Key: SupplierKosher, Label: "Kosher wines",
					CostExVAT:   ColorValues{White: 35, Rose: 35, Red: 35},
					PriceIncVAT: ColorValues{White: 145, Rose: 145, Red: 145},
				},
			},
		},
		RevenueTargets: DefaultRevenueTargets(),
		Addons: AddonsConfig{
			WineryCommissionRate:  DefaultWineryCommissionRate,
			CustomerCommissionMin: DefaultCustomerCommissionMin,
			CustomerCommissionMax: DefaultCustomerCommissionMax,
		},
		Venues: []VenueConfig{
			{Key: "inside", Label: "Indoor hall", LocationMultiplier: 1},
			{Key: "outside", Label: "Outdoor terrace", LocationMultiplier: 1},
			{Key: "traklin", Label: "Lounge", LocationMultiplier: 1},
			{Key: "combined", Label: "Indoor + outdoor", LocationMultiplier: 1},
		},
		Branding: BrandingConfig{
			CompanyName:         "ULU Winery",
			InternalReportTitle: "ULU Winery - internal pricing report",
		},
	}
}

func invalid(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// WithDefaults returns a copy where every missing or malformed value is replaced by its documented default
func (c *PricingConfig) WithDefaults() *PricingConfig {
	def := DefaultPricingConfig()
	if c == nil {
		return def
	}
	out := *c

	if invalid(out.VAT) || out.VAT < 0 {
		out.VAT = def.VAT
	}
	if invalid(out.Children.Factor) || out.Children.Factor < 0 {
		out.Children.Factor = def.Children.Factor
	}
	if out.Events.MinimumGuests < 0 {
		out.Events.MinimumGuests = 0
	}

	st := &out.Staffing
	if invalid(st.WorkerRate) || st.WorkerRate < 0 {
		st.WorkerRate = 0
	}
	if invalid(st.ManagerBonus) || st.ManagerBonus < 0 {
		st.ManagerBonus = 0
	}
	if invalid(st.RevenueComponent) || st.RevenueComponent < 0 {
		st.RevenueComponent = def.Staffing.RevenueComponent
	}
	if len(st.WorkerMatrix) == 0 {
		st.WorkerMatrix = def.Staffing.WorkerMatrix
	}

	dr := &out.Drinks
	if invalid(dr.ChildHotMultiplier) || dr.ChildHotMultiplier < 0 {
		dr.ChildHotMultiplier = def.Drinks.ChildHotMultiplier
	}
	if invalid(dr.ChildColdMultiplier) || dr.ChildColdMultiplier < 0 {
		dr.ChildColdMultiplier = def.Drinks.ChildColdMultiplier
	}
	if len(dr.RatesByDuration) == 0 {
		dr.RatesByDuration = def.Drinks.RatesByDuration
	}

	wb := &out.Wine.Baseline
	if invalid(wb.GuestsPerBottle) || wb.GuestsPerBottle <= 0 {
		wb.GuestsPerBottle = DefaultGuestsPerBottle
	}
	if !ValidRatio(wb.Ratio) {
		wb.Ratio = DefaultWineRatio
	}
	if invalid(wb.MinimumGuestsForAllTypes) || wb.MinimumGuestsForAllTypes <= 0 {
		wb.MinimumGuestsForAllTypes = DefaultMinimumGuestsForAllTypes
	}
	if invalid(wb.MixSplit.Ulu) || invalid(wb.MixSplit.Kosher) ||
		wb.MixSplit.Ulu < 0 || wb.MixSplit.Kosher < 0 || wb.MixSplit.Ulu+wb.MixSplit.Kosher <= 0 {
		wb.MixSplit = def.Wine.Baseline.MixSplit
	}
	if len(out.Wine.Tiers) == 0 {
		out.Wine.Tiers = def.Wine.Tiers
	}

	targets := make(map[MarginMode][]RevenueTarget, len(MarginModes))
	for _, mode := range MarginModes {
		if rows := c.RevenueTargets[mode]; len(rows) > 0 {
			targets[mode] = rows
		} else {
			targets[mode] = def.RevenueTargets[mode]
		}
	}
	out.RevenueTargets = targets

	ad := &out.Addons
	if invalid(ad.WineryCommissionRate) || ad.WineryCommissionRate < 0 {
		ad.WineryCommissionRate = def.Addons.WineryCommissionRate
	}
	if invalid(ad.CustomerCommissionMin) || ad.CustomerCommissionMin <= 0 {
		ad.CustomerCommissionMin = def.Addons.CustomerCommissionMin
	}
	if invalid(ad.CustomerCommissionMax) || ad.CustomerCommissionMax <= 0 {
		ad.CustomerCommissionMax = def.Addons.CustomerCommissionMax
	}
	if ad.CustomerCommissionMax < ad.CustomerCommissionMin {
		ad.CustomerCommissionMax = ad.CustomerCommissionMin
	}

	venues := make([]VenueConfig, 0, len(out.Venues))
	for _, v := range out.Venues {
		if invalid(v.LocationMultiplier) || v.LocationMultiplier <= 0 {
			v.LocationMultiplier = 1
		}
		venues = append(venues, v)
	}
	out.Venues = venues

	return &out
}

// ValidRatio at least one positive finite weight and no negative ones
func ValidRatio(r ColorValues) bool {
	for _, v := range []float64{r.White, r.Rose, r.Red} {
		if invalid(v) || v < 0 {
			return false
		}
	}
	return r.Sum() > 0
}
