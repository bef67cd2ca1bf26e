package calculator

import (
	"math"

	"github.com/morgween/ulu-pricing/internal/model"
)

// DurationRates default per-guest drink rates for an event duration; unknown
// durations use the short rates
func DurationRates(cfg *model.PricingConfig, duration string) (string, model.DrinkRates) {
	if rates, ok := cfg.Drinks.RatesByDuration[duration]; ok {
		return duration, rates
	}
	if rates, ok := cfg.Drinks.RatesByDuration[model.DefaultDuration]; ok {
		return model.DefaultDuration, rates
	}
	return model.DefaultDuration, model.DrinkRates{}
}

// ComputeDrinks hot and cold drinks.
//
// Units = rate × adults + rate × childMultiplier × children. Units up to the duration
// default are baseline, the rest is extra; all units are priced and summed.
func ComputeDrinks(cfg *model.PricingConfig, guests model.GuestSummary, duration string, sel model.DrinkSelection) model.DrinksResult {
	key, defaults := DurationRates(cfg, duration)
	adults := float64(guests.Adults)
	children := float64(guests.Children)

	line := func(include *bool, rate *float64, defaultRate, childMultiplier float64, unit model.DrinkUnit) model.DrinkLine {
		l := model.DrinkLine{
			Enabled:     include == nil || *include,
			DefaultRate: NonNegative(defaultRate),
			UnitCost:    NonNegative(unit.CostPerUnit),
			UnitPrice:   NonNegative(unit.UnitPrice()),
		}
		l.Rate = l.DefaultRate
		if rate != nil {
			l.Rate = NonNegative(*rate)
		}
		if !l.Enabled {
			return l
		}
		l.Units = l.Rate*adults + l.Rate*childMultiplier*children
		desired := l.DefaultRate*adults + l.DefaultRate*childMultiplier*children
		l.BaselineUnits = math.Min(l.Units, desired)
		l.ExtraUnits = math.Max(0, l.Units-l.BaselineUnits)
		l.Cost = l.Units * l.UnitCost
		l.Income = l.Units * l.UnitPrice
		l.BaselineCost = l.BaselineUnits * l.UnitCost
		l.BaselineIncome = l.BaselineUnits * l.UnitPrice
		return l
	}

	res := model.DrinksResult{Duration: key}
	res.Hot = line(sel.IncludeHot, sel.HotRate, defaults.Hot, NonNegative(cfg.Drinks.ChildHotMultiplier), cfg.Drinks.Hot)
	res.Cold = line(sel.IncludeCold, sel.ColdRate, defaults.Cold, NonNegative(cfg.Drinks.ChildColdMultiplier), cfg.Drinks.Cold)
	res.Cost = res.Hot.Cost + res.Cold.Cost
	res.Income = res.Hot.Income + res.Cold.Income
	res.BaselineCost = res.Hot.BaselineCost + res.Cold.BaselineCost
	res.BaselineIncome = res.Hot.BaselineIncome + res.Cold.BaselineIncome
	return res
}
