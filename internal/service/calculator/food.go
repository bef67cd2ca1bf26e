package calculator

import "github.com/morgween/ulu-pricing/internal/model"

// ComputeFood menu cost and income.
//
// BaseCost/BaseIncome hold only what enters the base-price solve; extras flagged
// excludeFromBase are counted in Cost/Income but not in the base.
func ComputeFood(cfg *model.PricingConfig, guests model.GuestSummary, sel model.Selections, vatRate float64) model.FoodResult {
	menu := sel.Menu.Normalize()
	res := model.FoodResult{Mode: menu, Extras: []model.AppliedExtra{}}
	total := float64(guests.Total)

	register := func(cost, income float64, inBase bool) {
		res.Cost += cost
		res.Income += income
		if inBase {
			res.BaseCost += cost
			res.BaseIncome += income
		}
	}

	switch menu {
	case model.MenuWinery:
		res.UnitCost = NonNegative(cfg.Food.Winery.CostExVAT)
		res.UnitIncome = ToExVAT(NonNegative(cfg.Food.Winery.PriceIncVAT), vatRate)
		register(res.UnitCost*guests.Effective, res.UnitIncome*guests.Effective, true)
	case model.MenuOwnCatering:
		res.MarkupPercent = NonNegative(cfg.Food.CateringWeBring.MarkupPercent)
		res.UnitCost = NonNegative(sel.OwnCateringRate)
		res.UnitIncome = res.UnitCost * (1 + res.MarkupPercent/100)
		register(res.UnitCost*total, res.UnitIncome*total, true)
	case model.MenuClientCatering:
		res.UnitIncome = NonNegative(cfg.Food.CateringClientBrings.FeePerGuest)
		register(0, res.UnitIncome*total, true)
	}

	for _, extra := range cfg.Food.Extras {
		if !selected(sel.Extras, extra) || !extraApplies(extra, menu) {
			continue
		}
		qty := extraQuantity(extra, guests)
		if qty <= 0 {
			continue
		}
		applied := model.AppliedExtra{
			Key:         extra.Key,
			Label:       extra.Label,
			Quantity:    qty,
			UnitCost:    NonNegative(extra.CostExVAT),
			UnitIncome:  ToExVAT(NonNegative(extra.PriceIncVAT), vatRate),
			InsideBase:  !extra.ExcludeFromBase,
			PerGuestKey: perGuestMode(extra),
		}
		applied.Cost = applied.UnitCost * qty
		applied.Income = applied.UnitIncome * qty
		register(applied.Cost, applied.Income, applied.InsideBase)
		res.Extras = append(res.Extras, applied)
	}
	return res
}

func selected(refs []string, extra model.MenuExtra) bool {
	for _, ref := range refs {
		if extra.Matches(ref) {
			return true
		}
	}
	return false
}

// extraApplies whether the extra is offered for the menu
func extraApplies(extra model.MenuExtra, menu model.MenuMode) bool {
	switch extra.AppliesTo {
	case model.AppliesWinery:
		return menu == model.MenuWinery
	case model.AppliesCatering:
		return menu != model.MenuWinery
	case model.AppliesClient:
		return menu == model.MenuClientCatering
	}
	return true
}

func perGuestMode(extra model.MenuExtra) string {
	switch extra.PerGuestMode {
	case model.PerGuestTotal, model.PerGuestEvent:
		return extra.PerGuestMode
	}
	return model.PerGuestAdultEquivalent
}

func extraQuantity(extra model.MenuExtra, guests model.GuestSummary) float64 {
	switch perGuestMode(extra) {
	case model.PerGuestTotal:
		return float64(guests.Total)
	case model.PerGuestEvent:
		return 1
	}
	return guests.Effective
}
