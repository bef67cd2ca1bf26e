package calculator

import (
	"math"

	"github.com/morgween/ulu-pricing/internal/model"
)

// NoteNonPositiveDenom solver note when base costs are not positive
const NoteNonPositiveDenom = "Cannot compute basis price because total base expenses are not positive."

// solver drift tolerance
const targetTolerance = 1e-6

// TargetPct interpolates the target margin for a guest count.
//
// Flat outside the table, linear between knots. Unknown modes use our_food; a mode
// without rows uses the built-in table.
func TargetPct(cfg *model.PricingConfig, guests float64, mode model.MarginMode) float64 {
	switch mode {
	case model.MarginOurFood, model.MarginCatering, model.MarginCustomerCatering:
	default:
		mode = model.MarginOurFood
	}

	var points []model.RevenueTarget
	if cfg != nil {
		points = cfg.SortedTargets(mode)
	}
	if len(points) == 0 {
		points = model.DefaultRevenueTargets()[mode]
	}
	if len(points) == 0 {
		return 0
	}

	if !finite(guests) || guests <= points[0].Guests {
		return points[0].Pct
	}
	last := points[len(points)-1]
	if guests >= last.Guests {
		return last.Pct
	}
	for i := 0; i < len(points)-1; i++ {
		lo, hi := points[i], points[i+1]
		if guests >= lo.Guests && guests <= hi.Guests {
			span := hi.Guests - lo.Guests
			if span <= 0 {
				return hi.Pct
			}
			t := (guests - lo.Guests) / span
			return lo.Pct + (hi.Pct-lo.Pct)*t
		}
	}
	return last.Pct
}

// BasePriceInput aggregated base costs (W suffix) and incomes per group
type BasePriceInput struct {
	Guests       float64
	Mode         model.MarginMode
	FoodIncome   float64 // F_c
	FoodCost     float64 // F_w
	DrinksIncome float64 // D_c, baseline drinks + all wine
	DrinksCost   float64 // D_w
	WorkIncome   float64 // W_i, staffing + venue
	WorkCost     float64 // W_w
}

// ComputeBasePrice resolves the target margin and solves for the top-up fee
func ComputeBasePrice(cfg *model.PricingConfig, in BasePriceInput) model.BasePriceResult {
	return SolveBasePrice(TargetPct(cfg, in.Guests, in.Mode), in)
}

// SolveBasePrice minimum top-up that lifts (profit + bp) / baseCost to targetPct.
//
// Zero or negative base cost returns bp 0 with a note. A single correction step absorbs
// floating-point drift.
func SolveBasePrice(targetPct float64, in BasePriceInput) model.BasePriceResult {
	if !finite(targetPct) || targetPct < 0 {
		targetPct = 0
	}
	denom := in.FoodCost + in.DrinksCost + in.WorkCost
	profit := (in.FoodIncome - in.FoodCost) + (in.DrinksIncome - in.DrinksCost) + (in.WorkIncome - in.WorkCost)

	res := model.BasePriceResult{TargetPct: targetPct, Denom: denom}
	if denom <= 0 || !finite(denom) {
		res.Note = NoteNonPositiveDenom
		return res
	}

	res.RevenuePctNoBP = profit / denom
	res.RawBP = targetPct*denom - profit
	if res.RawBP < 0 {
		res.Surplus = math.Abs(res.RawBP)
	}
	bp := math.Max(0, res.RawBP)

	revenuePct := (profit + bp) / denom
	if bp > 0 && revenuePct+targetTolerance < targetPct {
		bp += (targetPct - revenuePct) * denom
		revenuePct = (profit + bp) / denom
	}

	res.BP = bp
	if bp == 0 {
		res.RevenuePct = res.RevenuePctNoBP
	} else {
		res.RevenuePct = math.Max(revenuePct, targetPct)
	}
	return res
}
