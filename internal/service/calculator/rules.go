package calculator

import (
	"fmt"

	"github.com/morgween/ulu-pricing/internal/model"
)

// ValidateRequest lists what was clamped, defaulted or looks off in a quote.
// Warnings never stop the computation; callers show them next to the result.
func ValidateRequest(cfg *model.PricingConfig, req model.QuoteRequest, res *model.QuoteResult) []string {
	warns := make([]string, 0, 4)
	sel := req.Selections

	if req.Guests.Adults < 0 || req.Guests.Children < 0 {
		warns = append(warns, "negative guest counts were treated as 0")
	}
	if res != nil && res.Guests.Raised {
		warns = append(warns, fmt.Sprintf("guest count raised to the event minimum of %d", res.Guests.Minimum))
	}
	if sel.Menu != "" && sel.Menu.Normalize() != sel.Menu {
		warns = append(warns, fmt.Sprintf("unknown menu %q, using winery menu", sel.Menu))
	}
	if sel.Menu.Normalize() == model.MenuOwnCatering && sel.OwnCateringRate <= 0 {
		warns = append(warns, "own catering selected without a per-guest rate")
	}
	for _, ref := range sel.Extras {
		extra, ok := cfg.Extra(ref)
		if !ok {
			warns = append(warns, fmt.Sprintf("unknown menu extra %q", ref))
			continue
		}
		if !extraApplies(extra, sel.Menu.Normalize()) {
			warns = append(warns, fmt.Sprintf("menu extra %q does not apply to this menu", extra.Label))
		}
	}
	if sel.Duration != "" {
		if _, ok := cfg.Drinks.RatesByDuration[sel.Duration]; !ok {
			warns = append(warns, fmt.Sprintf("unknown duration %q, using %s", sel.Duration, model.DefaultDuration))
		}
	}
	if rateNegative(sel.Drinks.HotRate) || rateNegative(sel.Drinks.ColdRate) {
		warns = append(warns, "negative drink rates were treated as 0")
	}
	if sel.Wine.Tier != "" && normalizeTier(sel.Wine.Tier) != sel.Wine.Tier {
		warns = append(warns, fmt.Sprintf("unknown wine tier %q, using %s", sel.Wine.Tier, model.SupplierUlu))
	}
	b := sel.Wine.Bottles
	if b.White < 0 || b.Rose < 0 || b.Red < 0 {
		warns = append(warns, "negative bottle counts were treated as 0")
	}
	if b.White > model.MaxBottlesPerColor || b.Rose > model.MaxBottlesPerColor || b.Red > model.MaxBottlesPerColor {
		warns = append(warns, fmt.Sprintf("bottle counts above %d per colour were capped", model.MaxBottlesPerColor))
	}
	if res != nil && res.Wine.Shortfall > 0 {
		warns = append(warns, fmt.Sprintf("%d bottles short of the recommended %d", res.Wine.Shortfall, res.Wine.Required.Total))
	}
	if sel.Venue != "" {
		if _, ok := cfg.Venue(sel.Venue); !ok {
			warns = append(warns, fmt.Sprintf("unknown venue %q", sel.Venue))
		}
	}
	for _, line := range sel.Addons {
		if line.Price < 0 {
			warns = append(warns, fmt.Sprintf("add-on %q has a negative price, treated as 0", line.Description))
		}
	}
	if sel.Discount.Amount < 0 || sel.Discount.Percent < 0 {
		warns = append(warns, "negative discounts were treated as 0")
	}
	if sel.Discount.Percent > 100 {
		warns = append(warns, "discount percent capped at 100")
	}
	if res != nil && res.Discount.Total > 0 && res.Discount.Total < res.Discount.Amount+res.Discount.PercentAmount {
		warns = append(warns, "discount capped at the subtotal")
	}
	if res != nil && res.BasePrice.Note != "" {
		warns = append(warns, res.BasePrice.Note)
	}
	return warns
}

func rateNegative(r *float64) bool {
	return r != nil && *r < 0
}
