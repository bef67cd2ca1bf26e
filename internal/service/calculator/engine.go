package calculator

import (
	"math"

	"github.com/morgween/ulu-pricing/internal/model"
)

// component keys, in breakdown order
const (
	KeyBase   = "base"
	KeyMenu   = "menu"
	KeyDrinks = "drinks"
	KeyWine   = "wine"
	KeyStaff  = "staff"
	KeyVenue  = "venue"
	KeyAddons = "addons"
)

// Engine quote calculation engine bound to one pricing snapshot
type Engine struct {
	cfg *model.PricingConfig
}

// NewEngine creates an engine; missing config values take their defaults
func NewEngine(cfg *model.PricingConfig) *Engine {
	return &Engine{cfg: cfg.WithDefaults()}
}

// Config the snapshot the engine computes with
func (e *Engine) Config() *model.PricingConfig {
	return e.cfg
}

// Calculate computes the full quote. Pure: no I/O, no shared state.
func (e *Engine) Calculate(req model.QuoteRequest) *model.QuoteResult {
	cfg := e.cfg
	sel := req.Selections
	menu := sel.Menu.Normalize()

	vatRate := cfg.VAT
	if sel.VATRate != nil && finite(*sel.VATRate) && *sel.VATRate >= 0 {
		vatRate = *sel.VATRate
	}

	guests := ResolveGuests(cfg, req.Guests)
	res := &model.QuoteResult{
		Client:     req.Client,
		Guests:     guests,
		Menu:       menu,
		MarginMode: menu.MarginMode(),
		VATRate:    vatRate,
	}

	res.Food = ComputeFood(cfg, guests, sel, vatRate)
	res.Drinks = ComputeDrinks(cfg, guests, sel.Duration, sel.Drinks)
	res.Wine = ComputeWine(cfg, float64(guests.Adults), sel.Wine, vatRate)
	res.Staffing = ComputeStaffing(cfg, guests.Total, menu)
	res.Venue = ComputeVenue(cfg, sel.Venue, guests.Total, sel.TimeFlags)
	res.Addons = ComputeAddons(cfg, guests.Total, sel.Addons)

	// drinks enter the base at their duration default, wine in full
	res.BasePrice = ComputeBasePrice(cfg, BasePriceInput{
		Guests:       float64(guests.Total),
		Mode:         res.MarginMode,
		FoodIncome:   res.Food.BaseIncome,
		FoodCost:     res.Food.BaseCost,
		DrinksIncome: res.Drinks.BaselineIncome + res.Wine.Income,
		DrinksCost:   res.Drinks.BaselineCost + res.Wine.Cost,
		WorkIncome:   res.Staffing.Income + res.Venue.Income,
		WorkCost:     res.Staffing.Cost + res.Venue.Cost,
	})
	res.BasePriceAdditional = math.Max(0, res.BasePrice.BP)
	res.TargetMargin = res.BasePrice.TargetPct

	res.Components = []model.PricingComponent{
		{Key: KeyMenu, Label: "Catering", Cost: res.Food.Cost, Income: res.Food.Income, Details: res.Food},
		{Key: KeyDrinks, Label: "Drinks", Cost: res.Drinks.Cost, Income: res.Drinks.Income, Details: res.Drinks},
		{Key: KeyWine, Label: "Wine", Cost: res.Wine.Cost, Income: res.Wine.Income, Details: res.Wine},
		{Key: KeyStaff, Label: "Staff", Cost: res.Staffing.Cost, Income: res.Staffing.Income, Details: res.Staffing},
		{Key: KeyVenue, Label: res.Venue.Label, Cost: res.Venue.Cost, Income: res.Venue.Income, Details: res.Venue},
		{Key: KeyAddons, Label: "Add-ons", Cost: res.Addons.Cost, Income: res.Addons.Income, Details: res.Addons},
	}
	for _, c := range res.Components {
		res.SubtotalIncome += c.Income
		res.SubtotalCost += c.Cost
	}
	res.SubtotalIncome += res.BasePriceAdditional

	res.Discount = ApplyDiscount(res.SubtotalIncome, sel.Discount)
	res.FinalIncome = math.Max(0, res.SubtotalIncome-res.Discount.Total)
	res.Profit = res.FinalIncome - res.SubtotalCost
	res.Margin = safeDiv(res.Profit, res.FinalIncome)

	res.VATAmount, res.TotalWithVAT, res.PerPerson = VATTotals(res.FinalIncome, vatRate, guests.Total)

	res.Breakdown = BreakdownRows(res)
	res.Warnings = ValidateRequest(cfg, req, res)
	return res
}

// ResolveGuests clamps the counts and raises adults until the event minimum is met
func ResolveGuests(cfg *model.PricingConfig, in model.GuestCounts) model.GuestSummary {
	g := model.GuestSummary{
		EnteredAdults:   nonNegativeInt(in.Adults),
		EnteredChildren: nonNegativeInt(in.Children),
		Minimum:         nonNegativeInt(cfg.Events.MinimumGuests),
		ChildFactor:     NonNegative(cfg.Children.Factor),
	}
	g.Adults = g.EnteredAdults
	g.Children = g.EnteredChildren
	if missing := g.Minimum - (g.Adults + g.Children); missing > 0 {
		g.Adults += missing
		g.Raised = true
	}
	g.Total = g.Adults + g.Children
	g.Effective = float64(g.Adults) + g.ChildFactor*float64(g.Children)
	return g
}

// ApplyDiscount flat amount plus percent of subtotal; percent capped at 100, total at subtotal
func ApplyDiscount(subtotal float64, d model.Discount) model.DiscountResult {
	res := model.DiscountResult{
		Amount:  NonNegative(d.Amount),
		Percent: math.Min(NonNegative(d.Percent), 100),
		Reason:  d.Reason,
	}
	res.PercentAmount = subtotal * res.Percent / 100
	res.Total = math.Min(res.Amount+res.PercentAmount, math.Max(0, subtotal))
	return res
}

// VATTotals VAT amount, total with VAT and per-person price (0 without guests)
func VATTotals(finalIncome, vatRate float64, totalGuests int) (vat, total, perPerson float64) {
	vat = finalIncome * vatRate
	total = finalIncome + vat
	perPerson = safeDiv(total, float64(totalGuests))
	return vat, total, perPerson
}
