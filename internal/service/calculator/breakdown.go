package calculator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/morgween/ulu-pricing/internal/model"
)

// BreakdownRows rows for the summary and exports: base first, then menu, drinks, wine,
// staff, addons. The venue folds into the base row; empty category rows are dropped.
func BreakdownRows(res *model.QuoteResult) []model.BreakdownRow {
	rows := make([]model.BreakdownRow, 0, 6)
	rows = append(rows, newRow(KeyBase, baseLabel(res.Venue), res.Venue.Income+res.BasePriceAdditional, res.Venue.Cost))

	for _, c := range res.Components {
		if c.Key == KeyVenue {
			continue
		}
		if c.Income == 0 && c.Cost == 0 {
			continue
		}
		rows = append(rows, newRow(c.Key, componentLabel(c, res), c.Income, c.Cost))
	}
	return rows
}

func newRow(key, label string, income, expense float64) model.BreakdownRow {
	profit := income - expense
	return model.BreakdownRow{
		Key:       key,
		Label:     label,
		Income:    income,
		Expense:   expense,
		Profit:    profit,
		MarginPct: safeDiv(profit, income),
	}
}

func baseLabel(v model.VenueResult) string {
	if !v.Selected {
		return "Event base price"
	}
	if math.Abs(v.Multiplier-1) > 0.001 {
		return fmt.Sprintf("Event base price (%s ×%s)", v.Label, strconv.FormatFloat(v.Multiplier, 'f', -1, 64))
	}
	return fmt.Sprintf("Event base price (%s)", v.Label)
}

func componentLabel(c model.PricingComponent, res *model.QuoteResult) string {
	switch c.Key {
	case KeyStaff:
		manager := ""
		if res.Staffing.ManagerBonus > 0 {
			manager = " + manager"
		}
		noun := "workers"
		if res.Staffing.Workers == 1 {
			noun = "worker"
		}
		return fmt.Sprintf("Staff (%d %s%s)", res.Staffing.Workers, noun, manager)
	case KeyWine:
		if res.Wine.TierLabel != "" {
			return "Wine (" + res.Wine.TierLabel + ")"
		}
	}
	return c.Label
}
