package calculator

import (
	"strings"

	"github.com/morgween/ulu-pricing/internal/model"
)

// NormalizeAddonType maps legacy pricing-type names onto the four supported types.
// The old "commission_per_person" meant a per-guest commission on a customer-brought vendor.
func NormalizeAddonType(source, typ string) string {
	switch strings.TrimSpace(typ) {
	case "commission_winery_fixed", model.AddonCommissionFixed:
		return model.AddonCommissionFixed
	case "commission_winery_per_person":
		return model.AddonCommissionPerPerson
	case model.AddonCommissionPerPerson:
		if source == model.AddonSourceCustomer {
			return model.AddonPerPerson
		}
		return model.AddonCommissionPerPerson
	case model.AddonPerPerson:
		return model.AddonPerPerson
	}
	return model.AddonFixed
}

// ComputeAddon prices one add-on line
func ComputeAddon(cfg *model.PricingConfig, totalGuests int, line model.AddonLine) model.AddonResult {
	source := model.AddonSourceWinery
	if line.Source == model.AddonSourceCustomer {
		source = model.AddonSourceCustomer
	}
	res := model.AddonResult{
		Description: strings.TrimSpace(line.Description),
		Source:      source,
		Type:        NormalizeAddonType(source, line.Type),
		Input:       NonNegative(line.Price),
		Quantity:    1,
	}
	guests := float64(totalGuests)
	rate := cfg.Addons.WineryCommissionRate

	switch res.Type {
	case model.AddonCommissionFixed:
		res.VendorTotal = res.Input
		res.Commission = res.VendorTotal * rate
		res.Cost = res.VendorTotal
		res.Income = res.VendorTotal + res.Commission
	case model.AddonCommissionPerPerson:
		res.Quantity = guests
		res.VendorTotal = res.Input * guests
		res.Commission = res.VendorTotal * rate
		res.Cost = res.VendorTotal
		res.Income = res.VendorTotal + res.Commission
	case model.AddonPerPerson:
		commission := Clamp(res.Input, cfg.Addons.CustomerCommissionMin, cfg.Addons.CustomerCommissionMax)
		res.Quantity = guests
		res.Commission = commission * guests
		res.Income = res.Commission
	default:
		res.Income = res.Input
	}
	return res
}

// ComputeAddons all add-on lines; Income is the full price charged to the client
func ComputeAddons(cfg *model.PricingConfig, totalGuests int, lines []model.AddonLine) model.AddonsResult {
	res := model.AddonsResult{Lines: make([]model.AddonResult, 0, len(lines))}
	for _, line := range lines {
		item := ComputeAddon(cfg, totalGuests, line)
		res.Lines = append(res.Lines, item)
		res.Cost += item.Cost
		res.Income += item.Income
	}
	return res
}
