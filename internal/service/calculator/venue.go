package calculator

import (
	"github.com/morgween/ulu-pricing/internal/model"
)

// selectVenueBracket first bracket covering the head count, else the last one
func selectVenueBracket(brackets []model.VenueBracket, guests float64) *model.VenueBracket {
	if len(brackets) == 0 {
		return nil
	}
	for i := range brackets {
		if brackets[i].MaxGuests == nil || guests <= *brackets[i].MaxGuests {
			return &brackets[i]
		}
	}
	return &brackets[len(brackets)-1]
}

// ComputeVenue venue fee and cost scaled by headcount, location and time multipliers.
// No key or an unknown key yields a zero venue.
func ComputeVenue(cfg *model.PricingConfig, key string, totalGuests int, timeFlags []string) model.VenueResult {
	res := model.VenueResult{Key: key, Label: key, HeadcountMultiplier: 1, LocationMultiplier: 1, TimeMultiplier: 1, Multiplier: 1}
	venue, ok := cfg.Venue(key)
	if key == "" || !ok {
		return res
	}
	res.Selected = true
	if venue.Label != "" {
		res.Label = venue.Label
	}

	res.BaseFee = NonNegative(venue.BaseFee)
	res.BaseCost = NonNegative(venue.Cost)
	if b := selectVenueBracket(venue.Brackets, float64(totalGuests)); b != nil {
		if b.BaseFee != nil {
			res.BaseFee = NonNegative(*b.BaseFee)
		}
		if b.Cost != nil {
			res.BaseCost = NonNegative(*b.Cost)
		}
		if finite(b.Multiplier) && b.Multiplier > 0 {
			res.HeadcountMultiplier = b.Multiplier
		}
	}
	if finite(venue.LocationMultiplier) && venue.LocationMultiplier > 0 {
		res.LocationMultiplier = venue.LocationMultiplier
	}
	for _, flag := range model.TimeFlagOrder {
		if !hasFlag(timeFlags, flag) {
			continue
		}
		if m, ok := cfg.TimeMultiplier[flag]; ok && finite(m) && m > 0 {
			res.TimeMultiplier *= m
		}
	}

	res.Multiplier = res.HeadcountMultiplier * res.LocationMultiplier * res.TimeMultiplier
	res.Income = res.BaseFee * res.Multiplier
	res.Cost = res.BaseCost * res.Multiplier
	return res
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
