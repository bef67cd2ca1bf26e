package calculator

import (
	"math"
	"sort"

	"github.com/morgween/ulu-pricing/internal/model"
)

// tie-break priority when fractional remainders are equal
var colorPriority = map[string]int{
	model.ColorRose:  3,
	model.ColorWhite: 2,
	model.ColorRed:   1,
}

// normalizeRatio weights summing to 1, default ratio when unusable
func normalizeRatio(r model.ColorValues) model.ColorValues {
	if !model.ValidRatio(r) {
		r = model.DefaultWineRatio
	}
	sum := r.Sum()
	return model.ColorValues{White: r.White / sum, Rose: r.Rose / sum, Red: r.Red / sum}
}

// DistributeByRatio spreads total bottles over the colours by ratio.
//
// Floors first, then (for events of at least minGuestsForAll adults with three active colours)
// one bottle per colour, then the remainder by largest fractional part, ties rose > white > red.
// White + rose + red always equals total; colours with zero weight get nothing.
func DistributeByRatio(total int, ratio model.ColorValues, adultGuests, minGuestsForAll float64) model.BottleAllocation {
	result := model.BottleAllocation{}
	if total <= 0 {
		return result
	}
	weights := normalizeRatio(ratio)

	active := make([]string, 0, len(model.Colors))
	for _, color := range model.Colors {
		if weights.Get(color) > 0 {
			active = append(active, color)
		}
	}

	floors := map[string]int{}
	fractions := map[string]float64{}
	allocated := 0
	for _, color := range active {
		exact := weights.Get(color) * float64(total)
		floor := int(math.Floor(exact))
		floors[color] = floor
		fractions[color] = exact - float64(floor)
		allocated += floor
	}

	if adultGuests >= minGuestsForAll && len(active) == len(model.Colors) && total >= len(active) {
		for _, color := range active {
			if floors[color] == 0 {
				floors[color] = 1
				allocated++
			}
		}
		for allocated > total {
			largest := largestColor(floors, active)
			floors[largest]--
			allocated--
		}
	}

	order := make([]string, len(active))
	copy(order, active)
	sort.SliceStable(order, func(i, j int) bool {
		diff := fractions[order[i]] - fractions[order[j]]
		if math.Abs(diff) > epsilon {
			return diff > 0
		}
		return colorPriority[order[i]] > colorPriority[order[j]]
	})

	for i := 0; allocated < total && len(order) > 0; i++ {
		floors[order[i%len(order)]]++
		allocated++
	}

	for _, color := range active {
		result.Add(color, floors[color])
	}
	return result
}

// largestColor colour holding the most bottles; lowest priority wins ties
func largestColor(counts map[string]int, colors []string) string {
	best := ""
	for _, color := range colors {
		if best == "" || counts[color] > counts[best] ||
			(counts[color] == counts[best] && colorPriority[color] < colorPriority[best]) {
			best = color
		}
	}
	return best
}

// SplitByTier assigns colour counts to suppliers.
//
// "kosher" sends everything to kosher, "mix" balances both suppliers against mixSplit and
// the colour ratio one bottle at a time, anything else goes to the house supplier.
func SplitByTier(counts model.BottleAllocation, tier string, ratio model.ColorValues, mixSplit model.MixSplit) model.SupplierAllocation {
	clean := model.BottleAllocation{}
	for _, color := range model.Colors {
		n := counts.Get(color)
		if n < 0 {
			n = 0
		}
		clean.Add(color, n)
	}

	alloc := model.SupplierAllocation{}
	switch tier {
	case model.SupplierKosher:
		alloc.Kosher = clean
		return alloc
	case model.TierMix:
	default:
		alloc.Ulu = clean
		return alloc
	}

	total := clean.Total
	if total == 0 {
		return alloc
	}

	// house share of the total; kosher takes whatever is left
	uluShare := mixSplit.Ulu
	if !finite(uluShare) {
		uluShare = model.DefaultMixSplitUlu
	}
	uluTarget := int(Clamp(math.Round(float64(total)*uluShare), 0, float64(total)))
	targets := map[string]int{
		model.SupplierUlu:    uluTarget,
		model.SupplierKosher: total - uluTarget,
	}
	desired := normalizeRatio(ratio)
	suppliers := []string{model.SupplierUlu, model.SupplierKosher}

	type option struct {
		supplier  string
		score     float64
		remaining int
	}

	for _, color := range model.Colors {
		for n := clean.Get(color); n > 0; n-- {
			options := make([]option, 0, len(suppliers))
			for _, s := range suppliers {
				bucket := alloc.For(s)
				if targets[s] <= 0 || bucket.Total >= targets[s] {
					continue
				}
				share := 0.0
				if bucket.Total > 0 {
					share = float64(bucket.Get(color)) / float64(bucket.Total)
				}
				options = append(options, option{
					supplier:  s,
					score:     desired.Get(color) - share,
					remaining: targets[s] - bucket.Total,
				})
			}

			chosen := model.SupplierUlu
			if len(options) > 0 {
				sort.SliceStable(options, func(i, j int) bool {
					diff := options[i].score - options[j].score
					if math.Abs(diff) > epsilon {
						return diff > 0
					}
					return options[i].remaining > options[j].remaining
				})
				chosen = options[0].supplier
			} else if targets[model.SupplierKosher] > alloc.Kosher.Total {
				chosen = model.SupplierKosher
			}
			alloc.For(chosen).Add(color, 1)
		}
	}
	return alloc
}

// BaselineBottles bottles the event needs: ceil(adults / guestsPerBottle), at least three
// once the adult count reaches the all-types threshold
func BaselineBottles(adults float64, baseline model.WineBaseline) int {
	adults = NonNegative(adults)
	perBottle := baseline.GuestsPerBottle
	if !finite(perBottle) || perBottle <= 0 {
		perBottle = model.DefaultGuestsPerBottle
	}
	total := int(math.Min(math.Ceil(adults/perBottle), model.MaxBottlesPerColor*float64(len(model.Colors))))
	minForAll := minGuestsForAll(baseline)
	if adults >= minForAll && total < len(model.Colors) {
		total = len(model.Colors)
	}
	return total
}

func minGuestsForAll(baseline model.WineBaseline) float64 {
	if !finite(baseline.MinimumGuestsForAllTypes) || baseline.MinimumGuestsForAllTypes <= 0 {
		return model.DefaultMinimumGuestsForAllTypes
	}
	return baseline.MinimumGuestsForAllTypes
}

// SuggestBottles baseline allocation used to prefill the bottle inputs
func SuggestBottles(cfg *model.PricingConfig, adults float64) model.BottleAllocation {
	baseline := cfg.Wine.Baseline
	return DistributeByRatio(BaselineBottles(adults, baseline), baseline.Ratio, adults, minGuestsForAll(baseline))
}

// PriceWine prices a colour allocation for the chosen tier
func PriceWine(cfg *model.PricingConfig, counts model.BottleAllocation, tier string, vatRate float64) model.WineFinancials {
	baseline := cfg.Wine.Baseline
	alloc := SplitByTier(counts, tier, baseline.Ratio, baseline.MixSplit)
	out := model.WineFinancials{
		Counts:     alloc.Ulu.Plus(alloc.Kosher),
		Allocation: alloc,
		BySupplier: map[string]model.SupplierTotals{},
	}
	for _, supplier := range []string{model.SupplierUlu, model.SupplierKosher} {
		bucket := alloc.For(supplier)
		prices := cfg.Wine.Tiers[supplier]
		totals := model.SupplierTotals{}
		for _, color := range model.Colors {
			n := float64(bucket.Get(color))
			totals.Cost += n * NonNegative(prices.CostExVAT.Get(color))
			totals.Income += n * ToExVAT(NonNegative(prices.PriceIncVAT.Get(color)), vatRate)
		}
		out.BySupplier[supplier] = totals
		out.Cost += totals.Cost
		out.Income += totals.Income
	}
	return out
}

// ComputeWine baseline need vs entered bottles, compared per colour; baseline and surplus are priced separately and summed
func ComputeWine(cfg *model.PricingConfig, adults float64, sel model.WineSelection, vatRate float64) model.WineResult {
	tier := normalizeTier(sel.Tier)

	required := SuggestBottles(cfg, adults)
	var actual model.BottleAllocation
	if sel.AutoBottles {
		actual = required
	} else {
		actual.Add(model.ColorWhite, bottleCount(sel.Bottles.White))
		actual.Add(model.ColorRose, bottleCount(sel.Bottles.Rose))
		actual.Add(model.ColorRed, bottleCount(sel.Bottles.Red))
	}

	res := model.WineResult{
		Tier:      tier,
		TierLabel: tierLabel(cfg, tier),
		Required:  required,
		Actual:    actual,
	}
	for _, color := range model.Colors {
		diff := actual.Get(color) - required.Get(color)
		if diff > 0 {
			res.ExtraByColor.Add(color, diff)
		} else if diff < 0 {
			res.ShortfallByColor.Add(color, -diff)
		}
	}
	res.Shortfall = res.ShortfallByColor.Total
	res.Extra = res.ExtraByColor.Total

	res.Baseline = PriceWine(cfg, required, tier, vatRate)
	res.ExtraPriced = PriceWine(cfg, res.ExtraByColor, tier, vatRate)
	res.Combined = res.Baseline.Allocation.Plus(res.ExtraPriced.Allocation)
	res.Cost = res.Baseline.Cost + res.ExtraPriced.Cost
	res.Income = res.Baseline.Income + res.ExtraPriced.Income
	return res
}

func normalizeTier(tier string) string {
	switch tier {
	case model.SupplierKosher, model.TierMix:
		return tier
	}
	return model.SupplierUlu
}

func tierLabel(cfg *model.PricingConfig, tier string) string {
	if tier == model.TierMix {
		return cfg.Wine.Tiers[model.SupplierUlu].Label + " + " + cfg.Wine.Tiers[model.SupplierKosher].Label
	}
	if t, ok := cfg.Wine.Tiers[tier]; ok && t.Label != "" {
		return t.Label
	}
	return tier
}

func nonNegativeInt(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// bottleCount entered count clamped to [0, MaxBottlesPerColor]
func bottleCount(n int) int {
	if n > model.MaxBottlesPerColor {
		return model.MaxBottlesPerColor
	}
	return nonNegativeInt(n)
}
