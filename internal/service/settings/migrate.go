package settings

import (
	"sort"
)

// Migrate rewrites legacy key names of a raw pricing document in place and returns it.
//
// Handles both the flat first-generation layout (childFactor, workerRate, winePrice, ...)
// and the older names still found in current documents (drinks.*.cost_exVAT,
// counts_by_duration, food.extras as a map, pricing.venues / pricing.place.venues).
func Migrate(doc map[string]any) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	if isFlatLegacy(doc) {
		upgradeFlat(doc)
	}
	migrateDrinks(doc)
	migrateFood(doc)
	migrateVenues(doc)
	return doc
}

func isFlatLegacy(doc map[string]any) bool {
	if _, ok := doc["staffing"]; ok {
		return false
	}
	for _, key := range []string{"childFactor", "workerRate", "managerBonus", "staffSteps", "winePrice", "wineCost", "menu"} {
		if _, ok := doc[key]; ok {
			return true
		}
	}
	return false
}

// upgradeFlat first-generation layout → current layout
func upgradeFlat(doc map[string]any) {
	vat := 0.18
	if v, ok := number(doc["vat"]); ok && v >= 0 {
		vat = v
	}

	if v, ok := number(doc["childFactor"]); ok {
		ensure(doc, "children")["factor"] = v
		delete(doc, "childFactor")
	}

	if _, ok := doc["workerRate"]; ok || doc["managerBonus"] != nil || doc["staffSteps"] != nil {
		staffing := ensure(doc, "staffing")
		if v, ok := number(doc["workerRate"]); ok {
			staffing["workerRate_exVAT"] = v
		}
		if v, ok := number(doc["managerBonus"]); ok {
			staffing["managerBonus_exVAT"] = v
		}
		if steps, ok := doc["staffSteps"].([]any); ok {
			matrix := make([]any, 0, len(steps))
			for _, s := range steps {
				step, ok := s.(map[string]any)
				if !ok {
					continue
				}
				row := map[string]any{}
				copyKeys(row, step, "minGuests", "maxGuests", "our_food", "catering")
				if w, ok := number(step["workers"]); ok {
					setDefault(row, "our_food", w)
					setDefault(row, "catering", w)
				}
				matrix = append(matrix, row)
			}
			staffing["workerMatrix"] = matrix
		}
		delete(doc, "workerRate")
		delete(doc, "managerBonus")
		delete(doc, "staffSteps")
	}

	if legacy, ok := asMap(doc["drinks"]); ok {
		for _, kind := range []string{"hot", "cold"} {
			cost, hasCost := number(legacy[kind+"_cost_exVAT"])
			price, hasPrice := number(legacy[kind+"_price_exVAT"])
			if !hasCost && !hasPrice {
				continue
			}
			unit := ensure(legacy, kind)
			if hasCost {
				unit["costPerUnit"] = cost
			}
			if hasPrice {
				unit["pricePerUnit"] = price
			}
			delete(legacy, kind+"_cost_exVAT")
			delete(legacy, kind+"_price_exVAT")
		}
	}

	if menu, ok := asMap(doc["menu"]); ok {
		winery := ensure(ensure(doc, "food"), "winery")
		if v, ok := number(menu["winery_cost_exVAT"]); ok {
			winery["cost_exVAT"] = v
		}
		if v, ok := number(menu["winery_price_exVAT"]); ok {
			winery["price_incVAT"] = v * (1 + vat)
		}
		delete(doc, "menu")
	}

	if v, ok := number(doc["bottlePerAdults"]); ok {
		ensure(ensure(doc, "wine"), "baseline")["guestsPerBottle"] = v
		delete(doc, "bottlePerAdults")
	}
	if mix, ok := asMap(doc["defaultWineMix"]); ok {
		ensure(ensure(doc, "wine"), "baseline")["ratio"] = mix
		delete(doc, "defaultWineMix")
	}

	prices, _ := asMap(doc["winePrice"])
	costs, _ := asMap(doc["wineCost"])
	if len(prices) > 0 || len(costs) > 0 {
		tiers := ensure(ensure(doc, "wine"), "tiers")
		for _, oldKey := range unionKeys(prices, costs) {
			key := oldKey
			if key == "winery" {
				key = "ulu"
			}
			tier := ensure(tiers, key)
			tier["key"] = key
			if src, ok := asMap(prices[oldKey]); ok {
				if label, ok := src["label"].(string); ok && label != "" {
					tier["label"] = label
				}
				inc := ensure(tier, "price_incVAT")
				for _, color := range []string{"white", "rose", "red"} {
					if v, ok := number(src[color]); ok {
						inc[color] = v * (1 + vat)
					}
				}
			}
			if src, ok := asMap(costs[oldKey]); ok {
				cost := ensure(tier, "cost_exVAT")
				for _, color := range []string{"white", "rose", "red"} {
					if v, ok := number(src[color]); ok {
						cost[color] = v
					}
				}
			}
		}
		delete(doc, "winePrice")
		delete(doc, "wineCost")
	}

	// flat venue map {key: {label, base_exVAT, cost_exVAT}}
	if venues, ok := asMap(doc["venues"]); ok {
		place := ensure(ensure(ensure(doc, "pricing"), "place"), "venues")
		for k, v := range venues {
			place[k] = v
		}
		delete(doc, "venues")
	}
}

func migrateDrinks(doc map[string]any) {
	drinks, ok := asMap(doc["drinks"])
	if !ok {
		return
	}
	for _, kind := range []string{"hot", "cold"} {
		unit, ok := asMap(drinks[kind])
		if !ok {
			continue
		}
		if v, ok := number(unit["cost_exVAT"]); ok {
			if _, exists := unit["costPerUnit"]; !exists {
				unit["costPerUnit"] = v
			}
			delete(unit, "cost_exVAT")
		}
		if v, ok := number(unit["price_exVAT"]); ok {
			if _, exists := unit["pricePerUnit"]; !exists {
				unit["pricePerUnit"] = v
			}
			delete(unit, "price_exVAT")
		}
		mult, hasMult := number(unit["priceMultiplier"])
		cost, hasCost := number(unit["costPerUnit"])
		if _, exists := unit["pricePerUnit"]; hasMult && hasCost && !exists {
			unit["pricePerUnit"] = cost * mult
			delete(unit, "priceMultiplier")
		}
	}
	if counts, ok := drinks["counts_by_duration"]; ok {
		if _, exists := drinks["ratesByDuration"]; !exists {
			drinks["ratesByDuration"] = counts
		}
		delete(drinks, "counts_by_duration")
	}
}

func migrateFood(doc map[string]any) {
	food, ok := asMap(doc["food"])
	if !ok {
		return
	}
	if v, ok := number(food["child_food_factor"]); ok {
		ensure(doc, "children")["factor"] = v
		delete(food, "child_food_factor")
	}
	if extras, ok := asMap(food["extras"]); ok {
		list := make([]any, 0, len(extras))
		for _, key := range sortedKeys(extras) {
			extra, ok := asMap(extras[key])
			if !ok {
				continue
			}
			setDefault(extra, "key", key)
			list = append(list, extra)
		}
		food["extras"] = list
	}
}

// migrateVenues merges pricing.venues.baseFees[] and pricing.place.venues{} into the
// top-level venue list. Entries already in the list win.
func migrateVenues(doc map[string]any) {
	var merged []any
	seen := map[string]bool{}
	add := func(key string, venue map[string]any) {
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		venue["key"] = key
		if v, ok := venue["base_exVAT"]; ok {
			setDefault(venue, "baseFee_exVAT", v)
			delete(venue, "base_exVAT")
		}
		merged = append(merged, venue)
	}

	if list, ok := doc["venues"].([]any); ok {
		for _, item := range list {
			if venue, ok := asMap(item); ok {
				key, _ := venue["key"].(string)
				add(key, venue)
			}
		}
	}

	pricing, ok := asMap(doc["pricing"])
	if ok {
		if venues, ok := asMap(pricing["venues"]); ok {
			if fees, ok := venues["baseFees"].([]any); ok {
				for _, item := range fees {
					if venue, ok := asMap(item); ok {
						key, _ := venue["key"].(string)
						add(key, venue)
					}
				}
			}
		}
		if place, ok := asMap(pricing["place"]); ok {
			if venues, ok := asMap(place["venues"]); ok {
				for _, key := range sortedKeys(venues) {
					if venue, ok := asMap(venues[key]); ok {
						add(key, venue)
					}
				}
			}
		}
		delete(doc, "pricing")
	}

	if merged != nil {
		doc["venues"] = merged
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// ensure returns parent[key] as a map, creating it when missing or of another type
func ensure(parent map[string]any, key string) map[string]any {
	if m, ok := asMap(parent[key]); ok {
		return m
	}
	m := map[string]any{}
	parent[key] = m
	return m
}

func setDefault(m map[string]any, key string, v any) {
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

func copyKeys(dst, src map[string]any, keys ...string) {
	for _, k := range keys {
		if v, ok := src[k]; ok {
			dst[k] = v
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unionKeys(a, b map[string]any) []string {
	set := map[string]any{}
	for k := range a {
		set[k] = nil
	}
	for k := range b {
		set[k] = nil
	}
	return sortedKeys(set)
}
