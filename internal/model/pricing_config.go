package model

import "sort"

// MarginMode key of the revenue-target table
type MarginMode string

const (
	MarginOurFood          MarginMode = "our_food"
	MarginCatering         MarginMode = "catering"
	MarginCustomerCatering MarginMode = "customer_catering"
)

// MarginModes all modes, in table order
var MarginModes = []MarginMode{MarginOurFood, MarginCatering, MarginCustomerCatering}

// ColorValues per-colour float values (ratios, unit costs, unit prices)
type ColorValues struct {
	White float64 `json:"white"`
	Rose  float64 `json:"rose"`
	Red   float64 `json:"red"`
}

// Sum of the three colours
func (c ColorValues) Sum() float64 {
	return c.White + c.Rose + c.Red
}

// Get value for a colour key
func (c ColorValues) Get(color string) float64 {
	switch color {
	case ColorWhite:
		return c.White
	case ColorRose:
		return c.Rose
	case ColorRed:
		return c.Red
	}
	return 0
}

// PricingConfig immutable pricing snapshot consumed by the engine.
//
// Produced by the settings loader (legacy-name normalization + defaults); the engine
// never mutates it.
type PricingConfig struct {
	VAT            float64                        `json:"vat"`
	Children       ChildrenConfig                 `json:"children"`
	Events         EventsConfig                   `json:"events"`
	Staffing       StaffingConfig                 `json:"staffing"`
	Food           FoodConfig                     `json:"food"`
	Drinks         DrinksConfig                   `json:"drinks"`
	Wine           WineConfig                     `json:"wine"`
	RevenueTargets map[MarginMode][]RevenueTarget `json:"revenueTargets"`
	Addons         AddonsConfig                   `json:"addons"`
	Venues         []VenueConfig                  `json:"venues"`
	TimeMultiplier map[string]float64             `json:"timeMultipliers,omitempty"`
	Branding       BrandingConfig                 `json:"branding"`
}

// ChildrenConfig child billing factor
type ChildrenConfig struct {
	Factor float64 `json:"factor"`
}

// EventsConfig event-level rules
type EventsConfig struct {
	MinimumGuests int `json:"minimumGuests"`
}

// StaffingConfig worker rates and the bracket matrix
type StaffingConfig struct {
	WorkerRate       float64         `json:"workerRate_exVAT"`
	ManagerBonus     float64         `json:"managerBonus_exVAT"`
	RevenueComponent float64         `json:"revenueComponent_exVAT"`
	WorkerMatrix     []WorkerBracket `json:"workerMatrix"`
}

// WorkerBracket guest range → workers per worker mode. Nil bounds are open.
type WorkerBracket struct {
	MinGuests *float64 `json:"minGuests,omitempty"`
	MaxGuests *float64 `json:"maxGuests,omitempty"`
	OurFood   float64  `json:"our_food"`
	Catering  float64  `json:"catering"`
}

// FoodConfig menu pricing
type FoodConfig struct {
	Winery               WineryMenu           `json:"winery"`
	Extras               []MenuExtra          `json:"extras"`
	CateringWeBring      CateringWeBring      `json:"catering_we_bring"`
	CateringClientBrings CateringClientBrings `json:"catering_client_brings"`
}

// WineryMenu base winery menu per guest
type WineryMenu struct {
	PriceIncVAT float64 `json:"price_incVAT"`
	CostExVAT   float64 `json:"cost_exVAT"`
}

// Extra quantity modes
const (
	PerGuestAdultEquivalent = "adult_equivalent"
	PerGuestTotal           = "total"
	PerGuestEvent           = "per_event"
)

// Extra applicability
const (
	AppliesAny      = "any"
	AppliesWinery   = "winery"
	AppliesCatering = "catering"
	AppliesClient   = "client"
)

// MenuExtra optional food extra
type MenuExtra struct {
	Key             string  `json:"key"`
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	PriceIncVAT     float64 `json:"price_incVAT"`
	CostExVAT       float64 `json:"cost_exVAT"`
	AppliesTo       string  `json:"appliesTo"`
	PerGuestMode    string  `json:"perGuestMode"`
	ExcludeFromBase bool    `json:"excludeFromBase"`
}

// Matches reports whether ref names this extra by key or id
func (e MenuExtra) Matches(ref string) bool {
	return ref != "" && (ref == e.Key || ref == e.ID)
}

// CateringWeBring own-catering markup
type CateringWeBring struct {
	MarkupPercent float64 `json:"markup_percent"`
}

// CateringClientBrings client-catering service fee
type CateringClientBrings struct {
	FeePerGuest float64 `json:"fee_per_guest_exVAT"`
}

// DrinksConfig hot/cold drink pricing
type DrinksConfig struct {
	Hot                 DrinkUnit             `json:"hot"`
	Cold                DrinkUnit             `json:"cold"`
	ChildHotMultiplier  float64               `json:"childHotMultiplier"`
	ChildColdMultiplier float64               `json:"childColdMultiplier"`
	RatesByDuration     map[string]DrinkRates `json:"ratesByDuration"`
}

// DrinkUnit unit cost and price. PriceMultiplier applies when PricePerUnit is unset.
type DrinkUnit struct {
	CostPerUnit     float64 `json:"costPerUnit"`
	PricePerUnit    float64 `json:"pricePerUnit"`
	PriceMultiplier float64 `json:"priceMultiplier,omitempty"`
}

// UnitPrice resolved per-unit price
func (d DrinkUnit) UnitPrice() float64 {
	if d.PricePerUnit > 0 {
		return d.PricePerUnit
	}
	multiplier := d.PriceMultiplier
	if multiplier <= 0 {
		multiplier = DefaultDrinkPriceMultiplier
	}
	return d.CostPerUnit * multiplier
}

// DrinkRates per-guest consumption
type DrinkRates struct {
	Hot  float64 `json:"hot"`
	Cold float64 `json:"cold"`
}

// WineConfig wine baseline rules and supplier tiers
type WineConfig struct {
	Baseline WineBaseline        `json:"baseline"`
	Tiers    map[string]WineTier `json:"tiers"`
}

// WineBaseline baseline bottle sizing
type WineBaseline struct {
	GuestsPerBottle          float64     `json:"guestsPerBottle"`
	Ratio                    ColorValues `json:"ratio"`
	MinimumGuestsForAllTypes float64     `json:"minimumGuestsForAllTypes"`
	MixSplit                 MixSplit    `json:"mixSplit"`
}

// MixSplit supplier shares for the mix tier
type MixSplit struct {
	Ulu    float64 `json:"ulu"`
	Kosher float64 `json:"kosher"`
}

// WineTier supplier tier prices
type WineTier struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	CostExVAT   ColorValues `json:"cost_exVAT"`
	PriceIncVAT ColorValues `json:"price_incVAT"`
}

// RevenueTarget margin breakpoint
type RevenueTarget struct {
	Guests float64 `json:"guests"`
	Pct    float64 `json:"pct"`
}

// AddonsConfig commission rules
type AddonsConfig struct {
	WineryCommissionRate  float64 `json:"wineryCommissionRate"`
	CustomerCommissionMin float64 `json:"customerCommissionMin"`
	CustomerCommissionMax float64 `json:"customerCommissionMax"`
}

// VenueConfig venue fee table entry
type VenueConfig struct {
	Key                string         `json:"key"`
	Label              string         `json:"label"`
	BaseFee            float64        `json:"baseFee_exVAT"`
	Cost               float64        `json:"cost_exVAT"`
	LocationMultiplier float64        `json:"locationMultiplier"`
	Brackets           []VenueBracket `json:"brackets,omitempty"`
}

// VenueBracket headcount-dependent venue pricing; the first bracket whose MaxGuests
// covers the headcount wins, the last one catches everything above
type VenueBracket struct {
	MaxGuests  *float64 `json:"maxGuests,omitempty"`
	BaseFee    *float64 `json:"baseFee,omitempty"`
	Cost       *float64 `json:"cost,omitempty"`
	Multiplier float64  `json:"multiplier,omitempty"`
}

// BrandingConfig texts used by exported documents
type BrandingConfig struct {
	CompanyName         string   `json:"companyName"`
	InternalReportTitle string   `json:"internalReportTitle"`
	FooterLines         []string `json:"footerLines"`
}

// Venue lookup by key
func (c *PricingConfig) Venue(key string) (VenueConfig, bool) {
	for _, v := range c.Venues {
		if v.Key == key {
			return v, true
		}
	}
	return VenueConfig{}, false
}

// Extra lookup by key or id
func (c *PricingConfig) Extra(ref string) (MenuExtra, bool) {
	for _, e := range c.Food.Extras {
		if e.Matches(ref) {
			return e, true
		}
	}
	return MenuExtra{}, false
}

// SortedTargets breakpoints of a mode ordered by guest knot
func (c *PricingConfig) SortedTargets(mode MarginMode) []RevenueTarget {
	rows := c.RevenueTargets[mode]
	out := make([]RevenueTarget, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Guests < out[j].Guests })
	return out
}
