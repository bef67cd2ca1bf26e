package model

// wine colours, in allocation order
const (
	ColorWhite = "white"
	ColorRose  = "rose"
	ColorRed   = "red"
)

// Colors allocation order
var Colors = []string{ColorWhite, ColorRose, ColorRed}

// wine suppliers / tiers
const (
	SupplierUlu    = "ulu"
	SupplierKosher = "kosher"
	TierMix        = "mix"
)

// MenuMode food arrangement of the event
type MenuMode string

const (
	MenuWinery         MenuMode = "winery"
	MenuOwnCatering    MenuMode = "own_catering"
	MenuClientCatering MenuMode = "client_catering"
)

// Normalize unknown modes fall back to winery
func (m MenuMode) Normalize() MenuMode {
	switch m {
	case MenuWinery, MenuOwnCatering, MenuClientCatering:
		return m
	}
	return MenuWinery
}

// MarginMode revenue-target column for the menu
func (m MenuMode) MarginMode() MarginMode {
	switch m.Normalize() {
	case MenuOwnCatering:
		return MarginCatering
	case MenuClientCatering:
		return MarginCustomerCatering
	}
	return MarginOurFood
}

// WorkerMode staffing column for the menu
func (m MenuMode) WorkerMode() string {
	if m.Normalize() == MenuWinery {
		return string(MarginOurFood)
	}
	return string(MarginCatering)
}

// add-on sources and pricing types
const (
	AddonSourceWinery   = "winery"
	AddonSourceCustomer = "customer"

	AddonFixed               = "fixed"
	AddonPerPerson           = "per_person"
	AddonCommissionFixed     = "commission_fixed"
	AddonCommissionPerPerson = "commission_per_person"
)

// venue time flags
const (
	TimeNight   = "night"
	TimeShabbat = "shabbat"
	TimeHoliday = "holiday"
)

// TimeFlagOrder flags that may carry a venue multiplier
var TimeFlagOrder = []string{TimeNight, TimeShabbat, TimeHoliday}

// GuestCounts head counts entered by the user
type GuestCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// ClientInfo descriptive quote header
type ClientInfo struct {
	Name      string `json:"name"`
	EventDate string `json:"eventDate"`
	EventType string `json:"eventType"`
	Kind      string `json:"kind"` // personal / corporate
	Notes     string `json:"notes,omitempty"`
}

// DrinkSelection toggles and per-guest rates; nil means duration default
type DrinkSelection struct {
	IncludeHot  *bool    `json:"includeHot,omitempty"`
	IncludeCold *bool    `json:"includeCold,omitempty"`
	HotRate     *float64 `json:"hotRate,omitempty"`
	ColdRate    *float64 `json:"coldRate,omitempty"`
}

// WineSelection tier and bottles per colour
type WineSelection struct {
	Tier        string      `json:"tier"`
	Bottles     ColorCounts `json:"bottles"`
	AutoBottles bool        `json:"autoBottles"`
}

// ColorCounts user-entered bottle counts
type ColorCounts struct {
	White int `json:"white"`
	Rose  int `json:"rose"`
	Red   int `json:"red"`
}

// AddonLine an add-on entered on the quote
type AddonLine struct {
	Description string  `json:"description"`
	Source      string  `json:"source"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
}

// Discount flat amount and/or percent of subtotal
type Discount struct {
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
	Reason  string  `json:"reason,omitempty"`
}

// Selections everything the user picked for the event
type Selections struct {
	Menu            MenuMode       `json:"menu"`
	OwnCateringRate float64        `json:"ownCateringRate"`
	Extras          []string       `json:"extras"`
	Duration        string         `json:"duration"`
	Drinks          DrinkSelection `json:"drinks"`
	Wine            WineSelection  `json:"wine"`
	Addons          []AddonLine    `json:"addons"`
	Presets         []string       `json:"presets,omitempty"` // add-on preset labels, expanded into Addons before pricing
	Venue           string         `json:"venue"`
	TimeFlags       []string       `json:"timeFlags,omitempty"`
	Discount        Discount       `json:"discount"`
	VATRate         *float64       `json:"vatRate,omitempty"`
}

// QuoteRequest engine input
type QuoteRequest struct {
	Client     ClientInfo  `json:"client"`
	Guests     GuestCounts `json:"guests"`
	Selections Selections  `json:"selections"`
}

// BottleAllocation bottles per colour plus total
type BottleAllocation struct {
	White int `json:"white"`
	Rose  int `json:"rose"`
	Red   int `json:"red"`
	Total int `json:"total"`
}

// Get count of a colour
func (b BottleAllocation) Get(color string) int {
	switch color {
	case ColorWhite:
		return b.White
	case ColorRose:
		return b.Rose
	case ColorRed:
		return b.Red
	}
	return 0
}

// Add n bottles of a colour, keeping Total in step
func (b *BottleAllocation) Add(color string, n int) {
	switch color {
	case ColorWhite:
		b.White += n
	case ColorRose:
		b.Rose += n
	case ColorRed:
		b.Red += n
	default:
		return
	}
	b.Total += n
}

// Plus element-wise sum
func (b BottleAllocation) Plus(o BottleAllocation) BottleAllocation {
	return BottleAllocation{
		White: b.White + o.White,
		Rose:  b.Rose + o.Rose,
		Red:   b.Red + o.Red,
		Total: b.Total + o.Total,
	}
}

// SupplierAllocation bottles per supplier
type SupplierAllocation struct {
	Ulu    BottleAllocation `json:"ulu"`
	Kosher BottleAllocation `json:"kosher"`
}

// For returns the supplier's bucket
func (s *SupplierAllocation) For(supplier string) *BottleAllocation {
	if supplier == SupplierKosher {
		return &s.Kosher
	}
	return &s.Ulu
}

// Plus element-wise sum
func (s SupplierAllocation) Plus(o SupplierAllocation) SupplierAllocation {
	return SupplierAllocation{Ulu: s.Ulu.Plus(o.Ulu), Kosher: s.Kosher.Plus(o.Kosher)}
}

// Total bottles across suppliers
func (s SupplierAllocation) Total() int {
	return s.Ulu.Total + s.Kosher.Total
}
