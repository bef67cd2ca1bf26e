package model

// GuestSummary guest counts after minimum enforcement
type GuestSummary struct {
	EnteredAdults   int     `json:"enteredAdults"`
	EnteredChildren int     `json:"enteredChildren"`
	Adults          int     `json:"adults"`
	Children        int     `json:"children"`
	Total           int     `json:"total"`
	Effective       float64 `json:"effective"`
	Minimum         int     `json:"minimum"`
	Raised          bool    `json:"raised"`
	ChildFactor     float64 `json:"childFactor"`
}

// AppliedExtra a food extra priced on the quote
type AppliedExtra struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unitCost"`
	UnitIncome  float64 `json:"unitIncome"`
	Cost        float64 `json:"cost"`
	Income      float64 `json:"income"`
	InsideBase  bool    `json:"insideBase"`
	PerGuestKey string  `json:"perGuestMode"`
}

// FoodResult menu category
type FoodResult struct {
	Mode          MenuMode       `json:"mode"`
	Cost          float64        `json:"cost"`
	Income        float64        `json:"income"`
	BaseCost      float64        `json:"baseCost"`
	BaseIncome    float64        `json:"baseIncome"`
	UnitCost      float64        `json:"unitCost"`
	UnitIncome    float64        `json:"unitIncome"`
	MarkupPercent float64        `json:"markupPercent,omitempty"`
	Extras        []AppliedExtra `json:"extras"`
}

// DrinkLine one drink kind
type DrinkLine struct {
	Enabled        bool    `json:"enabled"`
	Rate           float64 `json:"rate"`
	DefaultRate    float64 `json:"defaultRate"`
	Units          float64 `json:"units"`
	BaselineUnits  float64 `json:"baselineUnits"`
	ExtraUnits     float64 `json:"extraUnits"`
	UnitCost       float64 `json:"unitCost"`
	UnitPrice      float64 `json:"unitPrice"`
	Cost           float64 `json:"cost"`
	Income         float64 `json:"income"`
	BaselineCost   float64 `json:"baselineCost"`
	BaselineIncome float64 `json:"baselineIncome"`
}

// DrinksResult drinks category
type DrinksResult struct {
	Duration       string    `json:"duration"`
	Hot            DrinkLine `json:"hot"`
	Cold           DrinkLine `json:"cold"`
	Cost           float64   `json:"cost"`
	Income         float64   `json:"income"`
	BaselineCost   float64   `json:"baselineCost"`
	BaselineIncome float64   `json:"baselineIncome"`
}

// SupplierTotals cost/income of one supplier
type SupplierTotals struct {
	Cost   float64 `json:"cost"`
	Income float64 `json:"income"`
}

// WineFinancials priced supplier allocation
type WineFinancials struct {
	Counts     BottleAllocation          `json:"counts"`
	Allocation SupplierAllocation        `json:"allocation"`
	Cost       float64                   `json:"cost"`
	Income     float64                   `json:"income"`
	BySupplier map[string]SupplierTotals `json:"bySupplier"`
}

// WineResult wine category
type WineResult struct {
	Tier             string             `json:"tier"`
	TierLabel        string             `json:"tierLabel"`
	Required         BottleAllocation   `json:"required"`
	Actual           BottleAllocation   `json:"actual"`
	Shortfall        int                `json:"shortfall"`
	Extra            int                `json:"extra"`
	ShortfallByColor BottleAllocation   `json:"shortfallByColor"`
	ExtraByColor     BottleAllocation   `json:"extraByColor"`
	Baseline         WineFinancials     `json:"baseline"`
	ExtraPriced      WineFinancials     `json:"extraPriced"`
	Combined         SupplierAllocation `json:"combined"`
	Cost             float64            `json:"cost"`
	Income           float64            `json:"income"`
}

// StaffingResult staff category
type StaffingResult struct {
	Workers          int     `json:"workers"`
	WorkerRate       float64 `json:"workerRate"`
	ManagerBonus     float64 `json:"managerBonus"`
	RevenueComponent float64 `json:"revenueComponent"`
	Cost             float64 `json:"cost"`
	Income           float64 `json:"income"`
}

// VenueResult venue category
type VenueResult struct {
	Key                 string  `json:"key"`
	Label               string  `json:"label"`
	Selected            bool    `json:"selected"`
	BaseFee             float64 `json:"baseFee"`
	BaseCost            float64 `json:"baseCost"`
	HeadcountMultiplier float64 `json:"headcountMultiplier"`
	LocationMultiplier  float64 `json:"locationMultiplier"`
	TimeMultiplier      float64 `json:"timeMultiplier"`
	Multiplier          float64 `json:"multiplier"`
	Cost                float64 `json:"cost"`
	Income              float64 `json:"income"`
}

// AddonResult one priced add-on line
type AddonResult struct {
	Description string  `json:"description"`
	Source      string  `json:"source"`
	Type        string  `json:"type"`
	Input       float64 `json:"input"`
	Quantity    float64 `json:"quantity"`
	VendorTotal float64 `json:"vendorTotal"`
	Commission  float64 `json:"commission"`
	Cost        float64 `json:"cost"`
	Income      float64 `json:"income"`
}

// AddonsResult add-ons category
type AddonsResult struct {
	Lines  []AddonResult `json:"lines"`
	Cost   float64       `json:"cost"`
	Income float64       `json:"income"`
}

// BasePriceResult solver output
type BasePriceResult struct {
	BP             float64 `json:"bp"`
	RawBP          float64 `json:"rawBP"`
	TargetPct      float64 `json:"targetPct"`
	RevenuePctNoBP float64 `json:"revenuePctNoBP"`
	RevenuePct     float64 `json:"revenuePct"`
	Denom          float64 `json:"denom"`
	Surplus        float64 `json:"surplusIfAny"`
	Note           string  `json:"note,omitempty"`
}

// DiscountResult applied discount
type DiscountResult struct {
	Amount        float64 `json:"amount"`
	Percent       float64 `json:"percent"`
	PercentAmount float64 `json:"percentAmount"`
	Total         float64 `json:"total"`
	Reason        string  `json:"reason,omitempty"`
}

// PricingComponent one category line
type PricingComponent struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Cost    float64 `json:"cost"`
	Income  float64 `json:"income"`
	Details any     `json:"details,omitempty"`
}

// BreakdownRow rendered breakdown line
type BreakdownRow struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Income    float64 `json:"income"`
	Expense   float64 `json:"expense"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"marginPct"`
}

// QuoteResult full computation for one event
type QuoteResult struct {
	Client     ClientInfo   `json:"client"`
	Guests     GuestSummary `json:"guests"`
	Menu       MenuMode     `json:"menu"`
	MarginMode MarginMode   `json:"marginMode"`

	Food     FoodResult     `json:"food"`
	Drinks   DrinksResult   `json:"drinks"`
	Wine     WineResult     `json:"wine"`
	Staffing StaffingResult `json:"staffing"`
	Venue    VenueResult    `json:"venue"`
	Addons   AddonsResult   `json:"addons"`

	Components []PricingComponent `json:"components"`
	BasePrice  BasePriceResult    `json:"basePrice"`

	BasePriceAdditional float64        `json:"basePriceAdditional"`
	SubtotalIncome      float64        `json:"subtotalIncome"`
	SubtotalCost        float64        `json:"subtotalCost"`
	Discount            DiscountResult `json:"discount"`
	FinalIncome         float64        `json:"finalIncome"`
	Profit              float64        `json:"profit"`
	Margin              float64        `json:"margin"`
	TargetMargin        float64        `json:"targetMargin"`
	VATRate             float64        `json:"vatRate"`
	VATAmount           float64        `json:"vatAmount"`
	TotalWithVAT        float64        `json:"totalWithVat"`
	PerPerson           float64        `json:"perPerson"`

	Breakdown []BreakdownRow `json:"breakdown"`
	Warnings  []string       `json:"warnings,omitempty"`
}
