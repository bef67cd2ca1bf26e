package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/morgween/ulu-pricing/internal/model"
)

// Row display strings of one breakdown row
type Row struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Profit  string `json:"profit"`
	Margin  string `json:"margin"`
}

// Summary client-facing texts for one quote
type Summary struct {
	Client          string   `json:"client"`
	EventDate       string   `json:"eventDate"`
	EventType       string   `json:"eventType"`
	Venue           string   `json:"venue"`
	Guests          string   `json:"guests"`
	EffectiveGuests string   `json:"effectiveGuests"`
	Menu            string   `json:"menu"`
	Wine            string   `json:"wine"`
	Inclusions      []string `json:"inclusions"`
	Addons          []string `json:"addons"`
	Discount        string   `json:"discount,omitempty"`
	Finance         []string `json:"finance"`
	TotalExVAT      string   `json:"totalExVat"`
	VATLabel        string   `json:"vatLabel"`
	VAT             string   `json:"vat"`
	TotalIncVAT     string   `json:"totalIncVat"`
	PerPerson       string   `json:"perPerson"`
	Rows            []Row    `json:"rows"`
	Warnings        []string `json:"warnings,omitempty"`
}

const placeholder = "—"

// Build renders the summary; wineryCommissionRate labels commission add-ons
func Build(res *model.QuoteResult, wineryCommissionRate float64) Summary {
	s := Summary{
		Client:          orPlaceholder(res.Client.Name),
		EventDate:       orPlaceholder(res.Client.EventDate),
		EventType:       orPlaceholder(res.Client.EventType),
		Venue:           placeholder,
		Guests:          Number(float64(res.Guests.Total), 0),
		EffectiveGuests: Count(res.Guests.Effective),
		Menu:            DescribeMenu(res.Menu),
		Wine:            DescribeWine(res.Wine.Actual),
		Inclusions:      Inclusions(res),
		Addons:          AddonLines(res, wineryCommissionRate),
		Discount:        DescribeDiscount(res.Discount),
		Finance:         Finance(res),
		TotalExVAT:      Money(res.FinalIncome),
		VATLabel:        fmt.Sprintf("VAT (%s)", Percent(res.VATRate)),
		VAT:             Money(res.VATAmount),
		TotalIncVAT:     Money(res.TotalWithVAT),
		PerPerson:       MoneyExact(res.PerPerson),
		Warnings:        res.Warnings,
	}
	if res.Venue.Selected {
		s.Venue = res.Venue.Label
	}
	for _, r := range res.Breakdown {
		s.Rows = append(s.Rows, Row{
			Key:     r.Key,
			Label:   r.Label,
			Income:  Money(r.Income),
			Expense: Money(r.Expense),
			Profit:  Money(r.Profit),
			Margin:  Percent(r.MarginPct),
		})
	}
	return s
}

// DescribeMenu public menu name
func DescribeMenu(m model.MenuMode) string {
	switch m {
	case model.MenuWinery:
		return "Winery menu"
	case model.MenuOwnCatering:
		return "Catering by the winery"
	case model.MenuClientCatering:
		return "External catering (client brings)"
	}
	return placeholder
}

// DescribeWine bottle totals, e.g. "8 bottles in total (white 3, rose 3, red 2)"
func DescribeWine(b model.BottleAllocation) string {
	if b.Total <= 0 {
		return "No wine"
	}
	var parts []string
	for _, color := range model.Colors {
		if n := b.Get(color); n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", color, n))
		}
	}
	noun := "bottles"
	if b.Total == 1 {
		noun = "bottle"
	}
	text := fmt.Sprintf("%s %s in total", Number(float64(b.Total), 0), noun)
	if len(parts) > 0 {
		text += " (" + strings.Join(parts, ", ") + ")"
	}
	return text
}

// Inclusions what the quoted price covers
func Inclusions(res *model.QuoteResult) []string {
	items := []string{DescribeMenu(res.Menu), DescribeWine(res.Wine.Actual)}
	items = append(items, fmt.Sprintf("Drinks: hot %s / cold %s",
		yesNo(res.Drinks.Hot.Enabled), yesNo(res.Drinks.Cold.Enabled)))
	return items
}

// AddonLines one text per add-on and per menu extra
func AddonLines(res *model.QuoteResult, wineryCommissionRate float64) []string {
	ratePct := Percent(wineryCommissionRate)
	var out []string
	for _, line := range res.Addons.Lines {
		parts := []string{orDefault(line.Description, "Add-on")}
		switch line.Type {
		case model.AddonCommissionFixed:
			parts = append(parts, ratePct+" commission (per event)")
		case model.AddonCommissionPerPerson:
			parts = append(parts, ratePct+" commission (per guest)")
		case model.AddonPerPerson:
			parts = append(parts, "per guest")
		default:
			parts = append(parts, "per event")
		}
		if line.Source == model.AddonSourceCustomer {
			parts = append(parts, "client brings")
		} else {
			parts = append(parts, "winery brings")
		}
		if line.Quantity > 1 {
			parts = append(parts, "charged qty "+Count(line.Quantity))
		}
		parts = append(parts, priceText(line.Income))
		out = append(out, strings.Join(parts, " · "))
	}
	for _, extra := range res.Food.Extras {
		parts := []string{orDefault(extra.Label, extra.Key)}
		if extra.PerGuestKey == model.PerGuestEvent {
			parts = append(parts, "per event")
		} else {
			parts = append(parts, "per guest", "charged qty "+Count(extra.Quantity))
		}
		parts = append(parts, priceText(extra.Income))
		out = append(out, strings.Join(parts, " · "))
	}
	return out
}

// DescribeDiscount empty when no discount applies
func DescribeDiscount(d model.DiscountResult) string {
	var parts []string
	if d.Percent > 0 {
		parts = append(parts, Number(d.Percent, autoPlaces(d.Percent, 1))+"%")
	}
	if d.Amount > 0 {
		parts = append(parts, Money(d.Amount))
	}
	if len(parts) == 0 {
		return ""
	}
	text := "Price includes a discount (" + strings.Join(parts, " + ") + ")"
	if d.Reason != "" {
		text += ": " + d.Reason
	}
	return text
}

// Finance internal financial lines
func Finance(res *model.QuoteResult) []string {
	lines := []string{
		"Total income (ex VAT): " + Money(res.FinalIncome),
		"Total expense (ex VAT): " + Money(res.SubtotalCost),
		"Required base price: " + Money(res.BasePriceAdditional),
		"Event margin: " + Percent(res.Margin),
		"Target margin: " + Percent(res.TargetMargin),
	}
	if res.BasePrice.Note != "" {
		lines = append(lines, res.BasePrice.Note)
	}
	return lines
}

func priceText(amount float64) string {
	if amount <= 0 || math.IsNaN(amount) {
		return "no charge"
	}
	return MoneyExact(amount) + " ex VAT"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orPlaceholder(s string) string {
	return orDefault(s, placeholder)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
