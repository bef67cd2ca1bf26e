package exporter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/morgween/ulu-pricing/internal/model"
	"github.com/morgween/ulu-pricing/internal/render"
)

// sheet names
const (
	SheetQuote     = "Quote"
	SheetBreakdown = "Breakdown"
	SheetWine      = "Wine"
)

const moneyFormat = `"₪"#,##0.00`

// Exporter quote spreadsheet exporter
type Exporter struct {
	branding             model.BrandingConfig
	wineryCommissionRate float64
}

// NewExporter creates an exporter using the branding and commission rate of a pricing snapshot
func NewExporter(cfg *model.PricingConfig) *Exporter {
	cfg = cfg.WithDefaults()
	return &Exporter{
		branding:             cfg.Branding,
		wineryCommissionRate: cfg.Addons.WineryCommissionRate,
	}
}

// ExportOptions export options
type ExportOptions struct {
	Internal bool // add the breakdown and wine sheets
	Progress func(ProgressEvent)
}

type styles struct {
	title, header, money, percent, total, totalMoney int
}

// Export builds the workbook for one calculated quote
func (e *Exporter) Export(res *model.QuoteResult, opts ExportOptions) (*excelize.File, error) {
	if res == nil {
		return nil, fmt.Errorf("export: missing quote result")
	}
	reportProgress(opts.Progress, 5, "prepare")

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetQuote); err != nil {
		_ = f.Close()
		return nil, err
	}
	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create styles: %w", err)
	}

	summary := render.Build(res, e.wineryCommissionRate)
	if err := e.writeQuoteSheet(f, st, res, summary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", SheetQuote, err)
	}
	reportProgress(opts.Progress, 40, "quote")

	if opts.Internal {
		if _, err := f.NewSheet(SheetBreakdown); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeBreakdownSheet(f, st, res); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write %s: %w", SheetBreakdown, err)
		}
		reportProgress(opts.Progress, 70, "breakdown")

		if _, err := f.NewSheet(SheetWine); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeWineSheet(f, st, res.Wine); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write %s: %w", SheetWine, err)
		}
	}

	f.SetActiveSheet(0)
	reportProgress(opts.Progress, 100, "done")
	return f, nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	format := moneyFormat
	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "#6B1D2F"},
	}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F4ECEE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, err
	}
	if st.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
		return st, err
	}
	if st.percent, err = f.NewStyle(&excelize.Style{NumFmt: 10}); err != nil {
		return st, err
	}
	if st.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "#999999", Style: 1}},
	}); err != nil {
		return st, err
	}
	if st.totalMoney, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       []excelize.Border{{Type: "top", Color: "#999999", Style: 1}},
		CustomNumFmt: &format,
	}); err != nil {
		return st, err
	}
	return st, nil
}

func (e *Exporter) writeQuoteSheet(f *excelize.File, st styles, res *model.QuoteResult, s render.Summary) error {
	sheet := SheetQuote
	title := strings.TrimSpace(e.branding.CompanyName + " - event quote")
	w := &sheetWriter{f: f, sheet: sheet, row: 1}

	w.set("A", title)
	w.style("A", "A", st.title)
	w.row += 2

	for _, kv := range [][2]string{
		{"Client", s.Client},
		{"Event date", s.EventDate},
		{"Event type", s.EventType},
		{"Venue", s.Venue},
		{"Guests", s.Guests},
		{"Menu", s.Menu},
		{"Wine", s.Wine},
	} {
		w.set("A", kv[0])
		w.set("B", kv[1])
		w.row++
	}

	w.row++
	w.set("A", "Included")
	w.style("A", "B", st.header)
	w.row++
	for _, item := range s.Inclusions {
		w.set("A", item)
		w.row++
	}

	if len(s.Addons) > 0 {
		w.row++
		w.set("A", "Add-ons")
		w.style("A", "B", st.header)
		w.row++
		for _, item := range s.Addons {
			w.set("A", item)
			w.row++
		}
	}

	w.row++
	w.set("A", "Total before VAT")
	w.set("B", res.FinalIncome)
	w.style("B", "B", st.money)
	w.row++
	w.set("A", s.VATLabel)
	w.set("B", res.VATAmount)
	w.style("B", "B", st.money)
	w.row++
	w.set("A", "Total including VAT")
	w.set("B", res.TotalWithVAT)
	w.style("A", "A", st.total)
	w.style("B", "B", st.totalMoney)
	w.row++
	w.set("A", "Per guest (incl. VAT)")
	w.set("B", res.PerPerson)
	w.style("B", "B", st.money)
	w.row++

	if s.Discount != "" {
		w.row++
		w.set("A", s.Discount)
		w.row++
	}
	if len(e.branding.FooterLines) > 0 {
		w.row++
		for _, line := range e.branding.FooterLines {
			w.set("A", line)
			w.row++
		}
	}

	if w.err != nil {
		return w.err
	}
	if err := f.SetColWidth(sheet, "A", "A", 48); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 28)
}

func writeBreakdownSheet(f *excelize.File, st styles, res *model.QuoteResult) error {
	sheet := SheetBreakdown
	headers := []interface{}{"Item", "Income (ex VAT)", "Expense (ex VAT)", "Profit", "Margin"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", st.header); err != nil {
		return err
	}

	first := 2
	for i, r := range res.Breakdown {
		row := first + i
		values := []interface{}{r.Label, r.Income, r.Expense, r.Profit, r.MarginPct}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}
	last := first + len(res.Breakdown) - 1
	if last >= first {
		if err := f.SetCellStyle(sheet, fmt.Sprintf("B%d", first), fmt.Sprintf("D%d", last), st.money); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("E%d", first), fmt.Sprintf("E%d", last), st.percent); err != nil {
			return err
		}
	}

	w := &sheetWriter{f: f, sheet: sheet, row: last + 1}
	w.set("A", "Subtotal")
	if last >= first {
		for _, col := range []string{"B", "C", "D"} {
			w.formula(col, fmt.Sprintf("SUM(%s%d:%s%d)", col, first, col, last))
		}
		w.formula("E", fmt.Sprintf("IF(B%d=0,0,D%d/B%d)", w.row, w.row, w.row))
	}
	w.style("A", "A", st.total)
	w.style("B", "D", st.totalMoney)
	w.style("E", "E", st.percent)
	w.row += 2

	lines := []struct {
		label string
		value float64
		style int
	}{
		{"Discount", -res.Discount.Total, st.money},
		{"Final income (ex VAT)", res.FinalIncome, st.money},
		{"Total expense", res.SubtotalCost, st.money},
		{"Profit", res.Profit, st.money},
		{"Margin", res.Margin, st.percent},
		{"Target margin", res.TargetMargin, st.percent},
		{fmt.Sprintf("VAT (%s)", render.Percent(res.VATRate)), res.VATAmount, st.money},
		{"Total including VAT", res.TotalWithVAT, st.totalMoney},
		{"Per guest (incl. VAT)", res.PerPerson, st.money},
	}
	for _, l := range lines {
		w.set("A", l.label)
		w.set("B", l.value)
		w.style("B", "B", l.style)
		w.row++
	}
	if res.BasePrice.Note != "" {
		w.row++
		w.set("A", res.BasePrice.Note)
	}

	if w.err != nil {
		return w.err
	}
	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "E", 18)
}

func writeWineSheet(f *excelize.File, st styles, wine model.WineResult) error {
	sheet := SheetWine
	headers := []interface{}{"", "White", "Rose", "Red", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", st.header); err != nil {
		return err
	}

	rows := []struct {
		label string
		b     model.BottleAllocation
	}{
		{"Recommended", wine.Required},
		{"Ordered", wine.Actual},
		{"Short of recommendation", wine.ShortfallByColor},
		{"Beyond recommendation", wine.ExtraByColor},
		{"ULU supply", wine.Combined.Ulu},
		{"Kosher supply", wine.Combined.Kosher},
	}
	for i, r := range rows {
		values := []interface{}{r.label, r.b.White, r.b.Rose, r.b.Red, r.b.Total}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}

	w := &sheetWriter{f: f, sheet: sheet, row: len(rows) + 3}
	w.set("A", "Wine cost")
	w.set("B", wine.Cost)
	w.style("B", "B", st.money)
	w.row++
	w.set("A", "Wine income (ex VAT)")
	w.set("B", wine.Income)
	w.style("B", "B", st.money)
	if w.err != nil {
		return w.err
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

// sheetWriter sequential row writer; the first error sticks
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) set(col string, v interface{}) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, fmt.Sprintf("%s%d", col, w.row), v)
}

func (w *sheetWriter) formula(col, formula string) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellFormula(w.sheet, fmt.Sprintf("%s%d", col, w.row), formula)
}

func (w *sheetWriter) style(from, to string, style int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, fmt.Sprintf("%s%d", from, w.row), fmt.Sprintf("%s%d", to, w.row), style)
}

var unsafeName = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// Filename download name, e.g. quote-cohen-family-2026-06-12.xlsx
func Filename(res *model.QuoteResult, ext string) string {
	parts := []string{"quote"}
	for _, p := range []string{res.Client.Name, res.Client.EventDate} {
		if p = strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(strings.TrimSpace(p)), "-"), "-"); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-") + "." + strings.TrimPrefix(ext, ".")
}
