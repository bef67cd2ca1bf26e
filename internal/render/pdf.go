package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/morgween/ulu-pricing/internal/model"
)

// ErrNoChrome no Chrome/Chromium executable could be found
var ErrNoChrome = errors.New("chrome executable not found")

// Document input of the printable quote
type Document struct {
	Branding model.BrandingConfig
	Summary  Summary
	Internal bool // include the cost/profit breakdown
	Printed  time.Time
}

var quoteTemplate = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #2b2b2b; margin: 18mm; font-size: 11pt; }
  h1 { color: #6b1d2f; font-size: 20pt; margin: 0 0 4mm; }
  h2 { font-size: 13pt; border-bottom: 1px solid #d8c8cc; padding-bottom: 2mm; margin-top: 8mm; }
  table { width: 100%; border-collapse: collapse; }
  td, th { padding: 2mm 3mm; text-align: left; }
  th { background: #f4ecee; }
  .num { text-align: right; white-space: nowrap; }
  .total td { font-weight: bold; border-top: 1px solid #999; }
  .meta td:first-child { color: #777; width: 35%; }
  .note { color: #6b1d2f; margin-top: 4mm; }
  footer { margin-top: 12mm; color: #777; font-size: 9pt; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table class="meta">
  <tr><td>Client</td><td>{{.S.Client}}</td></tr>
  <tr><td>Event date</td><td>{{.S.EventDate}}</td></tr>
  <tr><td>Event type</td><td>{{.S.EventType}}</td></tr>
  <tr><td>Venue</td><td>{{.S.Venue}}</td></tr>
  <tr><td>Guests</td><td>{{.S.Guests}}</td></tr>
  <tr><td>Menu</td><td>{{.S.Menu}}</td></tr>
  <tr><td>Wine</td><td>{{.S.Wine}}</td></tr>
</table>

<h2>Included</h2>
<ul>{{range .S.Inclusions}}<li>{{.}}</li>{{end}}</ul>

{{if .S.Addons}}<h2>Add-ons</h2>
<ul>{{range .S.Addons}}<li>{{.}}</li>{{end}}</ul>{{end}}

{{if .Internal}}<h2>Breakdown</h2>
<table>
  <tr><th>Item</th><th class="num">Income</th><th class="num">Expense</th><th class="num">Profit</th><th class="num">Margin</th></tr>
  {{range .S.Rows}}<tr><td>{{.Label}}</td><td class="num">{{.Income}}</td><td class="num">{{.Expense}}</td><td class="num">{{.Profit}}</td><td class="num">{{.Margin}}</td></tr>
  {{end}}
</table>
<ul>{{range .S.Finance}}<li>{{.}}</li>{{end}}</ul>{{end}}

<h2>Price</h2>
<table>
  <tr><td>Total before VAT</td><td class="num">{{.S.TotalExVAT}}</td></tr>
  <tr><td>{{.S.VATLabel}}</td><td class="num">{{.S.VAT}}</td></tr>
  <tr class="total"><td>Total including VAT</td><td class="num">{{.S.TotalIncVAT}}</td></tr>
  <tr><td>Per guest (incl. VAT)</td><td class="num">{{.S.PerPerson}}</td></tr>
</table>
{{if .S.Discount}}<p class="note">{{.S.Discount}}</p>{{end}}

<footer>
  {{range .Branding.FooterLines}}<div>{{.}}</div>{{end}}
  <div>{{.Printed}}</div>
</footer>
</body>
</html>
`))

// HTML renders the printable page
func HTML(doc Document) ([]byte, error) {
	title := doc.Branding.CompanyName + " - event quote"
	if doc.Internal && doc.Branding.InternalReportTitle != "" {
		title = doc.Branding.InternalReportTitle
	}
	printed := doc.Printed
	if printed.IsZero() {
		printed = time.Now()
	}

	var buf bytes.Buffer
	err := quoteTemplate.Execute(&buf, struct {
		Title    string
		S        Summary
		Internal bool
		Branding model.BrandingConfig
		Printed  string
	}{title, doc.Summary, doc.Internal, doc.Branding, printed.Format("2006-01-02 15:04")})
	if err != nil {
		return nil, fmt.Errorf("render quote html: %w", err)
	}
	return buf.Bytes(), nil
}

// PDFRenderer prints quote pages with headless Chrome
type PDFRenderer struct {
	ChromePath string
	Timeout    time.Duration
}

// DetectChromePath configured path if it exists, else the first common install location
func DetectChromePath(configured string) string {
	candidates := []string{configured, os.Getenv("CHROME_PATH")}
	candidates = append(candidates,
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	)
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Available reports whether a Chrome executable was found
func (r *PDFRenderer) Available() bool {
	return DetectChromePath(r.ChromePath) != ""
}

// PDF renders doc as an A4 PDF
func (r *PDFRenderer) PDF(ctx context.Context, doc Document) ([]byte, error) {
	html, err := HTML(doc)
	if err != nil {
		return nil, err
	}

	chromePath := DetectChromePath(r.ChromePath)
	if chromePath == "" {
		return nil, ErrNoChrome
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(chromePath),
		chromedp.NoSandbox,
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 8.27" x 11.69"
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf, nil
}
