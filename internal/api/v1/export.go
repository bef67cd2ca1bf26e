package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/morgween/ulu-pricing/internal/exporter"
	"github.com/morgween/ulu-pricing/internal/model"
	"github.com/morgween/ulu-pricing/internal/render"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// ExportXLSX prices the request and returns the spreadsheet.
// ?internal=1 adds the breakdown sheets; ?link=1 answers with a one-shot download URL.
// POST /api/export/xlsx
func (h *Handler) ExportXLSX(c *gin.Context) {
	req, ok := h.bindQuoteRequest(c)
	if !ok {
		return
	}
	h.sendWorkbook(c, "", h.snapshot.Calculate(req))
}

// ExportSavedQuote spreadsheet of a saved quote
// GET /api/quotes/:id/export.xlsx
func (h *Handler) ExportSavedQuote(c *gin.Context) {
	rec, ok := h.loadQuote(c)
	if !ok {
		return
	}
	h.sendWorkbook(c, rec.ID, rec.Result)
}

func (h *Handler) sendWorkbook(c *gin.Context, quoteID string, res *model.QuoteResult) {
	filename := exporter.Filename(res, "xlsx")
	logID := h.startExportLog(quoteID, "xlsx", filename)

	file, err := h.buildWorkbook(res, queryBool(c, "internal"), nil)
	if err != nil {
		h.finishExportLog(logID, 0, err)
		respondError(c, http.StatusInternalServerError, "Failed to build spreadsheet", err)
		return
	}
	defer file.Close()

	if queryBool(c, "link") {
		path, size, err := h.stageWorkbook(file)
		h.finishExportLog(logID, size, err)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to write export file", err)
			return
		}
		c.JSON(http.StatusOK, h.downloadLink(path, filename, xlsxContentType))
		return
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		h.finishExportLog(logID, 0, err)
		respondError(c, http.StatusInternalServerError, "Failed to write spreadsheet", err)
		return
	}
	h.finishExportLog(logID, int64(buf.Len()), nil)

	c.Header("Content-Disposition", contentDisposition(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) buildWorkbook(res *model.QuoteResult, internal bool, progress func(exporter.ProgressEvent)) (*excelize.File, error) {
	exp := exporter.NewExporter(h.snapshot.Config())
	return exp.Export(res, exporter.ExportOptions{Internal: internal, Progress: progress})
}

func (h *Handler) stageWorkbook(file *excelize.File) (string, int64, error) {
	if err := os.MkdirAll(h.exportDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(h.exportDir, fmt.Sprintf("quote_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(path); err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to save export file: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat export file: %w", err)
	}
	return path, info.Size(), nil
}

func (h *Handler) downloadLink(path, filename, contentType string) gin.H {
	token := h.downloads.put(exportDownload{
		filePath:    path,
		filename:    filename,
		contentType: contentType,
	}, h.downloadTTL)
	return gin.H{
		"downloadUrl": fmt.Sprintf("%s/export/download/%s", h.basePath, token),
		"filename":    filename,
		"expiresIn":   int(h.downloadTTL.Seconds()),
	}
}

// ExportPDF prices the request and prints the quote.
// ?internal=1 includes the breakdown; ?format=html returns the page instead of the PDF.
// POST /api/export/pdf
func (h *Handler) ExportPDF(c *gin.Context) {
	req, ok := h.bindQuoteRequest(c)
	if !ok {
		return
	}
	engine := h.snapshot.Engine()
	res := engine.Calculate(req)
	cfg := engine.Config()
	doc := render.Document{
		Branding: cfg.Branding,
		Summary:  h.summarize(res),
		Internal: queryBool(c, "internal"),
		Printed:  time.Now(),
	}

	if c.Query("format") == "html" {
		page, err := render.HTML(doc)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to render quote", err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}

	if h.pdf == nil {
		respondError(c, http.StatusServiceUnavailable, "PDF export is not available", nil)
		return
	}

	filename := exporter.Filename(res, "pdf")
	logID := h.startExportLog("", "pdf", filename)
	pdf, err := h.pdf.PDF(c.Request.Context(), doc)
	h.finishExportLog(logID, int64(len(pdf)), err)
	if errors.Is(err, render.ErrNoChrome) {
		respondError(c, http.StatusServiceUnavailable, "PDF export is not available: Chrome not found", err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate PDF", err)
		return
	}

	c.Header("Content-Disposition", contentDisposition(filename))
	c.Data(http.StatusOK, pdfContentType, pdf)
}

type exportProgressEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportStream builds the spreadsheet reporting progress over SSE; the final event carries the download URL
// POST /api/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	req, ok := h.bindQuoteRequest(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Streaming not supported", nil)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event exportProgressEvent) {
		event.Timestamp = time.Now()
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	fail := func(msg string, err error) {
		send(exportProgressEvent{Type: "error", Message: msg + ": " + err.Error(), Data: map[string]any{}})
	}

	res := h.snapshot.Calculate(req)
	filename := exporter.Filename(res, "xlsx")
	send(exportProgressEvent{Type: "start", Message: "export started", Data: map[string]any{"filename": filename}})

	logID := h.startExportLog("", "xlsx", filename)
	lastPercent := -1
	file, err := h.buildWorkbook(res, queryBool(c, "internal"), func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{Type: "progress", Message: p.Stage, Data: map[string]any{"percent": p.Percent}})
	})
	if err != nil {
		h.finishExportLog(logID, 0, err)
		fail("export failed", err)
		return
	}
	defer file.Close()

	path, size, err := h.stageWorkbook(file)
	h.finishExportLog(logID, size, err)
	if err != nil {
		fail("failed to write export file", err)
		return
	}

	link := h.downloadLink(path, filename, xlsxContentType)
	link["percent"] = 100
	send(exportProgressEvent{Type: "done", Message: "export complete", Data: link})
}

// DownloadExport serves a staged export once
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondError(c, http.StatusBadRequest, "Missing token", nil)
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		respondError(c, http.StatusNotFound, "Download link expired", nil)
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		respondError(c, http.StatusNotFound, "Export file not found", nil)
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.filename))
	c.Header("Content-Type", item.contentType)
	c.File(item.filePath)

	_ = os.Remove(item.filePath)
}

// ListExports export history
// GET /api/exports?limit=
func (h *Handler) ListExports(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid limit", err)
		return
	}
	logs, err := h.store.ListExportLogs(limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list exports", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

func (h *Handler) startExportLog(quoteID, format, filename string) int64 {
	id, err := h.store.CreateExportLog(quoteID, format, filename)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("export log not written")
		return 0
	}
	return id
}

func (h *Handler) finishExportLog(id, size int64, exportErr error) {
	if id == 0 {
		return
	}
	if err := h.store.FinishExportLog(id, size, exportErr); err != nil {
		log.Warn().Err(err).Int64("export_id", id).Msg("export log not updated")
	}
}

// contentDisposition attachment header with an ASCII fallback and the RFC 5987 name
func contentDisposition(filename string) string {
	fallback := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		ch := filename[i]
		if ch < 0x20 || ch > 0x7e || ch == '"' || ch == '\\' {
			ch = '_'
		}
		fallback = append(fallback, ch)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", string(fallback), url.PathEscape(filename))
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
