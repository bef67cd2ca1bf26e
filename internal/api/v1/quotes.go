package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/morgween/ulu-pricing/internal/model"
	"github.com/morgween/ulu-pricing/internal/render"
	"github.com/morgween/ulu-pricing/internal/store"
)

type quoteResponse struct {
	Result  *model.QuoteResult `json:"result"`
	Summary render.Summary     `json:"summary"`
}

type savedQuoteResponse struct {
	*store.QuoteRecord
	Summary render.Summary `json:"summary"`
}

func (h *Handler) bindQuoteRequest(c *gin.Context) (model.QuoteRequest, bool) {
	var req model.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid quote request", err)
		return req, false
	}
	if err := applyPresets(&req, h.snapshot.Presets()); err != nil {
		respondInvalid(c, "Invalid quote request", err)
		return req, false
	}
	return req, true
}

// applyPresets appends the add-on lines of the presets named in the request
func applyPresets(req *model.QuoteRequest, presets []model.AddonPreset) error {
	if len(req.Selections.Presets) == 0 {
		return nil
	}
	byLabel := make(map[string]model.AddonPreset, len(presets))
	for _, p := range presets {
		byLabel[strings.ToLower(strings.TrimSpace(p.Label))] = p
	}
	for _, name := range req.Selections.Presets {
		p, ok := byLabel[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("unknown add-on preset %q", name)
		}
		req.Selections.Addons = append(req.Selections.Addons, p.Line())
	}
	// saved requests keep the expanded lines only
	req.Selections.Presets = nil
	return nil
}

func (h *Handler) summarize(res *model.QuoteResult) render.Summary {
	return render.Build(res, h.snapshot.Config().Addons.WineryCommissionRate)
}

// Calculate prices a quote without saving it
// POST /api/quotes/calculate
func (h *Handler) Calculate(c *gin.Context) {
	req, ok := h.bindQuoteRequest(c)
	if !ok {
		return
	}
	res := h.snapshot.Calculate(req)
	c.JSON(http.StatusOK, quoteResponse{Result: res, Summary: h.summarize(res)})
}

// CreateQuote prices and saves a quote
// POST /api/quotes
func (h *Handler) CreateQuote(c *gin.Context) {
	req, ok := h.bindQuoteRequest(c)
	if !ok {
		return
	}
	engine, version := h.snapshot.Snapshot()
	res := engine.Calculate(req)

	rec, err := h.store.CreateQuote(req, res, version)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save quote", err)
		return
	}
	c.JSON(http.StatusCreated, savedQuoteResponse{QuoteRecord: rec, Summary: h.summarize(res)})
}

// ListQuotes saved quotes, newest first
// GET /api/quotes?search=&limit=&offset=
func (h *Handler) ListQuotes(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid limit", err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid offset", err)
		return
	}

	items, total, err := h.store.ListQuotes(store.QuoteFilter{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list quotes", err)
		return
	}
	if items == nil {
		items = []store.QuoteSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// GetQuote one saved quote
// GET /api/quotes/:id
func (h *Handler) GetQuote(c *gin.Context) {
	rec, ok := h.loadQuote(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, savedQuoteResponse{QuoteRecord: rec, Summary: h.summarize(rec.Result)})
}

// DeleteQuote removes a saved quote
// DELETE /api/quotes/:id
func (h *Handler) DeleteQuote(c *gin.Context) {
	err := h.store.DeleteQuote(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Quote not found", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete quote", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) loadQuote(c *gin.Context) (*store.QuoteRecord, bool) {
	rec, err := h.store.GetQuote(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Quote not found", nil)
		return nil, false
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load quote", err)
		return nil, false
	}
	if rec.Result == nil {
		// rows written without a result are re-priced with the current snapshot
		rec.Result = h.snapshot.Calculate(rec.Request)
	}
	return rec, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
