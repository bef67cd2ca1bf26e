package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/morgween/ulu-pricing/internal/service/calculator"
	"github.com/morgween/ulu-pricing/internal/service/settings"
	"github.com/morgween/ulu-pricing/internal/store"
)

// Version reported by the health endpoint
const Version = "1.0.0"

// Health liveness probe
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// GetConfig current pricing document
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.Header("X-Config-Version", strconv.Itoa(h.snapshot.Version()))
	c.JSON(http.StatusOK, h.snapshot.Config())
}

// UpdateConfig replaces the pricing document.
// Legacy field names are accepted; the stored document always uses the current ones.
// PUT /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid configuration data", err)
		return
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid configuration data", err)
		return
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid configuration data", nil)
		return
	}

	cfg, err := settings.FromMap(doc)
	if err != nil {
		respondInvalid(c, "Invalid configuration data", err)
		return
	}
	if err := settings.Validate(cfg); err != nil {
		respondInvalid(c, "Invalid configuration data", err)
		return
	}

	if err := h.store.SetConfigJSON(store.ConfigKeyPricing, cfg); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}
	h.snapshot.Replace(cfg)

	if h.pricingFile != "" {
		if err := settings.SaveFile(h.pricingFile, cfg); err != nil {
			log.Warn().Err(err).Str("file", h.pricingFile).Msg("pricing file mirror not updated")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration updated",
		"version": h.snapshot.Version(),
	})
}

// GetQuotas add-on presets
// GET /api/quotas
func (h *Handler) GetQuotas(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot.Presets())
}

// UpdateQuotas replaces the add-on presets; the body must be a JSON array
// PUT /api/quotas
func (h *Handler) UpdateQuotas(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid quotas data", err)
		return
	}
	presets, err := settings.DecodePresets(body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid quotas data", err)
		return
	}

	if err := h.store.SetConfigJSON(store.ConfigKeyPresets, presets); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save quotas", err)
		return
	}
	h.snapshot.SetPresets(presets)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quotas updated",
		"count":   len(presets),
	})
}

// SuggestWine baseline bottle allocation for an adult count
// GET /api/wine/suggest?adults=40
func (h *Handler) SuggestWine(c *gin.Context) {
	adults, err := strconv.ParseFloat(c.DefaultQuery("adults", "0"), 64)
	if err != nil || adults < 0 {
		respondError(c, http.StatusBadRequest, "adults must be a non-negative number", err)
		return
	}
	c.JSON(http.StatusOK, calculator.SuggestBottles(h.snapshot.Config(), adults))
}
