package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/vendorbill/backend/internal/application/billing"
)

// TaxSettingsHandler handles vendor tax settings endpoints
type TaxSettingsHandler struct {
	BaseHandler
	settings *appbilling.TaxSettingsService
}

// NewTaxSettingsHandler creates a new TaxSettingsHandler
func NewTaxSettingsHandler(settings *appbilling.TaxSettingsService) *TaxSettingsHandler {
	return &TaxSettingsHandler{settings: settings}
}

// RegisterRoutes registers tax settings routes on the given router group
func (h *TaxSettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("/tax", h.Get)
		settings.PUT("/tax", h.Upsert)
	}
}

// Get handles GET /settings/tax, returning defaults for vendors without
// stored settings
func (h *TaxSettingsHandler) Get(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	vendorID, err := parseVendorQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	resp, err := h.settings.Get(c.Request.Context(), principal, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Upsert handles PUT /settings/tax
func (h *TaxSettingsHandler) Upsert(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}

	var req appbilling.UpsertTaxSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.settings.Upsert(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
