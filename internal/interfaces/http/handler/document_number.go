package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/vendorbill/backend/internal/application/billing"
	"github.com/vendorbill/backend/internal/domain/billing"
)

// DocumentNumberHandler handles numbering configuration and preview
// endpoints
type DocumentNumberHandler struct {
	BaseHandler
	numbers *appbilling.DocumentNumberService
}

// NewDocumentNumberHandler creates a new DocumentNumberHandler
func NewDocumentNumberHandler(numbers *appbilling.DocumentNumberService) *DocumentNumberHandler {
	return &DocumentNumberHandler{numbers: numbers}
}

// RegisterRoutes registers document number routes on the given router
// group
func (h *DocumentNumberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	numbers := rg.Group("/document-numbers")
	{
		numbers.GET("/configs", h.ListConfigs)
		numbers.PUT("/configs", h.UpsertConfig)
		numbers.DELETE("/configs/:type", h.DeleteConfig)
		numbers.GET("/preview/:type", h.Preview)
	}
}

// parseDocType validates the :type path parameter
func parseDocType(c *gin.Context) (billing.DocumentType, bool) {
	docType := billing.DocumentType(c.Param("type"))
	return docType, docType.IsValid()
}

// parseVendorQuery parses the optional vendor_id query parameter
func parseVendorQuery(c *gin.Context) (*uuid.UUID, error) {
	raw := c.Query("vendor_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ListConfigs handles GET /document-numbers/configs
func (h *DocumentNumberHandler) ListConfigs(c *gin.Context) {
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

	configs, err := h.numbers.ListConfigs(c.Request.Context(), principal, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, configs)
}

// UpsertConfig handles PUT /document-numbers/configs
func (h *DocumentNumberHandler) UpsertConfig(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}

	var req appbilling.UpsertDocNumberConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.numbers.UpsertConfig(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteConfig handles DELETE /document-numbers/configs/:type
func (h *DocumentNumberHandler) DeleteConfig(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	docType, valid := parseDocType(c)
	if !valid {
		h.BadRequest(c, "Unknown document type")
		return
	}
	vendorID, err := parseVendorQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	if err := h.numbers.DeleteConfig(c.Request.Context(), principal, vendorID, docType); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Preview handles GET /document-numbers/preview/:type. The preview
// never consumes a number.
func (h *DocumentNumberHandler) Preview(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	docType, valid := parseDocType(c)
	if !valid {
		h.BadRequest(c, "Unknown document type")
		return
	}
	vendorID, err := parseVendorQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	resp, err := h.numbers.Preview(c.Request.Context(), principal, vendorID, docType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
