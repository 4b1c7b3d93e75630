package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/vendorbill/backend/internal/application/billing"
	"github.com/vendorbill/backend/internal/interfaces/http/dto"
)

// ReceiptHandler handles receipt API endpoints
type ReceiptHandler struct {
	BaseHandler
	receipts *appbilling.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receipts *appbilling.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// RegisterRoutes registers receipt routes on the given router group
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.Create)
		receipts.GET("", h.List)
		receipts.GET("/:id", h.Get)
		receipts.DELETE("/:id", h.Delete)
		receipts.PATCH("/:id/status", h.UpdateStatus)
	}
}

// Create handles POST /receipts
func (h *ReceiptHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}

	var req appbilling.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.receipts.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	resp, err := h.receipts.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	vendorID, err := vendorParam(req)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	page, err := h.receipts.List(c.Request.Context(), principal, vendorID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// Delete handles DELETE /receipts/:id, removing the receipt and
// reverting its billing note
func (h *ReceiptHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.receipts.Delete(c.Request.Context(), principal, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateStatus handles PATCH /receipts/:id/status
func (h *ReceiptHandler) UpdateStatus(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req appbilling.UpdateReceiptStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.receipts.UpdateStatus(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
