package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/vendorbill/backend/internal/application/billing"
	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/interfaces/http/dto"
)

// PaymentVoucherHandler handles payment voucher API endpoints
type PaymentVoucherHandler struct {
	BaseHandler
	vouchers *appbilling.PaymentVoucherService
}

// NewPaymentVoucherHandler creates a new PaymentVoucherHandler
func NewPaymentVoucherHandler(vouchers *appbilling.PaymentVoucherService) *PaymentVoucherHandler {
	return &PaymentVoucherHandler{vouchers: vouchers}
}

// RegisterRoutes registers payment voucher routes on the given router
// group
func (h *PaymentVoucherHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vouchers := rg.Group("/payment-vouchers")
	{
		vouchers.POST("", h.Create)
		vouchers.GET("", h.List)
		vouchers.GET("/:id", h.Get)
		vouchers.DELETE("/:id", h.Cancel)
		vouchers.PATCH("/:id/status", h.UpdateStatus)
	}
}

// Create handles POST /payment-vouchers
func (h *PaymentVoucherHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}

	var req appbilling.CreatePaymentVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.vouchers.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /payment-vouchers/:id
func (h *PaymentVoucherHandler) Get(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	resp, err := h.vouchers.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /payment-vouchers
func (h *PaymentVoucherHandler) List(c *gin.Context) {
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

	var status *billing.VoucherStatus
	if req.Status != "" {
		s := billing.VoucherStatus(req.Status)
		if !s.IsValid() {
			h.BadRequest(c, "Unknown voucher status")
			return
		}
		status = &s
	}

	page, err := h.vouchers.List(c.Request.Context(), principal, vendorID, status, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// Cancel handles DELETE /payment-vouchers/:id
func (h *PaymentVoucherHandler) Cancel(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	if err := h.vouchers.Cancel(c.Request.Context(), principal, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateStatus handles PATCH /payment-vouchers/:id/status
func (h *PaymentVoucherHandler) UpdateStatus(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	var req appbilling.UpdateVoucherStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.vouchers.UpdateStatus(c.Request.Context(), principal, id, billing.VoucherStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
