package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/vendorbill/backend/internal/application/billing"
	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/interfaces/http/dto"
)

// BillingNoteHandler handles billing note API endpoints
type BillingNoteHandler struct {
	BaseHandler
	notes *appbilling.BillingNoteService
}

// NewBillingNoteHandler creates a new BillingNoteHandler
func NewBillingNoteHandler(notes *appbilling.BillingNoteService) *BillingNoteHandler {
	return &BillingNoteHandler{notes: notes}
}

// RegisterRoutes registers billing note routes on the given router group
func (h *BillingNoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notes := rg.Group("/billing-notes")
	{
		notes.POST("", h.Create)
		notes.POST("/preview", h.Preview)
		notes.GET("", h.List)
		notes.GET("/:id", h.Get)
		notes.PUT("/:id", h.Edit)
		notes.DELETE("/:id", h.Cancel)
		notes.PATCH("/:id/status", h.UpdateStatus)
	}
}

// Preview handles POST /billing-notes/preview, a read-only tax
// calculation
func (h *BillingNoteHandler) Preview(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}

	var req appbilling.CalculatePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.notes.CalculatePreview(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /billing-notes
func (h *BillingNoteHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}

	var req appbilling.CreateBillingNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.notes.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /billing-notes/:id
func (h *BillingNoteHandler) Get(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid billing note ID")
		return
	}

	resp, err := h.notes.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /billing-notes
func (h *BillingNoteHandler) List(c *gin.Context) {
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

	var status *billing.BillingNoteStatus
	if req.Status != "" {
		s := billing.BillingNoteStatus(req.Status)
		if !s.IsValid() {
			h.BadRequest(c, "Unknown billing note status")
			return
		}
		status = &s
	}

	page, err := h.notes.List(c.Request.Context(), principal, vendorID, status, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// Edit handles PUT /billing-notes/:id, replacing the note's job set
func (h *BillingNoteHandler) Edit(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid billing note ID")
		return
	}

	var req appbilling.EditBillingNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.notes.Edit(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles DELETE /billing-notes/:id
func (h *BillingNoteHandler) Cancel(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid billing note ID")
		return
	}

	if err := h.notes.Cancel(c.Request.Context(), principal, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateStatus handles PATCH /billing-notes/:id/status
func (h *BillingNoteHandler) UpdateStatus(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid billing note ID")
		return
	}

	var req appbilling.UpdateBillingNoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.notes.UpdateStatus(c.Request.Context(), principal, id, billing.BillingNoteStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
