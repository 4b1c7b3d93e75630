package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/vendorbill/backend/internal/application/billing"
	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/interfaces/http/dto"
)

// JobHandler handles job API endpoints
type JobHandler struct {
	BaseHandler
	jobs *appbilling.JobService
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobs *appbilling.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// RegisterRoutes registers job routes on the given router group
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.Create)
		jobs.GET("", h.List)
		jobs.GET("/:id", h.Get)
		jobs.PUT("/:id", h.Update)
		jobs.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}

	var req appbilling.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.jobs.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	resp, err := h.jobs.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /jobs
func (h *JobHandler) List(c *gin.Context) {
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

	var status *billing.JobStatus
	if req.Status != "" {
		s := billing.JobStatus(req.Status)
		if !s.IsValid() {
			h.BadRequest(c, "Unknown job status")
			return
		}
		status = &s
	}

	page, err := h.jobs.List(c.Request.Context(), principal, vendorID, status, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// Update handles PUT /jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	var req appbilling.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.jobs.Update(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), principal, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
