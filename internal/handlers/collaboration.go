package handlers

import (
	"fmt"
	"net/http"

	"github.com/craftora/collab/internal/middleware"
	"github.com/craftora/collab/internal/models"
	"github.com/craftora/collab/internal/services"
	"github.com/gin-gonic/gin"
)

type CollaborationHandler struct {
	collaborationService *services.CollaborationService
	fulfillmentService   *services.FulfillmentService
}

func NewCollaborationHandler(collaborationService *services.CollaborationService, fulfillmentService *services.FulfillmentService) *CollaborationHandler {
	return &CollaborationHandler{
		collaborationService: collaborationService,
		fulfillmentService:   fulfillmentService,
	}
}

// Create handles collaboration creation with inline requirements
func (h *CollaborationHandler) Create(c *gin.Context) {
	var input services.CreateCollaborationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	view, err := h.collaborationService.Create(middleware.GetActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// List returns all active collaborations
func (h *CollaborationHandler) List(c *gin.Context) {
	views, err := h.collaborationService.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborations": views})
}

// ListMine returns the actor's own collaborations
func (h *CollaborationHandler) ListMine(c *gin.Context) {
	views, err := h.collaborationService.ListByCreator(middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborations": views})
}

// Get returns one collaboration; the creator also sees applications
func (h *CollaborationHandler) Get(c *gin.Context) {
	detail, err := h.collaborationService.Get(c.Param("id"), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

type updateStatusRequest struct {
	Status models.CollaborationStatus `json:"status"`
}

// UpdateStatus moves a collaboration to completed or cancelled
func (h *CollaborationHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	collaboration, err := h.collaborationService.UpdateStatus(c.Param("id"), req.Status, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, collaboration)
}

// Delete removes a collaboration without accepted applications
func (h *CollaborationHandler) Delete(c *gin.Context) {
	if err := h.collaborationService.Delete(c.Param("id"), middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AddRequirement attaches a requirement to an active collaboration
func (h *CollaborationHandler) AddRequirement(c *gin.Context) {
	var spec models.RequirementSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	requirement, err := h.fulfillmentService.AddRequirement(c.Param("id"), spec, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, requirement)
}

// EditRequirement rewrites a requirement's creator-editable fields
func (h *CollaborationHandler) EditRequirement(c *gin.Context) {
	var spec models.RequirementSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	requirement, err := h.fulfillmentService.EditRequirement(c.Param("rid"), spec, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requirement)
}

// DeleteRequirement removes a requirement with no accepted applications
func (h *CollaborationHandler) DeleteRequirement(c *gin.Context) {
	if err := h.fulfillmentService.DeleteRequirement(c.Param("rid"), middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ExportApplications streams the collaboration's applications as xlsx
func (h *CollaborationHandler) ExportApplications(c *gin.Context) {
	f, err := h.collaborationService.ExportApplications(c.Param("id"), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("applications-%s.xlsx", c.Param("id"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
