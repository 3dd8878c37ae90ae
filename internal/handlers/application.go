package handlers

import (
	"net/http"

	"github.com/craftora/collab/internal/middleware"
	"github.com/craftora/collab/internal/models"
	"github.com/craftora/collab/internal/services"
	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	fulfillmentService   *services.FulfillmentService
	collaborationService *services.CollaborationService
}

func NewApplicationHandler(fulfillmentService *services.FulfillmentService, collaborationService *services.CollaborationService) *ApplicationHandler {
	return &ApplicationHandler{
		fulfillmentService:   fulfillmentService,
		collaborationService: collaborationService,
	}
}

type applyRequest struct {
	Message string `json:"message"`
}

// Apply submits the actor's application to an open requirement
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	application, err := h.fulfillmentService.Apply(c.Param("rid"), middleware.GetActor(c), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// Accept accepts a pending application on behalf of the creator
func (h *ApplicationHandler) Accept(c *gin.Context) {
	h.decide(c, models.DecisionAccept)
}

// Reject rejects a pending application on behalf of the creator
func (h *ApplicationHandler) Reject(c *gin.Context) {
	h.decide(c, models.DecisionReject)
}

func (h *ApplicationHandler) decide(c *gin.Context, decision models.Decision) {
	application, requirement, err := h.fulfillmentService.Decide(
		c.Param("rid"),
		c.Param("aid"),
		decision,
		middleware.GetActor(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"requirement": requirement,
	})
}

// ListByUser returns the applications of one applicant, self only
func (h *ApplicationHandler) ListByUser(c *gin.Context) {
	applications, err := h.collaborationService.ListApplicationsByApplicant(c.Param("uid"), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}
