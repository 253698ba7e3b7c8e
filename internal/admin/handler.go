package admin

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homematch/landlord-portal/landlord-portal-backend/internal/auth"
	"homematch/landlord-portal/landlord-portal-backend/internal/verification"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/verification-requests")
	{
		reviews.GET("", h.List)
		reviews.GET("/by-landlord", h.ListGrouped)
		reviews.POST("/:id/approve", h.Approve)
		reviews.POST("/:id/reject", h.Reject)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := verification.ListFilter{
		Status: c.DefaultQuery("status", "ALL"),
		Search: c.Query("search"),
	}
	entries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) ListGrouped(c *gin.Context) {
	filter := verification.ListFilter{
		Status: c.DefaultQuery("status", "ALL"),
		Search: c.Query("search"),
	}
	groups, err := h.service.GroupedByLandlord(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, groups)
}

type decisionPayload struct {
	Note string `json:"note"`
}

type decisionFunc func(ctx context.Context, reviewerID, requestID uuid.UUID, note string) (*verification.VerificationRequest, error)

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *Handler) decide(c *gin.Context, apply decisionFunc) {
	session, err := auth.SessionFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	var payload decisionPayload
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	updated, err := apply(c.Request.Context(), session.UserID, requestID, payload.Note)
	switch {
	case errors.Is(err, verification.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
	case errors.Is(err, verification.ErrGating):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "required documents missing", "code": "GATING_ERROR"})
	case errors.Is(err, verification.ErrStaleState):
		c.JSON(http.StatusConflict, gin.H{"error": "request already decided", "code": "STALE_STATE"})
	case errors.Is(err, verification.ErrNoteRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "note is required"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, updated)
	}
}
