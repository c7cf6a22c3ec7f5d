package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openfleet/fleettrack/cli/tracker/domain"
	"github.com/openfleet/fleettrack/cli/tracker/storage"
)

type Handler struct {
	Submit *domain.SubmitUpdate
	Query  *domain.GetVehicles
}

func NewHandler(submit *domain.SubmitUpdate, query *domain.GetVehicles) *Handler {
	return &Handler{Submit: submit, Query: query}
}

// SubmitUpdate handles POST /vehicles. The wire contract keeps the legacy
// bodies: 401 {"error":"No token"} without an Authorization header and
// 401 {"error":"Invalid token"} on a rejected credential. Payload problems
// answer 400 instead of being collapsed into 401.
func (h *Handler) SubmitUpdate(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token"})
		return
	}

	request := domain.UpdateRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	stored, err := h.Submit.Run(c.Request.Context(), token, request)
	if err != nil {
		status, body := submitErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, stored)
}

// GetVehicles handles GET /vehicles. No auth by design.
func (h *Handler) GetVehicles(c *gin.Context) {
	vehicles, err := h.Query.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func submitErrorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, domain.ErrNoToken):
		return http.StatusUnauthorized, gin.H{"error": "No token"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, gin.H{"error": "Invalid token"}
	case errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadRequest, gin.H{"error": "Invalid payload"}
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, gin.H{"error": "Verifier timeout"}
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable, gin.H{"error": "Storage unavailable"}
	default:
		return http.StatusInternalServerError, gin.H{"error": err.Error()}
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
