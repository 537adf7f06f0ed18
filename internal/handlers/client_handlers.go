package handlers

import (
	"errors"
	"net/http"

	"avaliaja_backend/internal/middleware"
	"avaliaja_backend/internal/models"
	"avaliaja_backend/internal/services"
	"avaliaja_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// CreateClient handles the registration of a newly served client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(accountID, req)
	if err != nil {
		utils.LogError(err, "CreateClient: Error from clientService.CreateClient")
		if errors.Is(err, services.ErrPhoneNumberExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodePhoneExists, "This phone number is already registered.", err.Error()))
		} else if errors.Is(err, services.ErrClientValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients handles listing all of the account's clients.
func (h *ClientHandler) GetClients(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	clients, err := h.clientService.GetClients(accountID)
	if err != nil {
		utils.LogError(err, "GetClients: Error from clientService.GetClients")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch clients.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// GetClientByID handles fetching a single client.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	clientID := c.Param("id")
	client, err := h.clientService.GetClientByID(accountID, clientID)
	if err != nil {
		utils.LogError(err, "GetClientByID: Error from clientService.GetClientByID for ID "+clientID)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// RequestReview handles generating the wa.me link and marking the client as
// sent, surfacing each policy rejection with its own error code.
func (h *ClientHandler) RequestReview(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	clientID := c.Param("id")
	result, err := h.clientService.RequestReview(accountID, clientID)
	if err != nil {
		utils.LogError(err, "RequestReview: Error from clientService.RequestReview for ID "+clientID)
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		case errors.Is(err, models.ErrReviewAlreadySent):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeAlreadySent, "This client already received the review link.", err.Error()))
		case errors.Is(err, models.ErrClientComplained):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeClientComplained, "Clients who complained cannot receive review requests.", err.Error()))
		case errors.Is(err, services.ErrBusinessNotConfigured):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeBusinessNotConfigured, "Configure your business before requesting reviews.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to request review.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// MarkReviewed handles confirming a manual review.
func (h *ClientHandler) MarkReviewed(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	clientID := c.Param("id")
	client, err := h.clientService.MarkReviewed(accountID, clientID)
	if err != nil {
		utils.LogError(err, "MarkReviewed: Error from clientService.MarkReviewed for ID "+clientID)
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		case errors.Is(err, models.ErrReviewNotSent):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeInvalidStatus, "Only clients who received the link can be marked as reviewed.", err.Error()))
		case errors.Is(err, services.ErrTransitionConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Client status changed concurrently. Refresh and try again.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to mark client as reviewed.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// GetMetrics handles the dashboard aggregation.
func (h *ClientHandler) GetMetrics(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	metrics, err := h.clientService.GetMetrics(accountID)
	if err != nil {
		utils.LogError(err, "GetMetrics: Error from clientService.GetMetrics")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch metrics.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, metrics)
}
