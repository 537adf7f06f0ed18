package handlers

import (
	"errors"
	"net/http"

	"avaliaja_backend/internal/middleware"
	"avaliaja_backend/internal/services"
	"avaliaja_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BusinessHandler holds the business configuration service.
type BusinessHandler struct {
	businessService services.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(bs services.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: bs}
}

// GetConfig returns the account's business configuration. A missing
// configuration is a distinct NOT_FOUND so the UI can redirect to setup.
func (h *BusinessHandler) GetConfig(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	business, err := h.businessService.GetConfig(accountID)
	if err != nil {
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business configuration not found.", err.Error()))
			return
		}
		utils.LogError(err, "GetConfig: Error from businessService.GetConfig")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch configuration.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, business)
}

// SaveConfig creates or replaces the account's business configuration.
func (h *BusinessHandler) SaveConfig(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	var req services.SaveBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveConfig: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.businessService.SaveConfig(accountID, req)
	if err != nil {
		var fieldErrors services.FieldErrors
		if errors.As(err, &fieldErrors) {
			utils.RespondWithFieldErrors(c, "Invalid configuration data", fieldErrors)
			return
		}
		utils.LogError(err, "SaveConfig: Error from businessService.SaveConfig")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save configuration.", "Internal error"))
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	if result.Warning != "" {
		utils.LogWarn("SaveConfig: default message saved without review link placeholder",
			map[string]interface{}{"account_id": accountID})
		c.JSON(status, gin.H{
			"business": result.Business,
			"warning":  result.Warning,
		})
		return
	}
	c.JSON(status, result.Business)
}

// UpdateConfig applies a partial update to the existing configuration.
func (h *BusinessHandler) UpdateConfig(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return
	}

	var req services.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateConfig: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	business, err := h.businessService.UpdateConfig(accountID, req)
	if err != nil {
		var fieldErrors services.FieldErrors
		switch {
		case errors.Is(err, services.ErrBusinessNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Business configuration not found. Use POST to create it.", err.Error()))
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "No fields to update.", err.Error()))
		case errors.As(err, &fieldErrors):
			utils.RespondWithFieldErrors(c, "Invalid configuration data", fieldErrors)
		default:
			utils.LogError(err, "UpdateConfig: Error from businessService.UpdateConfig")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update configuration.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, business)
}
