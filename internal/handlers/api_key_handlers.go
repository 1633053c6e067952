package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/models"
	"vendor-backend/internal/services"
)

type APIKeyHandler struct {
	service services.APIKeyService
}

func NewAPIKeyHandler(service services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{service: service}
}

// CreateAPIKey issues a new API key. The plain key is only returned here.
// @Summary Issue an API key
// @Tags api-keys
// @Accept json
// @Produce json
// @Param key body models.CreateAPIKeyRequest true "Key name"
// @Success 201 {object} models.APIKeyResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/api-keys [post]
func (h *APIKeyHandler) CreateAPIKey(c *gin.Context) {
	var req models.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	key, err := h.service.CreateAPIKey(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, models.APIKeyResponse{
		Success: true,
		Data:    key,
	})
}

// ListAPIKeys lists issued API keys without their secrets
// @Summary List API keys
// @Tags api-keys
// @Produce json
// @Success 200 {object} models.APIKeyListResponse
// @Security ApiKeyAuth
// @Router /v1/api-keys [get]
func (h *APIKeyHandler) ListAPIKeys(c *gin.Context) {
	keys, err := h.service.ListAPIKeys(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.APIKeyListResponse{
		Success: true,
		Data:    keys,
	})
}

// RevokeAPIKey deactivates an API key
// @Summary Revoke API key
// @Tags api-keys
// @Produce json
// @Param id path int true "API key ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/api-keys/{id} [delete]
func (h *APIKeyHandler) RevokeAPIKey(c *gin.Context) {
	id, ok := parseID(c, "id", "API key")
	if !ok {
		return
	}

	if err := h.service.RevokeAPIKey(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "REVOKE_FAILED")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "API key revoked",
	})
}
