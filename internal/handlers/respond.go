package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vendor-backend/internal/clients"
	"vendor-backend/internal/middleware"
	"vendor-backend/internal/models"
	"vendor-backend/internal/services"
)

const genericUpstreamMessage = "Upstream service request failed"

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
		RequestID: c.GetString(middleware.ContextRequestID),
	})
}

func requestLogger(c *gin.Context) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.ContextRequestID),
		"path":       c.FullPath(),
	})
}

// parseID reads a positive integer path parameter, answering 400 otherwise
func parseID(c *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+label+" ID format")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// respondServiceError maps service errors onto HTTP answers
func respondServiceError(c *gin.Context, err error, fallbackCode string) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.Error())
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrAPIKeyNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrCustomerEmailExists):
		respondError(c, http.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, services.ErrProductNotFound):
		respondError(c, http.StatusBadRequest, "PRODUCT_NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrCatalogUnavailable):
		requestLogger(c).WithError(err).Warn("Catalog lookup failed")
		respondError(c, http.StatusBadGateway, "CATALOG_UNAVAILABLE", services.ErrCatalogUnavailable.Error())
	default:
		requestLogger(c).WithError(err).Error("Request failed")
		respondError(c, http.StatusInternalServerError, fallbackCode, "Internal server error")
	}
}

// respondUpstreamError translates a sibling service failure. Non-2xx answers
// keep their status and message; transport failures and unreadable bodies are 502.
func respondUpstreamError(c *gin.Context, err error) {
	var upstreamErr *clients.UpstreamError
	switch {
	case clients.IsNotFound(err):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.As(err, &upstreamErr) && upstreamErr.StatusCode >= 400:
		message := upstreamErr.Message
		if message == "" {
			message = genericUpstreamMessage
		}
		respondError(c, upstreamErr.StatusCode, "UPSTREAM_ERROR", message)
	default:
		requestLogger(c).WithError(err).Warn("Upstream request failed")
		respondError(c, http.StatusBadGateway, "BAD_GATEWAY", genericUpstreamMessage)
	}
}

// relay writes a successful upstream answer back unchanged
func relay(c *gin.Context, resp *clients.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}
