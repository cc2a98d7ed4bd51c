package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chainvault/chainvault-api/internal/logger"
	"github.com/chainvault/chainvault-api/internal/registry"
	"github.com/chainvault/chainvault-api/internal/vault"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	registry *registry.Registry
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(reg *registry.Registry) *CommonServices {
	return &CommonServices{registry: reg}
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleRegistryError maps registry errors to HTTP status codes. Crypto
// failures and store failures are reported as opaque 500s.
func handleRegistryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrInvalidProvider):
		sendError(c, http.StatusBadRequest, "Invalid wallet provider", err)
	case errors.Is(err, registry.ErrDerivationFailed):
		sendError(c, http.StatusBadRequest, "Could not derive wallet address", err)
	case errors.Is(err, registry.ErrNoActiveRecord):
		sendError(c, http.StatusNotFound, "No wallet found for user", err)
	case vault.IsCryptoError(err, vault.MalformedBlob),
		vault.IsCryptoError(err, vault.AuthenticationFailed),
		vault.IsCryptoError(err, vault.PrimitiveError):
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendSuccessMessage is a helper function that sends a success message
func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, SuccessResponse{Message: message})
}
