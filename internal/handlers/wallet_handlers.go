package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chainvault/chainvault-api/internal/registry"
	"github.com/chainvault/chainvault-api/internal/vault"
)

// WalletHandler handles wallet credential operations
type WalletHandler struct {
	common *CommonServices
}

// NewWalletHandler creates a new WalletHandler instance
func NewWalletHandler(common *CommonServices) *WalletHandler {
	return &WalletHandler{common: common}
}

// RegisterWalletRequest represents the request body for registering a wallet provider
type RegisterWalletRequest struct {
	Kind           string `json:"kind" binding:"required"`
	SecretKey      string `json:"secret_key" binding:"required"`
	RPCEndpoint    string `json:"rpc_endpoint" binding:"required"`
	CommerceAPIKey string `json:"commerce_api_key,omitempty"`
	Address        string `json:"address,omitempty"`
	ChainID        *int64 `json:"chain_id,omitempty"`
}

// UpdateWalletRequest represents a partial update to a registered wallet.
// Absent fields are left unchanged.
type UpdateWalletRequest struct {
	SecretKey      *string `json:"secret_key,omitempty"`
	RPCEndpoint    *string `json:"rpc_endpoint,omitempty"`
	CommerceAPIKey *string `json:"commerce_api_key,omitempty"`
	Address        *string `json:"address,omitempty"`
	ChainID        *int64  `json:"chain_id,omitempty"`
}

// WalletResponse represents the API response for wallet credential reads
type WalletResponse struct {
	UserID         string `json:"user_id"`
	Object         string `json:"object"`
	Kind           string `json:"kind"`
	SecretKey      string `json:"secret_key"`
	RPCEndpoint    string `json:"rpc_endpoint"`
	CommerceAPIKey string `json:"commerce_api_key,omitempty"`
	Address        string `json:"address,omitempty"`
	ChainID        *int64 `json:"chain_id,omitempty"`
}

// ExistsResponse reports whether a user has an active wallet
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

func toWalletResponse(userID string, p *registry.WalletProvider) WalletResponse {
	return WalletResponse{
		UserID:         userID,
		Object:         "wallet",
		Kind:           string(p.Kind),
		SecretKey:      p.SecretKey,
		RPCEndpoint:    p.RPCEndpoint,
		CommerceAPIKey: p.CommerceAPIKey,
		Address:        p.Address,
		ChainID:        p.ChainID,
	}
}

// userIDParam validates the route's user identifier. An empty return means
// the request has already been answered with a 400.
func userIDParam(c *gin.Context) string {
	userID := c.Param("userID")
	if !vault.ValidateUserID(userID) {
		sendError(c, http.StatusBadRequest, "Invalid user ID", nil)
		return ""
	}
	return userID
}

// RegisterWallet godoc
// @Summary Register a wallet provider
// @Description Stores a user's wallet credentials encrypted at rest, deriving the public address when absent
// @Tags wallets
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body RegisterWalletRequest true "Wallet provider registration request"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /wallets/{userID} [post]
func (h *WalletHandler) RegisterWallet(c *gin.Context) {
	userID := userIDParam(c)
	if userID == "" {
		return
	}

	var req RegisterWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	provider := registry.WalletProvider{
		Kind:           vault.Chain(req.Kind),
		SecretKey:      req.SecretKey,
		RPCEndpoint:    req.RPCEndpoint,
		CommerceAPIKey: req.CommerceAPIKey,
		Address:        req.Address,
		ChainID:        req.ChainID,
	}

	if !h.common.registry.ValidateProvider(provider) {
		sendError(c, http.StatusBadRequest, "Invalid wallet provider", registry.ErrInvalidProvider)
		return
	}

	if err := h.common.registry.Register(c.Request.Context(), userID, provider); err != nil {
		handleRegistryError(c, err)
		return
	}

	sendSuccessMessage(c, http.StatusCreated, "Wallet registered")
}

// GetWallet godoc
// @Summary Get a user's wallet credentials
// @Description Returns the user's active wallet credentials, decrypted
// @Tags wallets
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} WalletResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /wallets/{userID} [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := userIDParam(c)
	if userID == "" {
		return
	}

	provider, err := h.common.registry.Get(c.Request.Context(), userID)
	if err != nil {
		handleRegistryError(c, err)
		return
	}
	if provider == nil {
		sendError(c, http.StatusNotFound, "No wallet found for user", nil)
		return
	}

	sendSuccess(c, http.StatusOK, toWalletResponse(userID, provider))
}

// WalletExists godoc
// @Summary Check whether a user has an active wallet
// @Description Reports wallet presence without touching credentials
// @Tags wallets
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} ExistsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /wallets/{userID}/exists [get]
func (h *WalletHandler) WalletExists(c *gin.Context) {
	userID := userIDParam(c)
	if userID == "" {
		return
	}

	exists, err := h.common.registry.Has(c.Request.Context(), userID)
	if err != nil {
		handleRegistryError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, ExistsResponse{Exists: exists})
}

// UpdateWallet godoc
// @Summary Update a user's wallet credentials
// @Description Applies a partial update to the user's active wallet, re-encrypting secret fields
// @Tags wallets
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body UpdateWalletRequest true "Wallet update request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /wallets/{userID} [patch]
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	userID := userIDParam(c)
	if userID == "" {
		return
	}

	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	params := registry.UpdateParams{
		SecretKey:      req.SecretKey,
		RPCEndpoint:    req.RPCEndpoint,
		CommerceAPIKey: req.CommerceAPIKey,
		Address:        req.Address,
		ChainID:        req.ChainID,
	}

	if err := h.common.registry.Update(c.Request.Context(), userID, params); err != nil {
		handleRegistryError(c, err)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "Wallet updated")
}

// RemoveWallet godoc
// @Summary Retire a user's wallet
// @Description Deactivates the user's wallet record; historical records are retained
// @Tags wallets
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /wallets/{userID} [delete]
func (h *WalletHandler) RemoveWallet(c *gin.Context) {
	userID := userIDParam(c)
	if userID == "" {
		return
	}

	removed, err := h.common.registry.Remove(c.Request.Context(), userID)
	if err != nil {
		handleRegistryError(c, err)
		return
	}
	if !removed {
		sendError(c, http.StatusNotFound, "No wallet found for user", nil)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "Wallet removed")
}

// WalletStats godoc
// @Summary Wallet registry stats
// @Description Returns total and active wallet record counts
// @Tags wallets
// @Accept json
// @Produce json
// @Success 200 {object} registry.RegistryStats
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /wallets/stats [get]
func (h *WalletHandler) WalletStats(c *gin.Context) {
	stats, err := h.common.registry.Stats(c.Request.Context())
	if err != nil {
		handleRegistryError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, stats)
}
