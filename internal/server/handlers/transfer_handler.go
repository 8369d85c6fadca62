package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/service/transfer"
)

// TransferHandler exposes outbound donations and their history.
type TransferHandler struct {
	svc    *transfer.Service
	logger *zap.Logger
}

// NewTransferHandler constructs the HTTP handler adapter.
func NewTransferHandler(svc *transfer.Service, logger *zap.Logger) *TransferHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferHandler{svc: svc, logger: logger}
}

type donateRequest struct {
	OwnerID       string                 `json:"ownerId" binding:"required"`
	DestinationID string                 `json:"destinationId" binding:"required"`
	Items         []transfer.ItemRequest `json:"items" binding:"required"`
}

// Donate withdraws the requested items and appends a realized transfer.
func (h *TransferHandler) Donate(c *gin.Context) {
	var req donateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid donation payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Donate(c.Request.Context(), req.OwnerID, req.DestinationID, req.Items)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// History returns the owner's realized transfers.
func (h *TransferHandler) History(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	transfers, err := h.svc.History(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, transfers)
}
