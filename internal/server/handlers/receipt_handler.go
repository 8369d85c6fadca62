package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/service/ledger"
)

// ReceiptHandler exposes donation-receipt intake and maintenance.
type ReceiptHandler struct {
	svc    *ledger.Service
	logger *zap.Logger
}

// NewReceiptHandler constructs the HTTP handler adapter.
func NewReceiptHandler(svc *ledger.Service, logger *zap.Logger) *ReceiptHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptHandler{svc: svc, logger: logger}
}

type receiveRequest struct {
	OwnerID           string           `json:"ownerId" binding:"required"`
	CollectionPointID string           `json:"collectionPointId"`
	Items             []ledger.NewItem `json:"items" binding:"required"`
}

// Receive finalizes an intake session into one receipt.
func (h *ReceiptHandler) Receive(c *gin.Context) {
	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid intake payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	receipt, err := h.svc.Receive(c.Request.Context(), req.OwnerID, req.CollectionPointID, req.Items)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// List returns every receipt of the requesting owner.
func (h *ReceiptHandler) List(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	receipts, err := h.svc.Receipts(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, receipts)
}

// Get returns a single receipt.
func (h *ReceiptHandler) Get(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	receipt, err := h.svc.Receipt(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// Delete removes a whole receipt.
func (h *ReceiptHandler) Delete(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	if err := h.svc.DeleteReceipt(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type editEntryRequest struct {
	OwnerID string             `json:"ownerId" binding:"required"`
	Entry   ledger.EntryUpdate `json:"entry" binding:"required"`
}

// EditEntry replaces the fields of one line-entry in place.
func (h *ReceiptHandler) EditEntry(c *gin.Context) {
	var req editEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid entry edit payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	receipt, err := h.svc.EditEntry(c.Request.Context(), req.OwnerID, c.Param("id"), c.Param("entryId"), req.Entry)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}
