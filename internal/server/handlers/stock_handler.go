package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/domain/models"
	"github.com/joaofarias/doafacil/internal/service/ledger"
	"github.com/joaofarias/doafacil/internal/service/stock"
)

// StockHandler exposes the live stock view and direct withdrawals.
type StockHandler struct {
	stockSvc  *stock.Service
	ledgerSvc *ledger.Service
	logger    *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(stockSvc *stock.Service, ledgerSvc *ledger.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{stockSvc: stockSvc, ledgerSvc: ledgerSvc, logger: logger}
}

type stockResponse struct {
	OwnerID string               `json:"ownerId"`
	Entries []models.StockEntry  `json:"entries"`
	Totals  []stockTotalResponse `json:"totals"`
}

type stockTotalResponse struct {
	Identity models.ItemIdentity `json:"identity"`
	Quantity int                 `json:"quantity"`
}

// View returns the owner's aggregated stock.
func (h *StockHandler) View(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	view, err := h.stockSvc.StockView(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := stockResponse{OwnerID: view.OwnerID, Entries: view.Entries}
	for identity, total := range view.Totals() {
		resp.Totals = append(resp.Totals, stockTotalResponse{Identity: identity, Quantity: total})
	}
	c.JSON(http.StatusOK, resp)
}

type withdrawRequest struct {
	OwnerID  string              `json:"ownerId" binding:"required"`
	Identity models.ItemIdentity `json:"identity" binding:"required"`
	Quantity int                 `json:"quantity" binding:"required"`
}

// Withdraw removes quantity of one stock-keeping unit from the ledger.
func (h *StockHandler) Withdraw(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid withdrawal payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.ledgerSvc.Withdraw(c.Request.Context(), req.OwnerID, req.Identity, req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
