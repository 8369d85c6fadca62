package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/domain/models"
	"github.com/joaofarias/doafacil/internal/service/ledger"
	"github.com/joaofarias/doafacil/internal/service/transfer"
	"github.com/joaofarias/doafacil/pkg/clients/viacep"
)

// respondError translates service errors into HTTP responses. Anything not
// recognized is treated as a document-store failure: the operation aborted
// where it was and the client decides whether to retry.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrReceiptNotFound),
		errors.Is(err, models.ErrEntryNotFound),
		errors.Is(err, models.ErrPartnerNotFound),
		errors.Is(err, viacep.ErrCEPNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidEntry),
		errors.Is(err, transfer.ErrNoItems),
		errors.Is(err, viacep.ErrInvalidCEP):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed on storage", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage unavailable"})
	}
}
