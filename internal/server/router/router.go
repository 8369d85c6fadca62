package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(
	receipts *handlers.ReceiptHandler,
	stock *handlers.StockHandler,
	transfers *handlers.TransferHandler,
	partners *handlers.PartnerHandler,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/receipts", receipts.Receive)
	r.GET("/receipts", receipts.List)
	r.GET("/receipts/:id", receipts.Get)
	r.DELETE("/receipts/:id", receipts.Delete)
	r.PUT("/receipts/:id/items/:entryId", receipts.EditEntry)

	r.GET("/stock", stock.View)
	r.POST("/stock/withdrawals", stock.Withdraw)

	r.POST("/transfers", transfers.Donate)
	r.GET("/transfers", transfers.History)

	r.POST("/ngos", partners.CreateNGO)
	r.GET("/ngos", partners.ListNGOs)
	r.PUT("/ngos/:id", partners.UpdateNGO)
	r.DELETE("/ngos/:id", partners.DeleteNGO)

	r.POST("/volunteers", partners.CreateVolunteer)
	r.GET("/volunteers", partners.ListVolunteers)
	r.PUT("/volunteers/:id", partners.UpdateVolunteer)
	r.DELETE("/volunteers/:id", partners.DeleteVolunteer)

	r.POST("/collection-points", partners.CreateCollectionPoint)
	r.GET("/collection-points", partners.ListCollectionPoints)
	r.PUT("/collection-points/:id", partners.UpdateCollectionPoint)
	r.DELETE("/collection-points/:id", partners.DeleteCollectionPoint)

	r.GET("/address/:cep", partners.LookupAddress)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
