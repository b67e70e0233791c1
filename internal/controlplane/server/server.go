package server

import (
	"errors"
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tradebot/gobinance/internal/audit"
	"github.com/tradebot/gobinance/internal/domain"
	"github.com/tradebot/gobinance/internal/services"
)

var log = logrus.WithField("component", "controlplane")

// Server exposes the trading core over HTTP: account and price reads, order
// placement, status, cancel, open-order listing, and the audit trail. It owns
// no trading state of its own.
type Server struct {
	orders   *services.OrderService
	accounts *services.AccountService
	trail    *audit.Log
}

func New(orders *services.OrderService, accounts *services.AccountService, trail *audit.Log) *Server {
	return &Server{orders: orders, accounts: accounts, trail: trail}
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))

	api := r.Group("/api")
	api.GET("/balance", s.handleBalance)
	api.GET("/price/:symbol", s.handlePrice)

	orders := api.Group("/orders")
	orders.POST("", s.handleOrderCreate)
	orders.GET("/open", s.handleOpenOrders)
	orders.GET("/:symbol/:orderId", s.handleOrderGet)
	orders.DELETE("/:symbol/:orderId", s.handleOrderCancel)

	api.GET("/audit", s.handleAuditList)

	return r
}

// writeError maps the error taxonomy onto HTTP. The kind string in the body
// is the stable contract; status codes follow it.
func writeError(c *gin.Context, err error) {
	var (
		valErr  *domain.ValidationError
		ordErr  *domain.OrderError
		apiErr  *domain.APIError
		connErr *domain.ConnectivityError
	)

	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"kind": string(valErr.Kind), "message": valErr.Msg},
		})
	case errors.As(err, &ordErr):
		status := http.StatusUnprocessableEntity
		if ordErr.Kind == domain.OrderAlreadyTerminal {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": gin.H{"kind": string(ordErr.Kind), "code": ordErr.Code, "message": ordErr.Msg},
		})
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		switch apiErr.Kind {
		case domain.APITimeout:
			status = http.StatusGatewayTimeout
		case domain.APIRateLimited:
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{
			"error": gin.H{"kind": string(apiErr.Kind), "code": apiErr.Code, "message": apiErr.Msg},
		})
	case errors.As(err, &connErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{"kind": "CONNECTIVITY", "message": err.Error()},
		})
	default:
		log.Errorf("unclassified error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"kind": "INTERNAL", "message": err.Error()},
		})
	}
}
