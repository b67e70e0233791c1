package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/domain"
)

func (s *Server) handleBalance(c *gin.Context) {
	snap, err := s.accounts.GetBalance(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_wallet_balance": snap.TotalWalletBalance.String(),
	})
}

func (s *Server) handlePrice(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	quote, err := s.accounts.GetPrice(c.Request.Context(), symbol)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol": quote.Symbol,
		"price":  quote.Price.String(),
	})
}

type orderCreateRequest struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Type     string `json:"type"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

func (s *Server) handleOrderCreate(c *gin.Context) {
	var req orderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"kind": "BAD_REQUEST", "message": "invalid JSON body: " + err.Error()},
		})
		return
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		writeError(c, &domain.ValidationError{Kind: domain.InvalidQuantity, Msg: "quantity must be a decimal number"})
		return
	}
	side := types.Side(strings.ToUpper(req.Side))

	var order *domain.Order
	switch strings.ToUpper(req.Type) {
	case string(types.OrderKindMarket), "":
		order, err = s.orders.PlaceMarketOrder(c.Request.Context(), req.Symbol, side, quantity)
	case string(types.OrderKindLimit):
		var price decimal.Decimal
		price, err = decimal.NewFromString(req.Price)
		if err != nil {
			writeError(c, &domain.ValidationError{Kind: domain.InvalidPrice, Msg: "price must be a decimal number"})
			return
		}
		order, err = s.orders.PlaceLimitOrder(c.Request.Context(), req.Symbol, side, quantity, price)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"kind": "BAD_REQUEST", "message": "type must be MARKET or LIMIT"},
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderView(order))
}

func (s *Server) handleOrderGet(c *gin.Context) {
	symbol, orderID, ok := orderPath(c)
	if !ok {
		return
	}
	order, err := s.orders.QueryStatus(c.Request.Context(), symbol, orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderView(order))
}

func (s *Server) handleOrderCancel(c *gin.Context) {
	symbol, orderID, ok := orderPath(c)
	if !ok {
		return
	}
	order, err := s.orders.CancelOrder(c.Request.Context(), symbol, orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderView(order))
}

func (s *Server) handleOpenOrders(c *gin.Context) {
	symbol := strings.ToUpper(c.Query("symbol"))
	orders, err := s.orders.ListOpenOrders(c.Request.Context(), symbol)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

func (s *Server) handleAuditList(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := s.trail.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func orderPath(c *gin.Context) (string, int64, bool) {
	symbol := strings.ToUpper(c.Param("symbol"))
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"kind": "BAD_REQUEST", "message": "orderId must be a positive integer"},
		})
		return "", 0, false
	}
	return symbol, orderID, true
}

func orderView(o *domain.Order) gin.H {
	view := gin.H{
		"order_id":           o.OrderID,
		"symbol":             o.Symbol,
		"side":               o.Side,
		"type":               o.Kind,
		"status":             o.Status,
		"requested_quantity": o.RequestedQuantity.String(),
		"filled_quantity":    o.FilledQuantity.String(),
		"updated_at":         o.UpdatedAt,
	}
	if o.Price != nil {
		view["price"] = o.Price.String()
	}
	return view
}
