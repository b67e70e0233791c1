package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/audit"
	"github.com/tradebot/gobinance/internal/domain"
	"github.com/tradebot/gobinance/internal/metrics"
	"github.com/tradebot/gobinance/internal/ports"
)

var olog = logrus.WithField("component", "order_service")

// OrderService is the single entry point for order mutation. It validates
// before any network call, serializes mutating gateway access for one
// credential set, records every exchange-bound attempt in the audit trail,
// and never retries on its own. Exchange state is never cached locally: every
// status answer comes from a fresh gateway call.
type OrderService struct {
	mu      sync.Mutex
	gateway ports.OrderGateway
	trail   ports.AuditSink
}

func NewOrderService(gateway ports.OrderGateway, trail ports.AuditSink) *OrderService {
	return &OrderService{gateway: gateway, trail: trail}
}

// PlaceMarketOrder submits a market order. Validation failures return before
// any gateway or audit activity.
func (s *OrderService) PlaceMarketOrder(ctx context.Context, symbol string, side types.Side, quantity decimal.Decimal) (*domain.Order, error) {
	req := domain.NewMarketOrderRequest(symbol, side, quantity)
	return s.place(ctx, req, audit.OpSubmitMarket)
}

// PlaceLimitOrder submits a GTC limit order.
func (s *OrderService) PlaceLimitOrder(ctx context.Context, symbol string, side types.Side, quantity, price decimal.Decimal) (*domain.Order, error) {
	req := domain.NewLimitOrderRequest(symbol, side, quantity, price)
	return s.place(ctx, req, audit.OpSubmitLimit)
}

func (s *OrderService) place(ctx context.Context, req domain.OrderRequest, op string) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		metrics.ValidationRejects.Add(1)
		olog.Warnf("order rejected locally: %v", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.gateway.SubmitOrder(ctx, req)
	s.recordSubmit(ctx, op, req, order, err)
	if err != nil {
		var orderErr *domain.OrderError
		if errors.As(err, &orderErr) {
			metrics.OrdersRejected.Add(1)
			olog.Warnf("order rejected by exchange: symbol=%s %v", req.Symbol, err)
		} else {
			metrics.APIFailures.Add(1)
			olog.Errorf("order submission failed: symbol=%s %v", req.Symbol, err)
		}
		return nil, err
	}

	metrics.OrdersSubmitted.Add(1)
	olog.Infof("order placed: symbol=%s side=%s type=%s orderId=%d status=%s",
		order.Symbol, order.Side, order.Kind, order.OrderID, order.Status)
	return order, nil
}

// QueryStatus reads one order fresh from the exchange. The returned status is
// reported as-is, never reconciled against earlier answers.
func (s *OrderService) QueryStatus(ctx context.Context, symbol string, orderID int64) (*domain.Order, error) {
	metrics.StatusQueries.Add(1)
	return s.gateway.GetOrder(ctx, symbol, orderID)
}

// ListOpenOrders lists working orders, optionally scoped to one symbol.
func (s *OrderService) ListOpenOrders(ctx context.Context, symbol string) ([]*domain.Order, error) {
	metrics.OpenOrderListings.Add(1)
	return s.gateway.ListOpenOrders(ctx, symbol)
}

// CancelOrder cancels one order. When the exchange rejects the cancel, the
// order is re-queried: a terminal state means the cancel raced a fill or an
// earlier cancel, which callers see as ORDER_ALREADY_TERMINAL rather than a
// generic rejection.
func (s *OrderService) CancelOrder(ctx context.Context, symbol string, orderID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.gateway.CancelOrder(ctx, symbol, orderID)
	if err == nil {
		s.recordCancel(ctx, symbol, orderID, order, nil)
		metrics.OrdersCanceled.Add(1)
		olog.Infof("order canceled: symbol=%s orderId=%d status=%s", symbol, orderID, order.Status)
		return order, nil
	}

	var orderErr *domain.OrderError
	if errors.As(err, &orderErr) {
		if current, qErr := s.gateway.GetOrder(ctx, symbol, orderID); qErr == nil && current.IsTerminal() {
			err = &domain.OrderError{
				Kind: domain.OrderAlreadyTerminal,
				Code: orderErr.Code,
				Msg:  "order already in terminal state " + string(current.Status),
			}
			metrics.CancelAlreadyDone.Add(1)
		}
	} else {
		metrics.APIFailures.Add(1)
	}

	s.recordCancel(ctx, symbol, orderID, nil, err)
	olog.Warnf("cancel failed: symbol=%s orderId=%d %v", symbol, orderID, err)
	return nil, err
}

func (s *OrderService) recordSubmit(ctx context.Context, op string, req domain.OrderRequest, order *domain.Order, opErr error) {
	params := map[string]string{
		"symbol":   req.Symbol,
		"side":     string(req.Side),
		"type":     string(req.Kind),
		"quantity": req.Quantity.String(),
	}
	if req.Price != nil {
		params["price"] = req.Price.String()
	}
	raw, _ := json.Marshal(params)

	entry := audit.Entry{
		Operation: op,
		Symbol:    req.Symbol,
		Params:    raw,
	}
	switch {
	case opErr == nil:
		entry.Outcome = audit.OutcomeAccepted
		entry.OrderID = order.OrderID
	default:
		var orderErr *domain.OrderError
		if errors.As(opErr, &orderErr) {
			entry.Outcome = audit.OutcomeRejected
		} else {
			entry.Outcome = audit.OutcomeFailed
		}
		entry.Error = opErr.Error()
	}
	s.append(ctx, entry)
}

func (s *OrderService) recordCancel(ctx context.Context, symbol string, orderID int64, order *domain.Order, opErr error) {
	raw, _ := json.Marshal(map[string]int64{"order_id": orderID})

	entry := audit.Entry{
		Operation: audit.OpCancel,
		Symbol:    symbol,
		Params:    raw,
		OrderID:   orderID,
	}
	switch {
	case opErr == nil:
		entry.Outcome = audit.OutcomeAccepted
		if order != nil {
			entry.OrderID = order.OrderID
		}
	default:
		var orderErr *domain.OrderError
		if errors.As(opErr, &orderErr) {
			entry.Outcome = audit.OutcomeRejected
		} else {
			entry.Outcome = audit.OutcomeFailed
		}
		entry.Error = opErr.Error()
	}
	s.append(ctx, entry)
}

// append never fails the trading operation: a broken audit store is logged
// and counted, the order result still flows back to the caller.
func (s *OrderService) append(ctx context.Context, entry audit.Entry) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Record(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Add(1)
		olog.Errorf("audit write failed: %v", err)
	}
}
