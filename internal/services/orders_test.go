package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/audit"
	"github.com/tradebot/gobinance/internal/domain"
)

// stubGateway counts calls and answers from function fields.
type stubGateway struct {
	submitCalls int
	getCalls    int
	cancelCalls int
	listCalls   int

	submitFn func(req domain.OrderRequest) (*domain.Order, error)
	getFn    func(symbol string, orderID int64) (*domain.Order, error)
	cancelFn func(symbol string, orderID int64) (*domain.Order, error)
	listFn   func(symbol string) ([]*domain.Order, error)
}

func (g *stubGateway) SubmitOrder(_ context.Context, req domain.OrderRequest) (*domain.Order, error) {
	g.submitCalls++
	return g.submitFn(req)
}

func (g *stubGateway) GetOrder(_ context.Context, symbol string, orderID int64) (*domain.Order, error) {
	g.getCalls++
	return g.getFn(symbol, orderID)
}

func (g *stubGateway) CancelOrder(_ context.Context, symbol string, orderID int64) (*domain.Order, error) {
	g.cancelCalls++
	return g.cancelFn(symbol, orderID)
}

func (g *stubGateway) ListOpenOrders(_ context.Context, symbol string) ([]*domain.Order, error) {
	g.listCalls++
	return g.listFn(symbol)
}

// recordingSink collects audit entries in memory.
type recordingSink struct {
	entries []audit.Entry
}

func (r *recordingSink) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func filledOrder(id int64, symbol string, qty string) *domain.Order {
	q := dec(qty)
	return &domain.Order{
		OrderID:           id,
		Symbol:            symbol,
		Side:              types.SideBuy,
		Kind:              types.OrderKindMarket,
		RequestedQuantity: q,
		FilledQuantity:    q,
		Status:            types.OrderStatusFilled,
		UpdatedAt:         time.Now(),
	}
}

func TestPlaceMarketOrderRecordsAudit(t *testing.T) {
	gw := &stubGateway{
		submitFn: func(req domain.OrderRequest) (*domain.Order, error) {
			if req.Symbol != "BTCUSDT" || req.Side != types.SideBuy || req.Kind != types.OrderKindMarket {
				t.Fatalf("unexpected request: %+v", req)
			}
			return filledOrder(1001, req.Symbol, "0.01"), nil
		},
	}
	sink := &recordingSink{}
	svc := NewOrderService(gw, sink)

	order, err := svc.PlaceMarketOrder(context.Background(), "btcusdt", types.SideBuy, dec("0.01"))
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if order.OrderID != 1001 || order.Status != types.OrderStatusFilled {
		t.Fatalf("unexpected order: %+v", order)
	}
	if gw.submitCalls != 1 {
		t.Fatalf("submit calls = %d, want 1", gw.submitCalls)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(sink.entries))
	}
	e := sink.entries[0]
	if e.Operation != audit.OpSubmitMarket || e.Outcome != audit.OutcomeAccepted || e.OrderID != 1001 {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
}

func TestValidationFailureNeverReachesGatewayOrAudit(t *testing.T) {
	gw := &stubGateway{
		submitFn: func(domain.OrderRequest) (*domain.Order, error) {
			t.Fatal("gateway must not be called")
			return nil, nil
		},
	}
	sink := &recordingSink{}
	svc := NewOrderService(gw, sink)

	_, err := svc.PlaceLimitOrder(context.Background(), "ETHUSDT", types.SideSell, dec("1"), dec("-5"))
	var valErr *domain.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if valErr.Kind != domain.InvalidPrice {
		t.Fatalf("kind = %s, want %s", valErr.Kind, domain.InvalidPrice)
	}
	if gw.submitCalls != 0 {
		t.Fatalf("submit calls = %d, want 0", gw.submitCalls)
	}
	if len(sink.entries) != 0 {
		t.Fatalf("audit entries = %d, want 0", len(sink.entries))
	}
}

func TestSubmitTimeoutIsSingleAttempt(t *testing.T) {
	gw := &stubGateway{
		submitFn: func(domain.OrderRequest) (*domain.Order, error) {
			return nil, &domain.APIError{Kind: domain.APITimeout, Msg: "request timed out"}
		},
	}
	sink := &recordingSink{}
	svc := NewOrderService(gw, sink)

	_, err := svc.PlaceMarketOrder(context.Background(), "BTCUSDT", types.SideBuy, dec("0.01"))
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != domain.APITimeout {
		t.Fatalf("expected timeout APIError, got %v", err)
	}
	if gw.submitCalls != 1 {
		t.Fatalf("submit calls = %d, want exactly 1 (no silent retry)", gw.submitCalls)
	}
	if len(sink.entries) != 1 || sink.entries[0].Outcome != audit.OutcomeFailed {
		t.Fatalf("expected one failed audit entry, got %+v", sink.entries)
	}
}

func TestExchangeRejectionIsAuditedAsRejected(t *testing.T) {
	gw := &stubGateway{
		submitFn: func(domain.OrderRequest) (*domain.Order, error) {
			return nil, &domain.OrderError{Kind: domain.InsufficientBalance, Code: -2018, Msg: "balance is insufficient"}
		},
	}
	sink := &recordingSink{}
	svc := NewOrderService(gw, sink)

	_, err := svc.PlaceMarketOrder(context.Background(), "BTCUSDT", types.SideBuy, dec("100"))
	var ordErr *domain.OrderError
	if !errors.As(err, &ordErr) || ordErr.Kind != domain.InsufficientBalance {
		t.Fatalf("expected InsufficientBalance, got %v", err)
	}
	if len(sink.entries) != 1 || sink.entries[0].Outcome != audit.OutcomeRejected {
		t.Fatalf("expected one rejected audit entry, got %+v", sink.entries)
	}
}

func TestCancelSecondAttemptReportsAlreadyTerminal(t *testing.T) {
	canceled := &domain.Order{
		OrderID: 7, Symbol: "BTCUSDT",
		Side: types.SideSell, Kind: types.OrderKindLimit,
		RequestedQuantity: dec("1"), FilledQuantity: decimal.Zero,
		Status: types.OrderStatusCanceled,
	}
	firstCancel := true
	gw := &stubGateway{
		cancelFn: func(string, int64) (*domain.Order, error) {
			if firstCancel {
				firstCancel = false
				return canceled, nil
			}
			return nil, &domain.OrderError{Kind: domain.OrderRejected, Code: -2011, Msg: "Unknown order sent."}
		},
		getFn: func(string, int64) (*domain.Order, error) {
			return canceled, nil
		},
	}
	sink := &recordingSink{}
	svc := NewOrderService(gw, sink)

	first, err := svc.CancelOrder(context.Background(), "BTCUSDT", 7)
	if err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if first.Status != types.OrderStatusCanceled {
		t.Fatalf("first cancel status = %s", first.Status)
	}

	_, err = svc.CancelOrder(context.Background(), "BTCUSDT", 7)
	var ordErr *domain.OrderError
	if !errors.As(err, &ordErr) {
		t.Fatalf("expected OrderError, got %T: %v", err, err)
	}
	if ordErr.Kind != domain.OrderAlreadyTerminal {
		t.Fatalf("kind = %s, want %s", ordErr.Kind, domain.OrderAlreadyTerminal)
	}
	if gw.getCalls != 1 {
		t.Fatalf("re-query calls = %d, want 1", gw.getCalls)
	}
	if len(sink.entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(sink.entries))
	}
	if sink.entries[1].Outcome != audit.OutcomeRejected {
		t.Fatalf("second cancel outcome = %s, want %s", sink.entries[1].Outcome, audit.OutcomeRejected)
	}
}

func TestCancelRejectionOnOpenOrderKeepsOriginalError(t *testing.T) {
	gw := &stubGateway{
		cancelFn: func(string, int64) (*domain.Order, error) {
			return nil, &domain.OrderError{Kind: domain.OrderRejected, Code: -2011, Msg: "Unknown order sent."}
		},
		getFn: func(string, int64) (*domain.Order, error) {
			return &domain.Order{OrderID: 9, Symbol: "BTCUSDT", Status: types.OrderStatusNew}, nil
		},
	}
	svc := NewOrderService(gw, &recordingSink{})

	_, err := svc.CancelOrder(context.Background(), "BTCUSDT", 9)
	var ordErr *domain.OrderError
	if !errors.As(err, &ordErr) {
		t.Fatalf("expected OrderError, got %v", err)
	}
	if ordErr.Kind != domain.OrderRejected {
		t.Fatalf("kind = %s, want %s", ordErr.Kind, domain.OrderRejected)
	}
}

func TestLimitOrderStatusFollowsTheExchange(t *testing.T) {
	status := types.OrderStatusNew
	gw := &stubGateway{
		submitFn: func(req domain.OrderRequest) (*domain.Order, error) {
			return &domain.Order{
				OrderID: 55, Symbol: req.Symbol, Side: req.Side, Kind: req.Kind,
				RequestedQuantity: req.Quantity, Price: req.Price,
				Status: types.OrderStatusNew,
			}, nil
		},
		getFn: func(string, int64) (*domain.Order, error) {
			return &domain.Order{OrderID: 55, Symbol: "BTCUSDT", Status: status}, nil
		},
	}
	svc := NewOrderService(gw, &recordingSink{})

	placed, err := svc.PlaceLimitOrder(context.Background(), "BTCUSDT", types.SideBuy, dec("1"), dec("40000"))
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if placed.Status != types.OrderStatusNew {
		t.Fatalf("placed status = %s, want NEW", placed.Status)
	}

	queried, err := svc.QueryStatus(context.Background(), "BTCUSDT", 55)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if queried.Status != types.OrderStatusNew {
		t.Fatalf("status = %s, want NEW until the exchange says otherwise", queried.Status)
	}

	status = types.OrderStatusFilled
	queried, err = svc.QueryStatus(context.Background(), "BTCUSDT", 55)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if queried.Status != types.OrderStatusFilled {
		t.Fatalf("status = %s, want FILLED once the exchange reports it", queried.Status)
	}
}

func TestQueryStatusAlwaysAsksTheExchange(t *testing.T) {
	statuses := []types.OrderStatus{types.OrderStatusNew, types.OrderStatusFilled}
	call := 0
	gw := &stubGateway{
		getFn: func(string, int64) (*domain.Order, error) {
			o := &domain.Order{OrderID: 42, Symbol: "ETHUSDT", Status: statuses[call]}
			call++
			return o, nil
		},
	}
	svc := NewOrderService(gw, &recordingSink{})

	first, err := svc.QueryStatus(context.Background(), "ETHUSDT", 42)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	second, err := svc.QueryStatus(context.Background(), "ETHUSDT", 42)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if first.Status != types.OrderStatusNew || second.Status != types.OrderStatusFilled {
		t.Fatalf("statuses = %s, %s; want NEW then FILLED", first.Status, second.Status)
	}
	if gw.getCalls != 2 {
		t.Fatalf("get calls = %d, want 2 (no local caching)", gw.getCalls)
	}
}

func TestListOpenOrdersEmptyIsNotAnError(t *testing.T) {
	gw := &stubGateway{
		listFn: func(symbol string) ([]*domain.Order, error) {
			if symbol != "BTCUSDT" {
				t.Fatalf("symbol = %q", symbol)
			}
			return []*domain.Order{}, nil
		},
	}
	svc := NewOrderService(gw, &recordingSink{})

	orders, err := svc.ListOpenOrders(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Fatalf("orders = %v, want empty slice", orders)
	}
}
