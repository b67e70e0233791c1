package ports

import (
	"context"

	"github.com/tradebot/gobinance/internal/audit"
	"github.com/tradebot/gobinance/internal/domain"
)

// Shared, small interfaces for the services to depend on. The gateway
// implements all of them; tests substitute stubs per concern.

type Pinger interface {
	Ping(ctx context.Context) error
}

type AccountGetter interface {
	GetAccount(ctx context.Context) (*domain.AccountSnapshot, error)
}

type PriceGetter interface {
	GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error)
}

type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
}

type OrderGetter interface {
	GetOrder(ctx context.Context, symbol string, orderID int64) (*domain.Order, error)
}

type OrderCanceler interface {
	CancelOrder(ctx context.Context, symbol string, orderID int64) (*domain.Order, error)
}

type OpenOrdersLister interface {
	ListOpenOrders(ctx context.Context, symbol string) ([]*domain.Order, error)
}

// AuditSink receives one record per order attempt, success or failure.
type AuditSink interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Composite convenience interfaces.

type OrderGateway interface {
	OrderSubmitter
	OrderGetter
	OrderCanceler
	OpenOrdersLister
}

type Exchange interface {
	Pinger
	AccountGetter
	PriceGetter
	OrderGateway
}
