package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValidateAcceptsWellFormedRequests(t *testing.T) {
	market := NewMarketOrderRequest("btcusdt", types.SideBuy, dec("0.01"))
	if err := market.Validate(); err != nil {
		t.Fatalf("market request rejected: %v", err)
	}
	if market.Symbol != "BTCUSDT" {
		t.Fatalf("symbol not normalized: %q", market.Symbol)
	}

	limit := NewLimitOrderRequest("ethusdt", types.SideSell, dec("1.5"), dec("2000"))
	if err := limit.Validate(); err != nil {
		t.Fatalf("limit request rejected: %v", err)
	}
	if limit.Price == nil || !limit.Price.Equal(dec("2000")) {
		t.Fatalf("limit price not carried: %v", limit.Price)
	}
}

func TestValidateRejections(t *testing.T) {
	negPrice := dec("-5")

	tests := []struct {
		name string
		req  OrderRequest
		want ValidationKind
	}{
		{
			name: "empty symbol",
			req:  OrderRequest{Symbol: "  ", Side: types.SideBuy, Kind: types.OrderKindMarket, Quantity: dec("1")},
			want: InvalidSymbol,
		},
		{
			name: "bad side",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: "HOLD", Kind: types.OrderKindMarket, Quantity: dec("1")},
			want: InvalidSide,
		},
		{
			name: "zero quantity",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: types.SideBuy, Kind: types.OrderKindMarket, Quantity: decimal.Zero},
			want: InvalidQuantity,
		},
		{
			name: "negative quantity",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: types.SideBuy, Kind: types.OrderKindMarket, Quantity: dec("-0.5")},
			want: InvalidQuantity,
		},
		{
			name: "limit without price",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: types.SideSell, Kind: types.OrderKindLimit, Quantity: dec("1")},
			want: InvalidPrice,
		},
		{
			name: "negative price",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: types.SideSell, Kind: types.OrderKindLimit, Quantity: dec("1"), Price: &negPrice},
			want: InvalidPrice,
		},
		{
			name: "negative price on market order",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: types.SideBuy, Kind: types.OrderKindMarket, Quantity: dec("1"), Price: &negPrice},
			want: InvalidPrice,
		},
		{
			name: "symbol checked before side",
			req:  OrderRequest{Symbol: "", Side: "HOLD", Kind: types.OrderKindMarket, Quantity: decimal.Zero},
			want: InvalidSymbol,
		},
		{
			name: "side checked before quantity",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: "HOLD", Kind: types.OrderKindMarket, Quantity: decimal.Zero},
			want: InvalidSide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err == nil {
				t.Fatalf("expected rejection, got nil")
			}
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if valErr.Kind != tt.want {
				t.Fatalf("kind = %s, want %s", valErr.Kind, tt.want)
			}
		})
	}
}
