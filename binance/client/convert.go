package client

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/domain"
)

// orderFromResponse converts an exchange order object into the domain model.
// Quantities arrive as decimal strings; an unparsable value surfaces as an
// Unknown APIError rather than a silent zero.
func orderFromResponse(resp *types.OrderResponse) (*domain.Order, error) {
	requested, err := decimal.NewFromString(resp.OrigQty)
	if err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable origQty: " + resp.OrigQty}
	}
	filled := decimal.Zero
	if resp.ExecutedQty != "" {
		filled, err = decimal.NewFromString(resp.ExecutedQty)
		if err != nil {
			return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable executedQty: " + resp.ExecutedQty}
		}
	}

	order := &domain.Order{
		OrderID:           resp.OrderID,
		Symbol:            resp.Symbol,
		Side:              resp.Side,
		Kind:              resp.Type,
		RequestedQuantity: requested,
		FilledQuantity:    filled,
		Status:            resp.Status,
		UpdatedAt:         time.UnixMilli(resp.UpdateTime),
	}

	// Market orders have no limit price; their effective price is the
	// average fill price once something executes.
	priceStr := resp.Price
	if resp.Type == types.OrderKindMarket {
		priceStr = resp.AvgPrice
	}
	if priceStr != "" {
		p, err := decimal.NewFromString(priceStr)
		if err == nil && p.IsPositive() {
			order.Price = &p
		}
	}

	return order, nil
}
