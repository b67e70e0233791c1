package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/domain"
)

// Exchange error codes the bot distinguishes. Everything else in the order
// families collapses to a generic rejection with the code preserved.
const (
	codeRateLimited         = -1003
	codeInvalidQuantity     = -1013
	codePrecisionOverMax    = -1111
	codeInvalidAPIKey       = -2014
	codeBadAPIKeyFormat     = -2015
	codeNewOrderRejected    = -2010
	codeCancelRejected      = -2011
	codeNoSuchOrder         = -2013
	codeBalanceInsufficient = -2018
	codeMarginInsufficient  = -2019
	codeMinNotional         = -4164
)

// classifyTransportError maps a failed round trip (no HTTP response) into
// the typed taxonomy. A timeout is NOT a definitive rejection: the request
// may still have executed on the exchange.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.APIError{Kind: domain.APITimeout, Msg: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.APIError{Kind: domain.APITimeout, Msg: err.Error()}
	}
	return &domain.APIError{Kind: domain.APIUnknown, Msg: err.Error()}
}

// classifyAPIFailure maps a non-2xx response from a non-order endpoint.
func classifyAPIFailure(status int, body []byte) error {
	code, msg := parseErrorPayload(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		code == codeInvalidAPIKey || code == codeBadAPIKeyFormat:
		return &domain.APIError{Kind: domain.APIUnauthorized, HTTPStatus: status, Code: code, Msg: msg}
	case status == http.StatusTooManyRequests || status == http.StatusTeapot || code == codeRateLimited:
		return &domain.APIError{Kind: domain.APIRateLimited, HTTPStatus: status, Code: code, Msg: msg}
	default:
		return &domain.APIError{Kind: domain.APIUnknown, HTTPStatus: status, Code: code, Msg: msg}
	}
}

// classifyOrderFailure maps a non-2xx response from the order endpoints.
// Business rejections become OrderError so callers never blind-retry them;
// anything transport-shaped falls through to classifyAPIFailure.
func classifyOrderFailure(status int, body []byte) error {
	code, msg := parseErrorPayload(body)
	switch code {
	case codeBalanceInsufficient, codeMarginInsufficient:
		return &domain.OrderError{Kind: domain.InsufficientBalance, Code: code, Msg: msg}
	case codeInvalidQuantity, codePrecisionOverMax, codeMinNotional:
		return &domain.OrderError{Kind: domain.InvalidLotSize, Code: code, Msg: msg}
	case codeNewOrderRejected:
		if strings.Contains(strings.ToLower(msg), "market is closed") ||
			strings.Contains(strings.ToLower(msg), "not currently trading") {
			return &domain.OrderError{Kind: domain.MarketClosed, Code: code, Msg: msg}
		}
		return &domain.OrderError{Kind: domain.OrderRejected, Code: code, Msg: msg}
	case codeCancelRejected, codeNoSuchOrder:
		// The order is not open as far as the exchange is concerned. The
		// orchestrator re-queries to distinguish already-terminal from
		// never-existed.
		return &domain.OrderError{Kind: domain.OrderRejected, Code: code, Msg: msg}
	}
	if status >= 400 && status < 500 && code <= -4000 {
		// Futures filter failures (-4xxx) are business rejections.
		return &domain.OrderError{Kind: domain.OrderRejected, Code: code, Msg: msg}
	}
	return classifyAPIFailure(status, body)
}

func parseErrorPayload(body []byte) (int64, string) {
	var payload types.APIErrorPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Msg == "" {
		return payload.Code, strings.TrimSpace(string(body))
	}
	return payload.Code, payload.Msg
}
