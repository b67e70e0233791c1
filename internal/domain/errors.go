package domain

import "fmt"

// Error taxonomy. Callers pattern-match with errors.As so that validation
// mistakes, transport failures, and exchange-side rejections each produce
// different behavior. Nothing is collapsed into a generic failure.

// ValidationKind identifies which input rule failed.
type ValidationKind string

const (
	InvalidSymbol   ValidationKind = "INVALID_SYMBOL"
	InvalidSide     ValidationKind = "INVALID_SIDE"
	InvalidQuantity ValidationKind = "INVALID_QUANTITY"
	InvalidPrice    ValidationKind = "INVALID_PRICE"
)

// ValidationError is a local input rejection. It never reaches the network
// and is always recoverable by correcting the input.
type ValidationError struct {
	Kind ValidationKind
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Kind, e.Msg)
}

// ConnectivityError means the exchange could not be reached at all during
// the construction-time probe. Fatal to startup.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("exchange unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// APIErrorKind classifies transport/protocol failures from a reachable
// exchange.
type APIErrorKind string

const (
	APITimeout      APIErrorKind = "TIMEOUT"
	APIUnauthorized APIErrorKind = "UNAUTHORIZED"
	APIRateLimited  APIErrorKind = "RATE_LIMITED"
	APIUnknown      APIErrorKind = "UNKNOWN"
)

// APIError is a transport or protocol level failure. Recoverable by
// caller-directed retry with backoff; never retried silently inside the bot.
// A TIMEOUT on submission does NOT mean the order did not execute: the
// caller must reconcile via a status query or open-orders listing.
type APIError struct {
	Kind       APIErrorKind
	HTTPStatus int
	Code       int64 // exchange error code, 0 when not supplied
	Msg        string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("api error (%s, http=%d, code=%d): %s", e.Kind, e.HTTPStatus, e.Code, e.Msg)
	}
	return fmt.Sprintf("api error (%s, http=%d): %s", e.Kind, e.HTTPStatus, e.Msg)
}

// OrderErrorKind classifies exchange-side business rejections.
type OrderErrorKind string

const (
	InsufficientBalance  OrderErrorKind = "INSUFFICIENT_BALANCE"
	InvalidLotSize       OrderErrorKind = "INVALID_LOT_SIZE"
	MarketClosed         OrderErrorKind = "MARKET_CLOSED"
	OrderRejected        OrderErrorKind = "ORDER_REJECTED"
	OrderAlreadyTerminal OrderErrorKind = "ORDER_ALREADY_TERMINAL"
)

// OrderError is an exchange-side rejection of an otherwise well-formed
// request. Never retried automatically: blind retry of a rejected order is
// unsafe.
type OrderError struct {
	Kind OrderErrorKind
	Code int64
	Msg  string
}

func (e *OrderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("order error (%s, code=%d): %s", e.Kind, e.Code, e.Msg)
	}
	return fmt.Sprintf("order error (%s): %s", e.Kind, e.Msg)
}
