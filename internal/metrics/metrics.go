package metrics

import "expvar"

var (
	OrdersSubmitted    = expvar.NewInt("orders_submitted")
	OrdersRejected     = expvar.NewInt("orders_rejected")
	OrdersCanceled     = expvar.NewInt("orders_canceled")
	CancelAlreadyDone  = expvar.NewInt("cancel_already_terminal")
	ValidationRejects  = expvar.NewInt("validation_rejects")
	APIFailures        = expvar.NewInt("api_failures")
	AuditWriteFailures = expvar.NewInt("audit_write_failures")
	StatusQueries      = expvar.NewInt("status_queries")
	OpenOrderListings  = expvar.NewInt("open_order_listings")
	AccountReads       = expvar.NewInt("account_reads")
	PriceReads         = expvar.NewInt("price_reads")
)
