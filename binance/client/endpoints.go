package client

// API hosts. The testnet flag at construction selects which one is used for
// the lifetime of the client.
const (
	HostProduction = "https://fapi.binance.com"
	HostTestnet    = "https://testnet.binancefuture.com"
)

// USD-M futures endpoints.
const (
	EndpointPing        = "/fapi/v1/ping"
	EndpointAccount     = "/fapi/v2/account"
	EndpointTickerPrice = "/fapi/v1/ticker/price"
	EndpointOrder       = "/fapi/v1/order"
	EndpointOpenOrders  = "/fapi/v1/openOrders"
)

// Rate-limit routes (pkg/ratelimit manager keys).
const (
	routeOrderPost     = "fapi:order:post"
	routeOrderDelete   = "fapi:order:delete"
	routeOrderGet      = "fapi:order:get"
	routeOpenOrdersGet = "fapi:openOrders:get"
	routeAccountGet    = "fapi:account:get"
	routeTickerGet     = "fapi:ticker:get"
)
