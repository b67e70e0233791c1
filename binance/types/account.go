package types

// AccountResponse is the subset of GET /fapi/v2/account the bot reads.
// The full payload is preserved raw at the domain layer.
type AccountResponse struct {
	TotalWalletBalance string `json:"totalWalletBalance"`
	AvailableBalance   string `json:"availableBalance"`
	CanTrade           bool   `json:"canTrade"`
}

// TickerPrice is GET /fapi/v1/ticker/price for a single symbol.
type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}
