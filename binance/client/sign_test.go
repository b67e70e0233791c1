package client

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference vector from the exchange API documentation.
func TestBuildSignatureKnownVector(t *testing.T) {
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	query := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"

	sig := BuildSignature(secret, query)
	assert.Equal(t, "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71", sig)
}

func TestSignQueryAppendsSignatureLast(t *testing.T) {
	params := url.Values{}
	params.Set("symbol", "BTCUSDT")
	params.Set("side", "BUY")
	now := time.UnixMilli(1700000000000)

	raw := signQuery(params, "secret", 5*time.Second, now)

	idx := strings.LastIndex(raw, "&signature=")
	require.Greater(t, idx, 0, "signature must be appended: %s", raw)
	prefix, sig := raw[:idx], raw[idx+len("&signature="):]

	// The signature must cover the exact bytes that precede it.
	assert.Equal(t, BuildSignature("secret", prefix), sig)

	parsed, err := url.ParseQuery(prefix)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", parsed.Get("timestamp"))
	assert.Equal(t, "5000", parsed.Get("recvWindow"))
	assert.Equal(t, "BTCUSDT", parsed.Get("symbol"))
}
