package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

// BuildSignature computes the HMAC-SHA256 hex signature of the encoded
// request parameters, as required by the signed futures endpoints.
func BuildSignature(secret string, encodedParams string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(encodedParams))
	return hex.EncodeToString(mac.Sum(nil))
}

// signQuery adds timestamp and recvWindow, encodes the parameters and
// appends the signature last. The server verifies the signature against the
// query string exactly as transmitted, so the signed encoding and the sent
// encoding must match byte for byte.
func signQuery(params url.Values, secret string, recvWindow time.Duration, now time.Time) string {
	params.Set("timestamp", strconv.FormatInt(now.UnixMilli(), 10))
	params.Set("recvWindow", strconv.FormatInt(recvWindow.Milliseconds(), 10))
	encoded := params.Encode()
	return encoded + "&signature=" + BuildSignature(secret, encoded)
}
