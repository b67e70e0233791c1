package client

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// httpClient is the transport under the gateway. It never retries: retry
// policy belongs to the caller, not to the network boundary.
type httpClient struct {
	rc         *resty.Client
	apiKey     string
	apiSecret  string
	recvWindow time.Duration
}

func newHTTPClient(host, apiKey, apiSecret string, timeout, recvWindow time.Duration) *httpClient {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(host, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "gobinance/1.0")

	return &httpClient{
		rc:         rc,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: recvWindow,
	}
}

// orderEndpoint marks endpoints whose rejections carry order-business
// meaning; their failures map through classifyOrderFailure.
func isOrderEndpoint(endpoint string) bool {
	return endpoint == EndpointOrder
}

// do performs one round trip and returns the raw body on success. Signed
// requests get timestamp, recvWindow and signature appended to the query
// string; the API key always travels in the header for signed calls.
func (h *httpClient) do(ctx context.Context, method, endpoint string, params url.Values, signed bool) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}

	req := h.rc.R().SetContext(ctx)

	var rawQuery string
	if signed {
		rawQuery = signQuery(params, h.apiSecret, h.recvWindow, time.Now())
		req.SetHeader("X-MBX-APIKEY", h.apiKey)
	} else {
		rawQuery = params.Encode()
	}

	target := endpoint
	if rawQuery != "" {
		target = endpoint + "?" + rawQuery
	}

	var resp *resty.Response
	var err error
	switch method {
	case "GET":
		resp, err = req.Get(target)
	case "POST":
		resp, err = req.Post(target)
	case "DELETE":
		resp, err = req.Delete(target)
	default:
		return nil, errors.Errorf("unsupported method: %s", method)
	}
	if err != nil {
		return nil, classifyTransportError(errors.Wrapf(err, "%s %s", method, endpoint))
	}

	if !resp.IsSuccess() {
		if isOrderEndpoint(endpoint) {
			return nil, classifyOrderFailure(resp.StatusCode(), resp.Body())
		}
		return nil, classifyAPIFailure(resp.StatusCode(), resp.Body())
	}

	return resp.Body(), nil
}
