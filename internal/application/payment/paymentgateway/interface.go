package paymentgateway

import "context"

// Transport sends one request to the payment provider and returns the raw
// response. Implementations own timeouts and connection handling; a non-nil
// error means no usable response was received.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Request is a provider call. Body is the already-encoded JSON payload.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response carries the provider's status code and raw body. Reason is the
// HTTP reason phrase (e.g. "Bad Request").
type Response struct {
	StatusCode int
	Reason     string
	Body       []byte
}
