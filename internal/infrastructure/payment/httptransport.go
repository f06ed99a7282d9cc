package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/azampay/momo-checkout/internal/application/payment/paymentgateway"
	"github.com/azampay/momo-checkout/internal/shared/config"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

const (
	defaultRequestTimeout = 30 * time.Second
	// Maximum provider response body size (1MB)
	maxProviderResponseSize = 1 << 20
)

// ErrCircuitOpen is returned while the breaker for a provider host is open.
var ErrCircuitOpen = errors.New("payment provider temporarily unavailable")

// serverError carries a 5xx response through the breaker so it counts as a
// failure while the caller still sees the provider's reply.
type serverError struct {
	resp *paymentgateway.Response
}

func (e *serverError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.resp.StatusCode)
}

// HTTPTransport sends provider requests over net/http. Each provider host has
// its own circuit breaker, so an auth outage does not block checkout calls.
type HTTPTransport struct {
	httpClient *http.Client
	breakerCfg config.BreakerConfig
	logger     logger.Interface

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewHTTPTransport(timeout time.Duration, breakerCfg config.BreakerConfig, logger logger.Interface) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breakerCfg: breakerCfg,
		logger:     logger,
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Ensure HTTPTransport implements paymentgateway.Transport
var _ paymentgateway.Transport = (*HTTPTransport)(nil)

func (t *HTTPTransport) Send(ctx context.Context, req *paymentgateway.Request) (*paymentgateway.Response, error) {
	host, err := hostOf(req.URL)
	if err != nil {
		return nil, err
	}

	result, err := t.breakerFor(host).Execute(func() (interface{}, error) {
		resp, err := t.do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &serverError{resp: resp}
		}
		return resp, nil
	})

	var srvErr *serverError
	switch {
	case err == nil:
		return result.(*paymentgateway.Response), nil
	case errors.As(err, &srvErr):
		return srvErr.resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, host)
	default:
		return nil, err
	}
}

func (t *HTTPTransport) do(ctx context.Context, req *paymentgateway.Request) (*paymentgateway.Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call provider: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	t.logger.Debugw("provider call completed",
		"method", req.Method,
		"url", req.URL,
		"status", resp.StatusCode,
		"latency", time.Since(start),
	)

	return &paymentgateway.Response{
		StatusCode: resp.StatusCode,
		Reason:     reasonPhrase(resp),
		Body:       data,
	}, nil
}

func (t *HTTPTransport) breakerFor(host string) *gobreaker.CircuitBreaker {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cb, ok := t.breakers[host]; ok {
		return cb
	}

	threshold := t.breakerCfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "azampay:" + host,
		MaxRequests: t.breakerCfg.MaxRequests,
		Interval:    t.breakerCfg.Interval,
		Timeout:     t.breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			t.logger.Warnw("provider circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	t.breakers[host] = cb
	return cb
}

func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid provider url %q", rawURL)
	}
	return u.Host, nil
}

// reasonPhrase strips the status code from resp.Status ("400 Bad Request").
func reasonPhrase(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
