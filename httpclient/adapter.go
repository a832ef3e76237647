package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kbukum/voicemention/resilience"
)

// Adapter sends Requests with auth, default headers and optional
// resilience. It also satisfies provider.RequestResponse.
type Adapter struct {
	client  *http.Client
	config  Config
	breaker *resilience.CircuitBreaker
	limiter *resilience.RateLimiter
}

func New(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Adapter{
		client: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}
	if cfg.CircuitBreaker != nil {
		a.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimiter != nil {
		a.limiter = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	return a, nil
}

// Do sends req. A non-2xx reply comes back together with a classified
// *Error so the caller can still read the body. Retries apply only when
// the body can be sent twice.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	attempt := func() (*Response, error) { return a.guarded(ctx, req) }
	if a.config.Retry == nil || !req.replayable() {
		return attempt()
	}
	return resilience.Retry(ctx, *a.config.Retry, attempt)
}

// guarded waits on the rate limiter and runs one send through the breaker.
func (a *Adapter) guarded(ctx context.Context, req Request) (*Response, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if a.breaker == nil {
		return a.send(ctx, req)
	}
	var resp *Response
	err := a.breaker.Execute(func() (err error) {
		resp, err = a.send(ctx, req)
		return err
	})
	return resp, err
}

func (a *Adapter) send(ctx context.Context, req Request) (*Response, error) {
	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	httpReq, err := req.build(ctx, a.config.BaseURL, a.config.Headers)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	auth.apply(httpReq)

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    make(map[string]string, len(httpResp.Header)),
		Body:       body,
	}
	for k := range httpResp.Header {
		resp.Headers[k] = httpResp.Header.Get(k)
	}
	if statusErr := ClassifyStatusCode(httpResp.StatusCode, body); statusErr != nil {
		return resp, statusErr
	}
	return resp, nil
}

func (a *Adapter) Name() string { return a.config.Name }

// IsAvailable is false while the circuit breaker is open.
func (a *Adapter) IsAvailable(context.Context) bool {
	return a.breaker == nil || a.breaker.State() != resilience.StateOpen
}

func (a *Adapter) Execute(ctx context.Context, req Request) (*Response, error) {
	return a.Do(ctx, req)
}

// Close drops idle keep-alive connections.
func (a *Adapter) Close(context.Context) error {
	a.client.CloseIdleConnections()
	return nil
}
