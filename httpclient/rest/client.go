package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/kbukum/voicemention/httpclient"
)

// Client sends requests through an httpclient.Adapter and decodes JSON
// replies. Request bodies may be anything the adapter encodes, including
// *httpclient.MultipartBody.
type Client struct {
	http *httpclient.Adapter
}

// New defaults Accept to application/json. Content-Type follows the body.
func New(cfg httpclient.Config) (*Client, error) {
	headers := map[string]string{"Accept": "application/json"}
	maps.Copy(headers, cfg.Headers)
	cfg.Headers = headers

	a, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: a}, nil
}

func (c *Client) Name() string                         { return c.http.Name() }
func (c *Client) IsAvailable(ctx context.Context) bool { return c.http.IsAvailable(ctx) }
func (c *Client) Close(ctx context.Context) error      { return c.http.Close(ctx) }

// Response is a decoded reply. Body keeps the raw bytes.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Data       T
}

func Get[T any](ctx context.Context, c *Client, path string) (*Response[T], error) {
	return send[T](ctx, c, httpclient.Request{Method: http.MethodGet, Path: path})
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	return send[T](ctx, c, httpclient.Request{Method: http.MethodPost, Path: path, Body: body})
}

// send returns a Response whenever the server answered, even alongside an
// error. After a status error Data is decoded best-effort; after a decode
// error it stays zero.
func send[T any](ctx context.Context, c *Client, req httpclient.Request) (*Response[T], error) {
	raw, err := c.http.Do(ctx, req)
	if raw == nil {
		return nil, err
	}
	out := &Response[T]{StatusCode: raw.StatusCode, Headers: raw.Headers, Body: raw.Body}
	switch {
	case err != nil:
		_ = json.Unmarshal(raw.Body, &out.Data)
		return out, err
	case len(raw.Body) == 0:
		return out, nil
	}
	if err := json.Unmarshal(raw.Body, &out.Data); err != nil {
		return out, &DecodeError{StatusCode: raw.StatusCode, Body: raw.Body, Err: err}
	}
	return out, nil
}

// DecodeError is a reply body that is not the expected JSON.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("httpclient/rest: decode response (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
