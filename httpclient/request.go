package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// Request describes one outbound call.
type Request struct {
	Method string
	// Path is joined to BaseURL unless it is already absolute.
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Body is sent as-is for io.Reader, []byte and string, as form data for
	// *MultipartBody, and JSON-encoded otherwise.
	Body any
	// Auth replaces the adapter's auth for this call only.
	Auth *AuthConfig
}

// Response is a fully read reply. Headers keep the first value per key.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// build resolves the URL against base and applies headers, with
// per-request headers over defaults. The multipart boundary type always
// wins; other encoded types only fill an unset Content-Type.
func (r Request) build(ctx context.Context, base string, defaults map[string]string) (*http.Request, error) {
	target := r.Path
	if base != "" && !strings.HasPrefix(r.Path, "http://") && !strings.HasPrefix(r.Path, "https://") {
		target = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(r.Path, "/")
	}
	body, contentType, err := r.encode()
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if len(r.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range r.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	for _, headers := range []map[string]string{defaults, r.Headers} {
		for k, v := range headers {
			httpReq.Header.Set(k, v)
		}
	}
	_, isMultipart := r.Body.(*MultipartBody)
	if contentType != "" && (isMultipart || httpReq.Header.Get("Content-Type") == "") {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func (r Request) encode() (io.Reader, string, error) {
	switch v := r.Body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// replayable is false for bodies backed by a one-shot reader.
func (r Request) replayable() bool {
	switch v := r.Body.(type) {
	case io.Reader:
		return false
	case *MultipartBody:
		return !slices.ContainsFunc(v.Files, func(f FileField) bool { return f.Reader != nil })
	}
	return true
}
