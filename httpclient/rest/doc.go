// Package rest adds typed JSON helpers on top of httpclient.Adapter:
//
//	c, _ := rest.New(httpclient.Config{
//	    BaseURL: "https://api.gladia.io/v2",
//	    Auth:    httpclient.APIKeyAuthHeader(key, "x-gladia-key"),
//	})
//	resp, err := rest.Post[submitResponse](ctx, c, "/transcription", body)
//
// The returned Response keeps the raw body, so callers can report exactly
// what the server sent when decoding or status checks fail.
package rest
