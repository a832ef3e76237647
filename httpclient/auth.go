package httpclient

import "net/http"

// AuthConfig puts a credential into one request header.
type AuthConfig struct {
	Header string
	Value  string
	secret string
}

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Header: "Authorization", Value: "Bearer " + token, secret: token}
}

// APIKeyAuthHeader sends key as is in headerName (x-gladia-key, say).
// An empty headerName means X-API-Key.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	if headerName == "" {
		headerName = "X-API-Key"
	}
	return &AuthConfig{Header: headerName, Value: key, secret: key}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a != nil && a.Header != "" {
		req.Header.Set(a.Header, a.Value)
	}
}
