package rest

import (
	"errors"

	"github.com/kbukum/voicemention/httpclient"
)

// Re-exports so callers of rest rarely need to import httpclient.

func IsNotFound(err error) bool    { return httpclient.IsNotFound(err) }
func IsAuth(err error) bool        { return httpclient.IsAuth(err) }
func IsRateLimit(err error) bool   { return httpclient.IsRateLimit(err) }
func IsServerError(err error) bool { return httpclient.IsServerError(err) }
func IsRetryable(err error) bool   { return httpclient.IsRetryable(err) }
func IsTimeout(err error) bool     { return httpclient.IsTimeout(err) }

// IsDecode reports whether err is a *DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
