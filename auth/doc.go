// Package auth holds the bearer-token contract for the HTTP API.
//
// The chat adapter in front of the service (the Telegram gateway) signs
// its requests with a token issued by auth/jwt. Middleware depends only on
// TokenValidator; handlers read the parsed Claims through authctx.
//
//	auth:
//	  enabled: true
//	  jwt:
//	    secret: "${JWT_SECRET}"
//	    issuer: "voicemention"
//	    access_token_ttl: "720h"
package auth
