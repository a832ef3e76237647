package httpclient

import "github.com/kbukum/voicemention/provider"

var (
	_ provider.RequestResponse[Request, *Response] = (*Adapter)(nil)
	_ provider.Closeable                           = (*Adapter)(nil)
)
