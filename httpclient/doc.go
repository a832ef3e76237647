// Package httpclient is the outbound HTTP layer used by the transcription
// and LLM clients. It handles auth headers, JSON and multipart bodies, and
// optional retry, circuit breaking and rate limiting from the resilience
// package.
//
// Non-2xx responses come back together with a classified *Error that keeps
// the status code and raw body:
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/upload",
//	    Body: &httpclient.MultipartBody{Files: []httpclient.FileField{{
//	        FieldName: "audio", FileName: "voice.ogg",
//	        ContentType: "audio/ogg", Data: audio,
//	    }}},
//	})
//	status, body := httpclient.StatusOf(err)
//
// The rest subpackage adds typed JSON helpers on top.
package httpclient
