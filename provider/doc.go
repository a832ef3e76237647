// Package provider defines the small contracts shared by outbound
// dependencies (the LLM, the transcription service) and the typed
// ContextStore used to park pending choices between requests.
//
// RequestResponse providers compose with middleware:
//
//	rr := provider.Chain(
//	    provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log),
//	    provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse]("voicemention"),
//	)(adapter)
package provider
