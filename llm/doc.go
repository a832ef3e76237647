// Package llm sends chat completions to an LLM endpoint. The name matcher
// is its only caller, so the surface is one request/response pair.
//
// An Adapter pairs the rest client with a Dialect, the provider's wire
// format. llm/openai registers the OpenAI-compatible dialect, which also
// speaks to DeepSeek:
//
//	import _ "github.com/kbukum/voicemention/llm/openai"
//
//	a, err := llm.New(llm.Config{
//	    Dialect: "openai",
//	    BaseURL: "https://api.deepseek.com/v1",
//	    APIKey:  key,
//	    Model:   "deepseek-chat",
//	})
//	resp, err := a.Execute(ctx, llm.UserPrompt(system, text))
package llm
