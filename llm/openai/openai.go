// Package openai registers the "openai" llm dialect for OpenAI-compatible
// chat completion APIs (OpenAI, DeepSeek and others). Import it for its
// side effect.
package openai

import (
	"encoding/json"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/voicemention/llm"
)

const DialectName = "openai"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm types onto the /chat/completions wire format using the
// go-openai request and response types.
type Dialect struct{}

var _ llm.Dialect = (*Dialect)(nil)

func (d *Dialect) Name() string       { return DialectName }
func (d *Dialect) ChatPath() string   { return "/chat/completions" }
func (d *Dialect) HealthPath() string { return "/models" }

// BuildRequest returns the request as a JSON object. Temperature is always
// written because go-openai drops a zero value.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	wire := goopenai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  msgs,
		MaxTokens: req.MaxTokens,
	}
	if req.JSONMode {
		wire.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	if req.Temperature != nil {
		body["temperature"] = *req.Temperature
	}
	return body, nil
}

// ParseResponse takes the first choice. A body carrying an error object or
// no choices is an error.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var apiErr goopenai.ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
		return nil, fmt.Errorf("openai: %w", apiErr.Error)
	}

	var resp goopenai.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: completion has no choices")
	}

	choice := resp.Choices[0]
	return &llm.CompletionResponse{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
