package llm

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is what callers send; a Dialect turns it into one
// provider's request body. Zero fields take the adapter's configured value,
// except Temperature where nil means "configured" and 0 is sent as 0.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Messages     []Message
	Temperature  *float64
	MaxTokens    int
	JSONMode     bool
}

type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
	Usage        Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func Temperature(t float64) *float64 { return &t }

// UserPrompt is a request with a system prompt and one user message.
func UserPrompt(system, user string) CompletionRequest {
	return CompletionRequest{SystemPrompt: system, Messages: []Message{{Role: RoleUser, Content: user}}}
}
