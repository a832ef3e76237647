package llm

import (
	"fmt"
	"sync"
)

// Dialect is one provider's wire format. Implementations register from
// init, so importing e.g. llm/openai is enough to make it available.
type Dialect interface {
	Name() string
	// ChatPath is appended to Config.BaseURL.
	ChatPath() string
	// HealthPath is probed by IsAvailable; "" falls back to the circuit state.
	HealthPath() string
	BuildRequest(req CompletionRequest) (any, error)
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var dialects sync.Map

// RegisterDialect makes d available to New under name. A later call with
// the same name wins.
func RegisterDialect(name string, d Dialect) {
	dialects.Store(name, d)
}

func GetDialect(name string) (Dialect, error) {
	if d, ok := dialects.Load(name); ok {
		return d.(Dialect), nil
	}
	return nil, fmt.Errorf("llm: no dialect %q registered", name)
}
