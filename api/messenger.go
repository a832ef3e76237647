package api

import (
	"context"
	"sync"

	"github.com/kbukum/voicemention/mention"
	"github.com/kbukum/voicemention/voice"
)

// recorder is a voice.Messenger that buffers what a run shows so the
// gateway can replay it from the response.
type recorder struct {
	mu      sync.Mutex
	notices []string
	status  string
	chunks  []voice.Chunk
	choice  *mention.PendingChoice
}

var _ voice.Messenger = (*recorder)(nil)

func (r *recorder) Status(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, text)
	r.status = text
	return nil
}

func (r *recorder) ClearStatus(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = ""
	return nil
}

func (r *recorder) Deliver(_ context.Context, c voice.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, c)
	return nil
}

func (r *recorder) PresentChoice(_ context.Context, c mention.PendingChoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.choice = &c
	return nil
}
