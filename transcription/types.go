package transcription

import (
	"context"

	"github.com/kbukum/voicemention/provider"
)

// DefaultContentType is used for payloads that do not name one.
const DefaultContentType = "audio/ogg"

// AudioPayload is one voice message. It is consumed by Upload.
type AudioPayload struct {
	Data        []byte
	FileName    string
	ContentType string
}

// UploadHandle locates uploaded audio on the remote service.
type UploadHandle struct {
	AudioURL string `json:"audio_url"`
}

// SubmitOptions are sent with a transcription request.
type SubmitOptions struct {
	Language    string `json:"language"`
	Diarization bool   `json:"diarization"`
}

// Job is a submitted transcription, polled through ResultURL.
type Job struct {
	ID        string `json:"id,omitempty"`
	ResultURL string `json:"result_url"`
}

// JobStatus is the remote job state. Only Done and Error are terminal.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusDone       JobStatus = "done"
	StatusError      JobStatus = "error"
)

// Terminal reports whether polling should stop at s.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Transcript is a finished job's text. Duration is in seconds.
type Transcript struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
}

// Client runs the three remote stages. Each returns a stage-tagged
// *errors.AppError on failure and never retries on its own.
type Client interface {
	provider.Provider
	Upload(ctx context.Context, payload AudioPayload) (*UploadHandle, error)
	Submit(ctx context.Context, handle UploadHandle, opts SubmitOptions) (*Job, error)
	// Poll blocks until the job reaches a terminal state, the client's
	// maximum wait elapses, or ctx ends.
	Poll(ctx context.Context, job Job) (*Transcript, error)
}
