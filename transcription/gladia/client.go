package gladia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/httpclient"
	"github.com/kbukum/voicemention/httpclient/rest"
	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/observability"
	"github.com/kbukum/voicemention/resilience"
	"github.com/kbukum/voicemention/transcription"
)

var (
	errNoAudioURL  = errors.New("upload response has no audio_url")
	errNoResultURL = errors.New("transcription response has no result_url")
)

type uploadResponse struct {
	AudioURL string `json:"audio_url"`
}

type submitRequest struct {
	AudioURL    string `json:"audio_url"`
	Language    string `json:"language"`
	Diarization bool   `json:"diarization"`
}

type submitResponse struct {
	ID        string `json:"id"`
	ResultURL string `json:"result_url"`
}

type resultResponse struct {
	Status transcription.JobStatus `json:"status"`
	Result *struct {
		Transcription *struct {
			FullTranscript string `json:"full_transcript"`
		} `json:"transcription"`
		Metadata struct {
			AudioDuration float64 `json:"audio_duration"`
		} `json:"metadata"`
	} `json:"result"`
}

// Client talks to the Gladia v2 pre-recorded API.
type Client struct {
	rest *rest.Client
	cfg  Config
	log  *logger.Logger
}

var _ transcription.Client = (*Client)(nil)

// New creates a client. No retry policy is installed; a failed upload or
// submit is reported to the caller as is.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rc, err := rest.New(httpclient.Config{
		Name:    "gladia",
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.APIKeyAuthHeader(cfg.APIKey, cfg.KeyHeader),
	})
	if err != nil {
		return nil, fmt.Errorf("gladia: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{rest: rc, cfg: cfg, log: log.WithComponent("gladia")}, nil
}

func (c *Client) Name() string                         { return "gladia" }
func (c *Client) IsAvailable(ctx context.Context) bool { return c.rest.IsAvailable(ctx) }
func (c *Client) Close(ctx context.Context) error      { return c.rest.Close(ctx) }

// Upload sends the audio as multipart field "audio". Only a 200 with a
// non-empty audio_url counts as success.
func (c *Client) Upload(ctx context.Context, payload transcription.AudioPayload) (*transcription.UploadHandle, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanUpload)
	defer span.End()

	contentType := payload.ContentType
	if contentType == "" {
		contentType = transcription.DefaultContentType
	}
	body := &httpclient.MultipartBody{Files: []httpclient.FileField{{
		FieldName:   "audio",
		FileName:    payload.FileName,
		ContentType: contentType,
		Data:        payload.Data,
	}}}

	c.log.WithContext(ctx).Debug("uploading audio", logger.Fields("file", payload.FileName, "bytes", len(payload.Data)))
	resp, err := rest.Post[uploadResponse](ctx, c.rest, "/upload", body)
	if resp == nil {
		return nil, c.fail(ctx, apperrors.UploadFailed(0, nil, err))
	}
	if appErr := c.check(ctx, apperrors.UploadFailed, resp.StatusCode, resp.Body, err, http.StatusOK); appErr != nil {
		return nil, appErr
	}
	if resp.Data.AudioURL == "" {
		return nil, c.fail(ctx, apperrors.UploadFailed(resp.StatusCode, resp.Body, errNoAudioURL))
	}
	return &transcription.UploadHandle{AudioURL: resp.Data.AudioURL}, nil
}

// Submit requests a transcription of an uploaded file. 200 and 201 are
// both accepted.
func (c *Client) Submit(ctx context.Context, handle transcription.UploadHandle, opts transcription.SubmitOptions) (*transcription.Job, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSubmit)
	defer span.End()

	req := submitRequest{AudioURL: handle.AudioURL, Language: opts.Language, Diarization: opts.Diarization}
	resp, err := rest.Post[submitResponse](ctx, c.rest, "/transcription", req)
	if resp == nil {
		return nil, c.fail(ctx, apperrors.SubmitFailed(0, nil, err))
	}
	if appErr := c.check(ctx, apperrors.SubmitFailed, resp.StatusCode, resp.Body, err, http.StatusOK, http.StatusCreated); appErr != nil {
		return nil, appErr
	}
	if resp.Data.ResultURL == "" {
		return nil, c.fail(ctx, apperrors.SubmitFailed(resp.StatusCode, resp.Body, errNoResultURL))
	}
	return &transcription.Job{ID: resp.Data.ID, ResultURL: resp.Data.ResultURL}, nil
}

// Poll checks the job every PollInterval until it is done or errored. Any
// non-200 answer ends the poll at once.
func (c *Client) Poll(ctx context.Context, job transcription.Job) (*transcription.Transcript, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanPoll)
	defer span.End()

	log := c.log.WithContext(ctx)
	cfg := resilience.PollConfig{
		Interval: c.cfg.PollInterval,
		MaxWait:  c.cfg.MaxWait,
		OnPending: func(attempt int) {
			log.Debug("transcription pending", logger.Fields("attempt", attempt))
		},
	}

	t, err := resilience.Poll(ctx, cfg, func(ctx context.Context) (*transcription.Transcript, bool, error) {
		return c.pollOnce(ctx, job)
	})
	if err == nil {
		observability.SetSpanAttribute(ctx, observability.AttrAudioSeconds, t.Duration)
		return t, nil
	}

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, resilience.ErrPollTimeout):
		appErr = apperrors.TranscriptionTimeout(c.cfg.MaxWait, err)
	default:
		appErr = apperrors.TranscriptionFailed("polling stopped", 0, nil, err)
	}
	return nil, c.fail(ctx, appErr)
}

func (c *Client) pollOnce(ctx context.Context, job transcription.Job) (*transcription.Transcript, bool, error) {
	resp, err := rest.Get[resultResponse](ctx, c.rest, job.ResultURL)
	if resp == nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, false, apperrors.TranscriptionFailed("request failed", 0, nil, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, apperrors.TranscriptionFailed("unexpected status", resp.StatusCode, resp.Body, err)
	}
	if err != nil {
		return nil, false, apperrors.TranscriptionFailed("malformed result", resp.StatusCode, resp.Body, err)
	}

	switch resp.Data.Status {
	case transcription.StatusDone:
		r := resp.Data.Result
		if r == nil || r.Transcription == nil {
			return nil, false, apperrors.TranscriptionFailed("done without a transcription", resp.StatusCode, resp.Body, nil)
		}
		return &transcription.Transcript{
			Text:     r.Transcription.FullTranscript,
			Duration: r.Metadata.AudioDuration,
		}, true, nil
	case transcription.StatusError:
		return nil, false, apperrors.TranscriptionFailed("job ended in error", resp.StatusCode, resp.Body, nil)
	default:
		return nil, false, nil
	}
}

// stageFailure builds the error for one stage from the remote answer.
type stageFailure func(status int, body []byte, cause error) *apperrors.AppError

// check turns an unexpected status or a decode error into the stage's failure.
func (c *Client) check(ctx context.Context, build stageFailure, status int, body []byte, err error, accepted ...int) *apperrors.AppError {
	if !slices.Contains(accepted, status) {
		if err == nil {
			err = fmt.Errorf("unexpected status %d", status)
		}
		return c.fail(ctx, build(status, body, err))
	}
	if err != nil {
		return c.fail(ctx, build(status, body, err))
	}
	return nil
}

func (c *Client) fail(ctx context.Context, appErr *apperrors.AppError) *apperrors.AppError {
	observability.SetSpanError(ctx, appErr)
	fields := logger.Fields(logger.FieldStage, apperrors.StageOf(appErr), "code", string(appErr.Code))
	for _, k := range []string{logger.FieldStatus, logger.FieldBody} {
		if v, ok := appErr.Details[k]; ok {
			fields[k] = v
		}
	}
	if appErr.Cause != nil {
		fields = logger.MergeWithError(fields, appErr.Cause)
	}
	c.log.WithContext(ctx).Error(appErr.Message, fields)
	return appErr
}
