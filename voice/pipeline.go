package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/mention"
	"github.com/kbukum/voicemention/observability"
	"github.com/kbukum/voicemention/resilience"
	"github.com/kbukum/voicemention/transcription"
)

const serviceName = "voicemention"

// Config tunes the pipeline.
type Config struct {
	ChunkSize int `mapstructure:"chunk_size"`
	// MaxConcurrent caps simultaneous runs; QueueWait is how long a run
	// may wait for a free slot.
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	QueueWait     time.Duration `mapstructure:"queue_wait"`
}

func (c *Config) ApplyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 8
	}
	if c.QueueWait <= 0 {
		c.QueueWait = 30 * time.Second
	}
}

// Deps are the pipeline's collaborators. Members and Metrics may be nil.
type Deps struct {
	Transcriber transcription.Client
	Submit      transcription.SubmitOptions
	Matcher     NameMatcher
	Engine      *mention.Engine
	Roster      RosterSource
	Usage       UsageRecorder
	Members     MemberRecorder
	Metrics     *observability.Metrics
	Log         *logger.Logger
}

// Pipeline processes voice messages.
type Pipeline struct {
	cfg      Config
	deps     Deps
	bulkhead *resilience.Bulkhead
	log      *logger.Logger
}

func New(cfg Config, deps Deps) (*Pipeline, error) {
	cfg.ApplyDefaults()
	switch {
	case deps.Transcriber == nil:
		return nil, fmt.Errorf("voice: transcriber is required")
	case deps.Matcher == nil:
		return nil, fmt.Errorf("voice: matcher is required")
	case deps.Engine == nil:
		return nil, fmt.Errorf("voice: engine is required")
	case deps.Roster == nil:
		return nil, fmt.Errorf("voice: roster source is required")
	case deps.Usage == nil:
		return nil, fmt.Errorf("voice: usage recorder is required")
	}
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	p := &Pipeline{cfg: cfg, deps: deps, log: log.WithComponent("pipeline")}
	p.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "voice",
		MaxConcurrent: cfg.MaxConcurrent,
		MaxWait:       cfg.QueueWait,
		OnReject: func(name string) {
			p.log.Warn("pipeline saturated, rejecting run", logger.Fields("bulkhead", name))
		},
	})
	return p, nil
}

// Process runs req to completion. On a stage failure the status indicator
// shows a failure notice, nothing is delivered and a stage-tagged
// *errors.AppError is returned.
func (p *Pipeline) Process(ctx context.Context, req Request, m Messenger) (*Result, error) {
	var result *Result
	err := p.bulkhead.Execute(ctx, func() error {
		var err error
		result, err = p.process(ctx, req, m)
		return err
	})
	if errors.Is(err, resilience.ErrBulkheadFull) {
		return nil, apperrors.ServiceUnavailable("voice pipeline").WithCause(err)
	}
	return result, err
}

func (p *Pipeline) process(ctx context.Context, req Request, m Messenger) (_ *Result, err error) {
	op := &observability.Operation{
		Service:   serviceName,
		Name:      observability.SpanVoiceProcess,
		RequestID: req.RequestID,
		ChatID:    req.ChatID,
		UserID:    req.Sender.ID,
		Metrics:   p.deps.Metrics,
	}
	ctx = op.Start(ctx)
	defer func() {
		status := "ok"
		if err != nil {
			status = string(apperrors.CodeOf(err))
		}
		op.End(ctx, status, err)
	}()

	ctx = logger.ContextWithChat(logger.ContextWithRequestID(ctx, req.RequestID), req.ChatID, req.Sender.ID)
	log := p.log.WithContext(ctx)

	if p.deps.Members != nil {
		if err := p.deps.Members.TouchMember(ctx, req.ChatID, req.ChatTitle, req.Sender); err != nil {
			log.Warn("failed to record chat member", logger.MergeWithError(nil, err))
		}
	}

	p.status(ctx, m, NoticeStart)
	p.status(ctx, m, NoticeUpload)
	handle, err := runStage(ctx, p, apperrors.StageUpload, func(ctx context.Context) (*transcription.UploadHandle, error) {
		return p.deps.Transcriber.Upload(ctx, req.Audio)
	})
	if err != nil {
		return nil, p.fail(ctx, m, err)
	}

	p.status(ctx, m, NoticeSubmit)
	job, err := runStage(ctx, p, apperrors.StageSubmit, func(ctx context.Context) (*transcription.Job, error) {
		return p.deps.Transcriber.Submit(ctx, *handle, p.deps.Submit)
	})
	if err != nil {
		return nil, p.fail(ctx, m, err)
	}

	p.status(ctx, m, NoticeWaiting)
	transcript, err := runStage(ctx, p, apperrors.StagePoll, func(ctx context.Context) (*transcription.Transcript, error) {
		return p.deps.Transcriber.Poll(ctx, *job)
	})
	if err != nil {
		return nil, p.fail(ctx, m, err)
	}
	log.Info("transcription ready", logger.Fields(logger.FieldAudioSecs, transcript.Duration))
	observability.SetSpanAttribute(ctx, observability.AttrAudioSeconds, transcript.Duration)

	p.recordUsage(ctx, req, transcript.Duration)
	if err := m.ClearStatus(ctx); err != nil {
		log.Warn("failed to remove status indicator", logger.MergeWithError(nil, err))
	}

	parts := chunks(transcript.Text, p.cfg.ChunkSize, req.MessageID)
	observability.SetSpanAttribute(ctx, observability.AttrChunks, len(parts))
	resolution := p.resolve(ctx, req, parts[0].Text)
	parts[0].Text = resolution.Text

	result := &Result{Transcript: *transcript, Chunks: parts, Resolution: resolution}
	for i, c := range parts {
		if err := m.Deliver(ctx, c); err != nil {
			result.Undelivered++
			log.Error("chunk delivery failed", logger.MergeWithError(
				logger.Fields("index", c.Index, "total", c.Total), err))
			if i == 0 {
				p.dropChoice(ctx, result)
			}
			continue
		}
		if i == 0 && resolution.Choice != nil {
			if err := m.PresentChoice(ctx, *resolution.Choice); err != nil {
				log.Error("failed to present choice", logger.MergeWithError(
					logger.Fields("choice_id", resolution.Choice.ID), err))
				p.dropChoice(ctx, result)
			}
		}
	}
	return result, nil
}

// dropChoice removes a pending choice that could not be shown and leaves
// the first chunk unresolved.
func (p *Pipeline) dropChoice(ctx context.Context, result *Result) {
	choice := result.Resolution.Choice
	if choice == nil {
		return
	}
	if err := p.deps.Engine.Discard(ctx, choice.ID); err != nil {
		p.log.WithContext(ctx).Warn("failed to discard choice", logger.MergeWithError(
			logger.Fields("choice_id", choice.ID), err))
	}
	result.Resolution.Outcome = mention.Unresolved
	result.Resolution.Choice = nil
}

// resolve matches and resolves the first chunk. Any failure leaves the text
// as it is.
func (p *Pipeline) resolve(ctx context.Context, req Request, text string) mention.Resolution {
	unresolved := mention.Resolution{Outcome: mention.Unresolved, Text: text}
	if text == "" {
		return unresolved
	}
	log := p.log.WithContext(ctx)
	start := time.Now()

	roster, err := p.deps.Roster.Roster(ctx, req.ChatID)
	if err != nil {
		appErr := apperrors.MatchingDegraded("roster unavailable", err)
		log.Warn(appErr.Message, logger.MergeWithError(logger.Fields(logger.FieldStage, apperrors.StageMatch), err))
		return unresolved
	}

	match := p.deps.Matcher.Match(ctx, text, roster)
	res, err := p.deps.Engine.Resolve(ctx, mention.Target{ChatID: req.ChatID, MessageID: req.MessageID}, text, match)
	if err != nil {
		appErr := apperrors.MatchingDegraded("choice not stored", err)
		log.Warn(appErr.Message, logger.MergeWithError(logger.Fields(logger.FieldStage, apperrors.StageMatch), err))
		res = unresolved
	}

	observability.SetSpanAttribute(ctx, observability.AttrResolution, string(res.Outcome))
	if mt := p.deps.Metrics; mt != nil {
		mt.RecordStage(ctx, apperrors.StageMatch, "ok", time.Since(start))
		mt.RecordResolution(ctx, string(res.Outcome))
	}
	log.Debug("mention resolved", logger.Fields("outcome", string(res.Outcome), "found_name", match.FoundName))
	return res
}

func (p *Pipeline) recordUsage(ctx context.Context, req Request, duration float64) {
	if mt := p.deps.Metrics; mt != nil {
		mt.RecordAudio(ctx, duration)
	}
	u := Usage{UserID: req.Sender.ID, ChatID: req.ChatID, MessageID: req.MessageID, Duration: duration}
	if err := p.deps.Usage.RecordUsage(ctx, u); err != nil {
		p.log.WithContext(ctx).Error("failed to record usage", logger.MergeWithError(nil, err))
	}
}

func (p *Pipeline) status(ctx context.Context, m Messenger, text string) {
	if err := m.Status(ctx, text); err != nil {
		p.log.WithContext(ctx).Warn("failed to update status", logger.MergeWithError(nil, err))
	}
}

// fail shows the failure notice and returns err as a stage-tagged AppError.
func (p *Pipeline) fail(ctx context.Context, m Messenger, err error) error {
	appErr := apperrors.Wrap(err)
	p.status(ctx, m, FailureNotice(appErr))
	return appErr
}

// runStage times one remote stage and records its outcome.
func runStage[T any](ctx context.Context, p *Pipeline, stage string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	out, err := fn(ctx)
	d := time.Since(start)

	status := "ok"
	if err != nil {
		status = string(apperrors.CodeOf(err))
		if status == "" {
			status = "error"
		}
	}
	if mt := p.deps.Metrics; mt != nil {
		mt.RecordStage(ctx, stage, status, d)
	}
	p.log.WithContext(ctx).Debug("stage finished", logger.Fields(
		logger.FieldStage, stage,
		logger.FieldStatus, status,
		logger.FieldDuration, d.Milliseconds(),
	))
	return out, err
}
