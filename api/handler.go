package api

import (
	"context"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kbukum/voicemention/auth"
	"github.com/kbukum/voicemention/auth/authctx"
	"github.com/kbukum/voicemention/directory"
	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/mention"
	"github.com/kbukum/voicemention/server"
	"github.com/kbukum/voicemention/transcription"
	"github.com/kbukum/voicemention/util"
	"github.com/kbukum/voicemention/validation"
	"github.com/kbukum/voicemention/voice"
)

// VoiceProcessor runs one voice message through the pipeline.
type VoiceProcessor interface {
	Process(ctx context.Context, req voice.Request, m voice.Messenger) (*voice.Result, error)
}

// ChoiceSelector consumes pending choices.
type ChoiceSelector interface {
	Select(ctx context.Context, id, handle string) (*mention.Selection, error)
}

// Directory keeps the roster and usage history.
type Directory interface {
	voice.MemberRecorder
	Stats(ctx context.Context, userID int64, recent int) (*directory.Stats, error)
}

// Handler serves the API routes.
type Handler struct {
	voice     VoiceProcessor
	selector  ChoiceSelector
	directory Directory
	log       *logger.Logger
}

func NewHandler(v VoiceProcessor, s ChoiceSelector, d Directory, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{voice: v, selector: s, directory: d, log: log.WithComponent("api")}
}

type startResponse struct {
	Text string `json:"text"`
}

// Start returns the greeting.
func (h *Handler) Start(c *gin.Context) {
	server.RespondOK(c, startResponse{Text: voice.Greeting})
}

type memberRequest struct {
	UserID    int64  `json:"user_id" validate:"required"`
	Name      string `json:"name" validate:"max=256"`
	Username  string `json:"username" validate:"omitempty,handle"`
	ChatTitle string `json:"chat_title" validate:"max=256"`
}

// Members records the author of a chat message as a participant.
func (h *Handler) Members(c *gin.Context) {
	chatID, err := chatParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	p := mention.Participant{ID: req.UserID, DisplayName: req.Name, Handle: req.Username}
	if err := h.directory.TouchMember(c.Request.Context(), chatID, req.ChatTitle, p); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

type voiceForm struct {
	MessageID int64  `form:"message_id" validate:"required"`
	UserID    int64  `form:"user_id" validate:"required"`
	Name      string `form:"name" validate:"max=256"`
	Username  string `form:"username" validate:"omitempty,handle"`
	ChatTitle string `form:"chat_title" validate:"max=256"`
}

type choiceView struct {
	ID      string           `json:"id"`
	Options []mention.Option `json:"options"`
}

// Status is the indicator left showing when the run ended; empty once it
// was cleared.
type voiceResponse struct {
	Notices     []string      `json:"notices"`
	Status      string        `json:"status,omitempty"`
	Chunks      []voice.Chunk `json:"chunks"`
	Outcome     string        `json:"outcome"`
	Choice      *choiceView   `json:"choice,omitempty"`
	Undelivered int           `json:"undelivered,omitempty"`
}

type voiceFailure struct {
	apperrors.ErrorResponse
	Notices []string `json:"notices"`
	Status  string   `json:"status,omitempty"`
}

// Voice transcribes the uploaded "audio" part. On a stage failure the body
// carries the error and the notices, the last one being the failure notice.
func (h *Handler) Voice(c *gin.Context) {
	chatID, err := chatParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var form voiceForm
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("form", err.Error()))
		return
	}
	if err := validation.Validate(form); err != nil {
		server.RespondWithError(c, err)
		return
	}
	audio, err := readAudio(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	req := voice.Request{
		RequestID: logger.RequestIDFromContext(ctx),
		ChatID:    chatID,
		ChatTitle: form.ChatTitle,
		MessageID: form.MessageID,
		Sender:    mention.Participant{ID: form.UserID, DisplayName: form.Name, Handle: form.Username},
		Audio:     audio,
	}
	h.log.WithContext(ctx).Info("voice message received", logger.Fields(
		logger.FieldChatID, chatID,
		"client", caller(ctx),
		"size", util.FormatSize(int64(len(audio.Data))),
	))

	rec := &recorder{}
	result, err := h.voice.Process(ctx, req, rec)
	if err != nil {
		appErr := apperrors.Wrap(err)
		c.JSON(appErr.HTTPStatus, voiceFailure{
			ErrorResponse: appErr.ToResponse(),
			Notices:       rec.notices,
			Status:        rec.status,
		})
		return
	}

	resp := voiceResponse{
		Notices:     rec.notices,
		Status:      rec.status,
		Chunks:      rec.chunks,
		Outcome:     string(result.Resolution.Outcome),
		Undelivered: result.Undelivered,
	}
	if rec.choice != nil {
		resp.Choice = &choiceView{ID: rec.choice.ID, Options: rec.choice.Options}
	}
	server.RespondOK(c, resp)
}

type selectRequest struct {
	Handle string `json:"handle" validate:"required,handle"`
}

type selectResponse struct {
	ChatID    int64  `json:"chat_id"`
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Ack       string `json:"ack"`
}

// Select applies the picked option to the choice's message.
func (h *Handler) Select(c *gin.Context) {
	id := c.Param("choice_id")
	if err := validation.New().RequiredUUID("choice_id", id).Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	sel, err := h.selector.Select(c.Request.Context(), id, req.Handle)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, selectResponse{
		ChatID:    sel.Choice.ChatID,
		MessageID: sel.Choice.MessageID,
		Text:      sel.Text,
		Ack:       voice.SelectionAck(sel.Option.FoundName, sel.Option.Handle),
	})
}

type statsResponse struct {
	*directory.Stats
	Report string `json:"report"`
}

// Stats returns a user's usage summary.
func (h *Handler) Stats(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err == nil {
		err = validation.New().RequiredID("user_id", userID).Validate()
	} else {
		err = apperrors.InvalidInput("user_id", "must be an integer")
	}
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	recent := directory.DefaultRecent
	if q := c.Query("recent"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > 50 {
			server.RespondWithError(c, apperrors.InvalidInput("recent", "must be between 1 and 50"))
			return
		}
		recent = n
	}

	stats, err := h.directory.Stats(c.Request.Context(), userID, recent)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, statsResponse{Stats: stats, Report: stats.Report()})
}

func chatParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("chat_id", "must be an integer")
	}
	if err := validation.New().RequiredID("chat_id", id).Validate(); err != nil {
		return 0, err
	}
	return id, nil
}

func readAudio(c *gin.Context) (transcription.AudioPayload, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		return transcription.AudioPayload{}, apperrors.MissingField("audio")
	}
	f, err := fh.Open()
	if err != nil {
		return transcription.AudioPayload{}, apperrors.InvalidInput("audio", err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return transcription.AudioPayload{}, apperrors.InvalidInput("audio", err.Error())
	}
	if len(data) == 0 {
		return transcription.AudioPayload{}, apperrors.InvalidInput("audio", "file is empty")
	}
	return transcription.AudioPayload{
		Data:        data,
		FileName:    fh.Filename,
		ContentType: contentType(fh.Header.Get("Content-Type")),
	}, nil
}

// contentType drops generic part types so the uploader default applies.
func contentType(declared string) string {
	if declared == "application/octet-stream" {
		return ""
	}
	return declared
}

func caller(ctx context.Context) string {
	if claims, ok := authctx.Get[*auth.Claims](ctx); ok {
		return claims.Client
	}
	return "anonymous"
}
