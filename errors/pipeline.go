package errors

import (
	"fmt"
	"net/http"
	"time"
)

// Pipeline stage names carried in the "stage" detail.
const (
	StageUpload = "upload"
	StageSubmit = "submit"
	StagePoll   = "poll"
	StageMatch  = "match"
)

// maxBodyDetail caps how much of a remote body is kept for diagnostics.
const maxBodyDetail = 2048

func remoteDetails(stage string, status int, body []byte) map[string]any {
	d := map[string]any{"stage": stage}
	if status > 0 {
		d["status"] = status
	}
	if len(body) > 0 {
		if len(body) > maxBodyDetail {
			body = body[:maxBodyDetail]
		}
		d["body"] = string(body)
	}
	return d
}

// UploadFailed reports a rejected upload. status is 0 when the request never
// produced a response.
func UploadFailed(status int, body []byte, cause error) *AppError {
	return &AppError{
		Code: ErrCodeUploadFailed, Message: "Audio upload to the transcription service failed.",
		HTTPStatus: http.StatusBadGateway, Details: remoteDetails(StageUpload, status, body), Cause: cause,
	}
}

// SubmitFailed reports a transcription job the remote side did not accept.
func SubmitFailed(status int, body []byte, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSubmitFailed, Message: "The transcription job could not be submitted.",
		HTTPStatus: http.StatusBadGateway, Details: remoteDetails(StageSubmit, status, body), Cause: cause,
	}
}

// TranscriptionFailed reports a failed poll or a job that ended in error.
func TranscriptionFailed(reason string, status int, body []byte, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscriptionFailed, Message: fmt.Sprintf("Transcription failed: %s", reason),
		HTTPStatus: http.StatusBadGateway, Details: remoteDetails(StagePoll, status, body), Cause: cause,
	}
}

// TranscriptionTimeout reports a job that did not reach a terminal state in time.
func TranscriptionTimeout(maxWait time.Duration, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscriptionTimeout, Message: "The transcription did not finish in time.",
		HTTPStatus: http.StatusGatewayTimeout,
		Details:    map[string]any{"stage": StagePoll, "max_wait": maxWait.String()},
		Cause:      cause,
	}
}

// MatchingDegraded wraps a name-matching failure that was downgraded to
// "no match". Callers log it; they never return it.
func MatchingDegraded(reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeMatchingDegraded, Message: fmt.Sprintf("Name matching degraded: %s", reason),
		HTTPStatus: http.StatusOK, Details: map[string]any{"stage": StageMatch}, Cause: cause,
	}
}

// StageOf returns the pipeline stage recorded on err, or "".
func StageOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		if s, ok := appErr.Details["stage"].(string); ok {
			return s
		}
	}
	return ""
}
