package errors

// ErrorCode is the machine-readable part of an AppError.
type ErrorCode string

const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"

	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"

	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// Voice pipeline stage failures. None of these is retried automatically:
// a submitted job cannot be resumed from a transient transport error.
const (
	// ErrCodeUploadFailed means the recogniser rejected the audio upload or
	// returned no audio_url.
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"
	// ErrCodeSubmitFailed means the transcription job was not accepted.
	ErrCodeSubmitFailed ErrorCode = "SUBMIT_FAILED"
	// ErrCodeTranscriptionFailed covers poll transport errors, non-200 poll
	// responses and a remote "error" status.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeTranscriptionTimeout means the job did not finish within the
	// configured maximum wait.
	ErrCodeTranscriptionTimeout ErrorCode = "TRANSCRIPTION_TIMEOUT"
	// ErrCodeMatchingDegraded is logged when the name matcher falls back to
	// "no match". It never reaches a requester.
	ErrCodeMatchingDegraded ErrorCode = "MATCHING_DEGRADED"
)

// IsRetryableCode reports whether a caller may simply try again.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeServiceUnavailable, ErrCodeRateLimited, ErrCodeDatabaseError:
		return true
	}
	return false
}
