package logger

import (
	"time"
)

// Field keys shared by every package that logs.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldChatID    = "chat_id"
	FieldMessageID = "message_id"
	FieldOperation = "operation"
	FieldStage     = "stage"
	FieldStatus    = "status"
	FieldBody      = "body"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldAudioSecs = "audio_seconds"
)

// Fields builds a map from alternating key-value pairs.
//
//	log.Info("chunk delivered", logger.Fields("index", 1, "total", 3))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]any {
	return map[string]any{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// StageFields describes one pipeline stage outcome.
func StageFields(stage string, d time.Duration) map[string]any {
	return map[string]any{
		FieldStage:    stage,
		FieldDuration: d.Milliseconds(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]any, err error) map[string]any {
	if fields == nil {
		fields = make(map[string]any)
	}
	fields[FieldError] = err.Error()
	return fields
}
