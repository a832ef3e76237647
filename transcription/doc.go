// Package transcription defines the remote speech-to-text contract used by
// the voice pipeline: upload audio, submit a job, poll for the transcript.
// The gladia subpackage implements it against the Gladia v2 API.
package transcription
