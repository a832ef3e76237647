// Package voice runs one voice message through transcription and name
// resolution and hands the result to a Messenger.
//
// Stages run in order: upload, submit, poll, match, resolve. A failing
// stage stops the run and replaces the status indicator with a notice;
// matching problems never block delivery.
package voice
