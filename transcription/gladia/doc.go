// Package gladia implements transcription.Client for the Gladia v2
// pre-recorded API: upload, submit and poll against result_url.
package gladia
