// Package logger provides structured logging on top of zerolog.
//
// Loggers are created from a Config (level, json or console format, output)
// and scoped with WithComponent, WithFields or WithContext. WithContext picks
// up the request id and the chat/user a voice pipeline is running for.
//
//	log := logger.Get("pipeline")
//	log.Info("transcript ready", logger.Fields(logger.FieldAudioSecs, 12.4))
package logger
