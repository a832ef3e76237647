package voice

import (
	"fmt"

	apperrors "github.com/kbukum/voicemention/errors"
)

// Status notices, in the order a run shows them.
const (
	NoticeStart   = "🎯 Начинаю обработку голосового сообщения..."
	NoticeUpload  = "📤 Загрузка аудио на сервер..."
	NoticeSubmit  = "🔍 Начинаю транскрибацию..."
	NoticeWaiting = "⏳ Ожидание результатов транскрибации..."
)

// Failure notices. Remote payloads are never shown to the chat.
const (
	NoticeUploadFailed        = "❌ Ошибка при загрузке аудио. Пожалуйста, попробуйте еще раз."
	NoticeSubmitFailed        = "❌ Ошибка при отправке на транскрибацию. Пожалуйста, попробуйте еще раз."
	NoticeTranscriptionFailed = "❌ Не удалось получить текст транскрибации. Пожалуйста, попробуйте еще раз."
	NoticeGenericFailure      = "❌ Произошла ошибка при обработке голосового сообщения.\n" +
		"Пожалуйста, попробуйте еще раз или обратитесь к администратору."
)

// Greeting introduces the bot.
const Greeting = "Привет! Я бот для транскрибации голосовых сообщений.\n" +
	"🎤 Отправь мне голосовое сообщение, и я преобразую его в текст.\n" +
	"📊 Используй /stats для просмотра статистики использования."

// FailureNotice picks the notice for a failed run.
func FailureNotice(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeUploadFailed:
		return NoticeUploadFailed
	case apperrors.ErrCodeSubmitFailed:
		return NoticeSubmitFailed
	case apperrors.ErrCodeTranscriptionFailed:
		return NoticeTranscriptionFailed
	default:
		return NoticeGenericFailure
	}
}

// SelectionAck confirms an applied choice.
func SelectionAck(foundName, handle string) string {
	return fmt.Sprintf("Имя '%s' заменено на @%s", foundName, handle)
}
