// Package sl содержит вспомогательные функции для работы с логгером slog:
// настройку логгера по окружению и единообразные атрибуты для ошибок и действий.
package sl

import (
	"io"
	"log/slog"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Action возвращает атрибут с типом действия store.
func Action(actionType string) slog.Attr {
	return slog.String("action", actionType)
}

// SetupLogger выбирает формат и уровень по окружению: текст и debug для local,
// JSON и debug для dev, JSON и info для остальных.
func SetupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
