package logger

import (
	"log/slog"

	"network_resolver/internal/app/port"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// slogAdapter implements port.Logger on top of a *slog.Logger.
type slogAdapter struct {
	l *slog.Logger
}

// NewZapAdapter wraps a zap logger, routing through slog so args stay key/value pairs.
func NewZapAdapter(z *zap.Logger) port.Logger {
	return &slogAdapter{l: slog.New(zapslog.NewHandler(z.Core()))}
}

// Nop returns a logger that discards everything.
func Nop() port.Logger {
	return NewZapAdapter(zap.NewNop())
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
