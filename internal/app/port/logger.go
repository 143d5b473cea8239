package port

// Logger is the structured logging surface handed to every component.
// Args are alternating key/value pairs, as with log/slog.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
