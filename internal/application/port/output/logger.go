package output

// LoggerPort takes a message plus alternating key/value pairs. Loggers
// returned by WithField are safe to share between the tool goroutines of a turn.
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithField(key string, value any) LoggerPort
	WithFields(fields map[string]any) LoggerPort

	Close() error
}
