package core

// Logger is any service that can report application errors.
// Implementations may inspect args for structured context.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, err error, args ...interface{})
}
