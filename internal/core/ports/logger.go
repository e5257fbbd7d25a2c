package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a diagnostic message, hidden unless the debug level is enabled.
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
