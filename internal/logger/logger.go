package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output formats.
const (
	ConsoleFormat = "console"
	JSONFormat    = "json"
)

// Options configures the process-wide logger.
type Options struct {
	Level       string
	Format      string // console | json
	ServiceName string // added as service_name when set
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger with console output at level.
// The first call to Get or Init wins; later calls return the same instance.
func Get(level string) *Logger {
	return Init(Options{Level: level, Format: ConsoleFormat})
}

// Init builds the process-wide logger from opts on first use.
func Init(opts Options) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(opts)
	})
	return globalLogger
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return newNopLogger()
}
