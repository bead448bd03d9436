package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes the global zerolog logger.
//   - level: trace, debug, info, warn, error, fatal, panic
//   - format: "json" when the desktop shell collects logs, "pretty" for a terminal
//
// Output goes to stderr: the Electron main process reads the sidecar's stdout
// for the listening address.
func Setup(level, format string) zerolog.Logger {
	var writer io.Writer = os.Stderr

	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Str("service", "wawa-erp").
		Logger()
}
