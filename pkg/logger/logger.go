package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string    // debug, info, warn, error
	Pretty bool      // Enable pretty console output
	Out    io.Writer // Defaults to stderr so stdout stays free for reports
}

// ParseLevel maps a level name to a zerolog level. Unknown names give info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a new structured logger
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Out
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// Adapter adapts a zerolog.Logger to the printf-style Logger interface used by
// the pricing engine.
type Adapter struct {
	zerolog.Logger
}

// NewAdapter wraps l.
func NewAdapter(l zerolog.Logger) *Adapter { return &Adapter{Logger: l} }

func (p *Adapter) Debugf(format string, args ...any) { p.Debug().Msgf(format, args...) }
func (p *Adapter) Infof(format string, args ...any)  { p.Info().Msgf(format, args...) }
func (p *Adapter) Warnf(format string, args ...any)  { p.Warn().Msgf(format, args...) }
func (p *Adapter) Errorf(format string, args ...any) { p.Error().Msgf(format, args...) }
