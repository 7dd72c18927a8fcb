/*
Package logging provides a zerolog backed implementation of the nexus
stdlog.StdLog interface, so that the nexus client and the application
component write to the same structured log.

*/
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gammazero/nexus/v3/stdlog"
	"github.com/rs/zerolog"
)

// Config configures a Logger.
type Config struct {
	// Output is where log records are written.  Defaults to os.Stdout.
	Output io.Writer
	// Level is the minimum level logged.  Print* calls log at info level.
	Level zerolog.Level
	// Timestamp adds an RFC3339 timestamp to every record.
	Timestamp bool
	// NoColor disables ANSI colors in console output.
	NoColor bool
	// JSON writes JSON records instead of console formatted lines.
	JSON bool
}

// DefaultConfig returns the runtime logging configuration.
func DefaultConfig() Config {
	return Config{
		Output:    os.Stdout,
		Level:     zerolog.InfoLevel,
		Timestamp: true,
	}
}

// Logger adapts a zerolog.Logger to stdlog.StdLog.
type Logger struct {
	zl zerolog.Logger
}

var _ stdlog.StdLog = (*Logger)(nil)

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.RFC3339,
		}
	}
	ctx := zerolog.New(out).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return &Logger{zl: ctx.Logger()}
}

// With returns a child logger that adds key=value to every record.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger { return l.zl }

// Print logs at info level.  Arguments are handled in the manner of
// fmt.Print.
func (l *Logger) Print(v ...interface{}) {
	l.zl.Info().Msg(fmt.Sprint(v...))
}

// Println logs at info level.  Arguments are handled in the manner of
// fmt.Println.
func (l *Logger) Println(v ...interface{}) {
	l.zl.Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Printf logs at info level.  Arguments are handled in the manner of
// fmt.Printf.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}
