package internal

// Internal logging utility.

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type Logger struct {
	logLevel LogLevel
	logger   *log.Logger
}

type LogLevel int

const (
	// error levels that should almost always be printed
	LevelFatal LogLevel = iota // error that must stop the program
	LevelError                 // error that does not need to stop execution

	// debugging levels, okay to disable
	LevelWarn // something may be wrong, but not necessarily an error
	LevelInfo // nothing wrong, informational only

	// Production code by default only shows warnings and above.
	LogLevelDefault = LevelWarn

	// min, max levels for setting print level
	LevelMin = LevelFatal
	LevelMax = LevelInfo
)

var levelToCharm = []log.Level{
	log.FatalLevel,
	log.ErrorLevel,
	log.WarnLevel,
	log.InfoLevel,
}

// NewLogger returns a logger writing to stderr. prefix names the package.
func NewLogger(prefix string) *Logger {
	return NewLoggerTo(os.Stderr, prefix)
}

// NewLoggerTo is NewLogger with a different destination.
func NewLoggerTo(w io.Writer, prefix string) *Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		Level:           levelToCharm[LogLevelDefault],
	})
	return &Logger{logLevel: LogLevelDefault, logger: logger}
}

func (l *Logger) LogLevel() LogLevel {
	return l.logLevel
}

// SetLogLevel returns the old level
func (l *Logger) SetLogLevel(level LogLevel) LogLevel {
	if level < LevelMin || level > LevelMax {
		panic("trying to set invalid log level")
	}
	old := l.logLevel
	l.logLevel = level
	l.logger.SetLevel(levelToCharm[level])
	return old
}

// LevelFromInt maps the public 0 (fatal only) to 3 (everything) scale,
// clamping values outside it.
func LevelFromInt(level int) LogLevel {
	switch {
	case level <= 0:
		return LevelFatal
	case level == 1:
		return LevelError
	case level == 2:
		return LevelWarn
	}
	return LevelInfo
}

// With returns a logger that adds the key/value pairs to every message.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{logLevel: l.logLevel, logger: l.logger.With(keyvals...)}
}

func (l *Logger) Info(msg string, keyvals ...any)  { l.logger.Info(msg, keyvals...) }
func (l *Logger) Infof(format string, v ...any)    { l.logger.Infof(format, v...) }
func (l *Logger) Warn(msg string, keyvals ...any)  { l.logger.Warn(msg, keyvals...) }
func (l *Logger) Warnf(format string, v ...any)    { l.logger.Warnf(format, v...) }
func (l *Logger) Error(msg string, keyvals ...any) { l.logger.Error(msg, keyvals...) }
func (l *Logger) Errorf(format string, v ...any)   { l.logger.Errorf(format, v...) }

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, keyvals ...any) { l.logger.Fatal(msg, keyvals...) }
func (l *Logger) Fatalf(format string, v ...any)   { l.logger.Fatalf(format, v...) }
