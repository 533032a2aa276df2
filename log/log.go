package log

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
)

type (
	Attr    = slog.Attr
	Handler = slog.Handler
)

// discardHandler matches the behavior of slog.DiscardHandler, which is
// unavailable before Go 1.24.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

var DiscardHandler Handler = discardHandler{}

// Logger is the interface expected by the backing MQTT client package
// for its ERROR, WARN, and DEBUG loggers.
type Logger interface {
	Println(v ...any)
	Printf(format string, v ...any)
}

type logger struct {
	*slog.Logger
	with []any
}

var (
	level         slog.LevelVar
	defaultLogger = &logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level})),
	}
)

// With adds the given attributes to every record logged by the
// default logger.
func With(args ...any) {
	defaultLogger.Logger = defaultLogger.Logger.With(args...)
	defaultLogger.with = args
}

func DefaultLogger() Logger {
	return defaultLogger
}

// SetLogLevel sets the minimum level of the default logger.
func SetLogLevel(l Level) {
	level.Set(slog.Level(l))
}

// SetHandler sets the default logger's handler to the one given.
func SetHandler(h Handler) {
	defaultLogger.Logger = slog.New(h).With(defaultLogger.with...)
}

func SetOutput(w io.Writer) {
	log.SetOutput(w)
	SetHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level}))
}

// SetJSONHandler sets the default logger's handler to a JSON handler
// writing to w.
func SetJSONHandler(w io.Writer) {
	SetHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: &level}))
}

// Error logs msg at [LevelError]. A non-nil err is logged as the
// "cause" attribute ahead of args.
func Error(msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{"cause", err}, args...)
	}
	defaultLogger.Error(msg, args...)
}

// Fatal logs like [Error] and exits with status 1.
func Fatal(msg string, err error, args ...any) {
	Error(msg, err, args...)
	os.Exit(1)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Println(v ...any) {
	defaultLogger.Info(fmt.Sprintln(v...))
}

func Printf(format string, v ...any) {
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

func (l *logger) Println(v ...any) {
	l.Info(fmt.Sprintln(v...))
}

func (l *logger) Printf(format string, v ...any) {
	l.Info(fmt.Sprintf(format, v...))
}

type warnLogger struct{}

// WarnLogger returns a [Logger] that logs at [LevelWarn].
func WarnLogger() Logger {
	return warnLogger{}
}
func (warnLogger) Println(v ...any)               { Warn(fmt.Sprintln(v...)) }
func (warnLogger) Printf(format string, v ...any) { Warn(fmt.Sprintf(format, v...)) }

type errorLogger struct{}

// ErrorLogger returns a [Logger] that logs at [LevelError].
func ErrorLogger() Logger {
	return errorLogger{}
}
func (errorLogger) Println(v ...any)               { defaultLogger.Error(fmt.Sprintln(v...)) }
func (errorLogger) Printf(format string, v ...any) { defaultLogger.Error(fmt.Sprintf(format, v...)) }

type debugLogger struct{}

// DebugLogger returns a [Logger] that logs at [LevelDebug].
func DebugLogger() Logger {
	return debugLogger{}
}
func (debugLogger) Println(v ...any)               { Debug(fmt.Sprintln(v...)) }
func (debugLogger) Printf(format string, v ...any) { Debug(fmt.Sprintf(format, v...)) }
