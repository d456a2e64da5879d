package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"imgsort/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sends log lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithFile tees log lines into the file at path as well as the output.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// Logger wraps a logrus entry so fields can be accumulated with With.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// NewLogger creates a logger writing to stdout unless configured otherwise.
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	l := &Logger{}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.file = f
			out = io.MultiWriter(o.out, f)
		} else {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", o.file, err)
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug = debug
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithContext attaches ctx to the underlying entry.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

// WithError returns a child logger describing err, including the typed
// error details from internal/errors.
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

// Close releases the log file opened with WithFile, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Info(msg string) { l.log(logrus.InfoLevel, msg) }
func (l *Logger) Infof(format string, args ...interface{}) { l.log(logrus.InfoLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Warn(msg string) { l.log(logrus.WarnLevel, msg) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(logrus.WarnLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Error(msg string) { l.log(logrus.ErrorLevel, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(logrus.ErrorLevel, fmt.Sprintf(format, args...)) }

func (l *Logger) Debug(msg string) {
	if isDebug {
		l.log(logrus.DebugLevel, msg)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// log must be called directly from the exported method so the caller lookup
// lands on user code.
func (l *Logger) log(level logrus.Level, msg string) {
	entry := l.entry
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", errors.KindOf(err).String()),
	}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var moveErr *errors.MoveError
	if errors.As(err, &moveErr) {
		fields = append(fields, F("group", moveErr.Group()))
		if moveErr.File() != "" {
			fields = append(fields, F("file", moveErr.File()))
		}
	}
	return fields
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger describing err.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	logger.WithError(err).log(logrus.ErrorLevel, msg)
}

func Info(msg string) {
	logger.log(logrus.InfoLevel, msg)
}

func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

// Debug logs a message when debug output is enabled
func Debug(msg string) {
	if isDebug {
		logger.log(logrus.DebugLevel, msg)
	}
}

// Debugf logs a formatted message when debug output is enabled
func Debugf(format string, args ...interface{}) {
	if isDebug {
		logger.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning message
func Warn(msg string) {
	logger.log(logrus.WarnLevel, msg)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

// Error logs an error message
func Error(msg string) {
	logger.log(logrus.ErrorLevel, msg)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}
