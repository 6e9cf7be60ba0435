package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the time format used by ConsoleAppender.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries: a narrower surface than
// zapcore.Core, so a planning run can be told to additionally log to a file
// or an in-memory buffer without reimplementing Core's Enabled/With/Check
// bookkeeping for every new sink.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync flushes any buffered logs. Called at shutdown.
	Sync() error
}

// ConsoleAppender writes human-readable lines from log events to an
// io.Writer.
type ConsoleAppender struct {
	io.Writer
}

// NewStdoutAppender creates an appender that prints to stdout.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{os.Stdout}
}

// NewWriterAppender creates an appender that prints to writer.
func NewWriterAppender(writer io.Writer) ConsoleAppender {
	return ConsoleAppender{writer}
}

// NewFileAppender creates an Appender that writes to filename, first
// rotating any existing file at that path aside so each call starts a fresh
// file. Size-based rollover is effectively disabled, so one run's file grows
// without a practical bound. The returned io.Closer closes the underlying
// file.
func NewFileAppender(filename string) (Appender, io.Closer) {
	rotator := &lumberjack.Logger{
		Filename: filename,
		// Effectively unbounded; rollover happens on process restart via
		// the explicit Rotate call below, not on size.
		MaxSize: 1024 * 1024,
	}
	if err := rotator.Rotate(); err != nil {
		fmt.Fprintf(os.Stderr, "logging: error rotating log file %q: %v\n", filename, err)
	}
	return NewWriterAppender(rotator), rotator
}

// NewLoggerWithAppenders builds a Logger named name that fans every log
// entry out to each of appenders, filtering at the given minimum level.
// Used by callers of Planner.Plan that want a durable record of a long
// planning run (e.g. to a rotated file via NewFileAppender) alongside
// normal stderr output.
func NewLoggerWithAppenders(name string, level zapcore.Level, appenders ...Appender) Logger {
	core := &appenderCore{level: level, appenders: appenders}
	return &zapLogger{sugar: zap.New(core).Sugar().Named(name)}
}

// appenderCore adapts a set of Appenders to the zapcore.Core interface so
// they can back a zap.Logger directly.
type appenderCore struct {
	level     zapcore.Level
	appenders []Appender
	fields    []zapcore.Field
}

func (c *appenderCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.level
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &appenderCore{level: c.level, appenders: c.appenders, fields: merged}
}

func (c *appenderCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)

	var firstErr error
	for _, a := range c.appenders {
		if err := a.Write(entry, all); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *appenderCore) Sync() error {
	var firstErr error
	for _, a := range c.appenders {
		if err := a.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ZapcoreFieldsToJSON serializes fields into a JSON object, in field order
// (unlike a map's randomized iteration order).
func ZapcoreFieldsToJSON(fields []zapcore.Field) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			// The JSON encoder can panic on a Field whose Type and value
			// disagree; this can happen for fields built from loosely typed
			// sources. Recover rather than take down the caller's goroutine.
			if perr, ok := r.(error); ok {
				err = fmt.Errorf("panic serializing log fields: %w", perr)
				return
			}
			err = fmt.Errorf("panic serializing log fields: %v", r)
		}
	}()
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := enc.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write outputs the log entry to the underlying stream.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	const maxParts = 10
	parts := make([]string, 0, maxParts)
	parts = append(parts, entry.Time.UTC().Format(DefaultTimeFormatStr))
	parts = append(parts, strings.ToUpper(entry.Level.String()))
	parts = append(parts, entry.LoggerName)
	if entry.Caller.Defined {
		parts = append(parts, callerToString(&entry.Caller))
	}
	parts = append(parts, entry.Message)

	if len(fields) == 0 {
		fmt.Fprintln(appender.Writer, strings.Join(parts, "\t")) //nolint:errcheck
		return nil
	}

	fieldsJSON, err := ZapcoreFieldsToJSON(fields)
	if err != nil {
		if errJSON, marshalErr := json.Marshal(map[string]string{"logging_err": err.Error()}); marshalErr == nil {
			parts = append(parts, string(errJSON))
		} else {
			parts = append(parts, err.Error())
		}
	} else {
		parts = append(parts, fieldsJSON)
	}

	fmt.Fprintln(appender.Writer, strings.Join(parts, "\t")) //nolint:errcheck
	return nil
}

// Sync is a no-op: ConsoleAppender never buffers.
func (appender ConsoleAppender) Sync() error {
	return nil
}

// callerToString keeps only the trailing "<package>/<file>:<line>" of a
// full caller path; caller.Defined must be true.
func callerToString(caller *zapcore.EntryCaller) string {
	cnt := 0
	idx := strings.LastIndexFunc(caller.File, func(rn rune) bool {
		if rn == '/' {
			cnt++
		}
		return cnt == 2
	})
	return fmt.Sprintf("%s:%d", caller.File[idx+1:], caller.Line)
}
