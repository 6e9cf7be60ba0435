// Package logging provides the structured logger the planning package logs
// through. It wraps zap rather than reinventing leveled, structured
// logging, the way every package in this codebase's lineage does.
package logging

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface the planning package depends on. It is
// intentionally narrow: printf-style methods at each level, plus a
// context-aware Debug variant for call sites that want to tag log lines
// with request-scoped fields carried on ctx in the future without changing
// every call site's signature today.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	CDebugf(ctx context.Context, template string, args ...interface{})
	// Named returns a child logger whose name is "parent.name".
	Named(name string) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger constructs a Logger writing to stderr at info level, named name.
func NewLogger(name string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a malformed config;
		// this configuration is static and known-good.
		panic(err)
	}
	return &zapLogger{sugar: z.Sugar().Named(name)}
}

// NewBlankLogger constructs a Logger that discards everything, for
// production paths that accept an optional logger and default it away.
func NewBlankLogger() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

// NewTestLogger constructs a Logger that writes through t.Log, at debug
// level, so test output only surfaces under `go test -v` or on failure.
func NewTestLogger(t testing.TB) Logger {
	writer := &testWriter{t: t}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(writer), zapcore.DebugLevel)
	z := zap.New(core)
	return &zapLogger{sugar: z.Sugar()}
}

type testWriter struct {
	t testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func (l *zapLogger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }
func (l *zapLogger) Infof(template string, args ...interface{})  { l.sugar.Infof(template, args...) }
func (l *zapLogger) Warnf(template string, args ...interface{})  { l.sugar.Warnf(template, args...) }
func (l *zapLogger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }

func (l *zapLogger) CDebugf(ctx context.Context, template string, args ...interface{}) {
	if err := ctx.Err(); err != nil {
		l.sugar.Debugf(fmt.Sprintf("%s (ctx: %s)", template, err), args...)
		return
	}
	l.sugar.Debugf(template, args...)
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{sugar: l.sugar.Named(name)}
}
