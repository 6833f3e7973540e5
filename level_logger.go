package klayout

import (
	"context"
	"errors"

	"xorkevin.dev/kerrors"
)

type (
	// LevelLogger provides convenience methods to log at particular levels
	LevelLogger struct {
		Logger Logger
	}
)

// NewLevelLogger creates a new [*LevelLogger]
func NewLevelLogger(l Logger) *LevelLogger {
	return &LevelLogger{
		Logger: l,
	}
}

// Sublogger returns a [*LevelLogger] of a sublogger of l
func (l *LevelLogger) Sublogger(pathSegment string, attrs ...Attr) *LevelLogger {
	if sl, ok := l.Logger.(SubLogger); ok {
		return NewLevelLogger(sl.Sublogger(pathSegment, attrs...))
	}
	return l
}

// Debug logs at [LevelDebug]
func (l *LevelLogger) Debug(ctx context.Context, msg string, attrs ...Attr) {
	l.Logger.Log(ctx, LevelDebug, 1, msg, attrs...)
}

// Info logs at [LevelInfo]
func (l *LevelLogger) Info(ctx context.Context, msg string, attrs ...Attr) {
	l.Logger.Log(ctx, LevelInfo, 1, msg, attrs...)
}

// Warn logs at [LevelWarn]
func (l *LevelLogger) Warn(ctx context.Context, msg string, attrs ...Attr) {
	l.Logger.Log(ctx, LevelWarn, 1, msg, attrs...)
}

// Error logs at [LevelError]
func (l *LevelLogger) Error(ctx context.Context, msg string, attrs ...Attr) {
	l.Logger.Log(ctx, LevelError, 1, msg, attrs...)
}

func getErrAttrs(err error) (string, []Attr) {
	msg := "plain-error"
	var kerr *kerrors.Error
	if errors.As(err, &kerr) {
		msg = kerr.Message
	}
	stacktrace := "NONE"
	var serr *kerrors.StackTrace
	if errors.As(err, &serr) {
		stacktrace = serr.StackString()
	}
	return msg, []Attr{
		AString("error", err.Error()),
		AString("stacktrace", stacktrace),
	}
}

// WarnErr logs an error at [LevelWarn]
func (l *LevelLogger) WarnErr(ctx context.Context, err error, attrs ...Attr) {
	msg, errAttrs := getErrAttrs(err)
	l.Logger.Log(ctx, LevelWarn, 1, msg, append(errAttrs, attrs...)...)
}

// Err logs an error at [LevelError]
func (l *LevelLogger) Err(ctx context.Context, err error, attrs ...Attr) {
	msg, errAttrs := getErrAttrs(err)
	l.Logger.Log(ctx, LevelError, 1, msg, append(errAttrs, attrs...)...)
}
