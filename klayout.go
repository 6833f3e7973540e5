package klayout

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"
)

type (
	// Attr is a log attribute
	Attr struct {
		Key   string
		Value any
	}

	// Event is a log event
	Event struct {
		Level   Level
		Time    time.Time
		Path    string
		Message string
		Frame   *StackFrameInfo
		Attrs   []Attr
		Context context.Context
	}
)

// AString creates a string [Attr]
func AString(key string, value string) Attr {
	return Attr{Key: key, Value: value}
}

// AInt creates an int [Attr]
func AInt(key string, value int) Attr {
	return Attr{Key: key, Value: value}
}

// AAny creates an [Attr] of any value
func AAny(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// NewEvent creates a new log event
func NewEvent(level Level, t time.Time, path string, msg string, frame *StackFrameInfo, ctx context.Context) Event {
	return Event{
		Level:   level,
		Time:    t,
		Path:    path,
		Message: msg,
		Frame:   frame,
		Context: ctx,
	}
}

type (
	// Logger writes logs with context
	Logger interface {
		Enabled(level Level) bool
		Log(ctx context.Context, level Level, skip int, msg string, attrs ...Attr)
	}

	// SubLogger is a logger that can create subloggers
	SubLogger interface {
		Logger
		Sublogger(pathSegment string, attrs ...Attr) Logger
	}

	// Handler is a log event handler
	Handler interface {
		Handle(e Event)
		CaptureLevel() CaptureLevel
	}

	// KLogger is a context logger that writes logs to a [Handler]
	KLogger struct {
		handler       Handler
		minLevel      Level
		clock         Clock
		resolver      FrameResolver
		pathSegment   string
		pathSeparator string
		attrs         []Attr
		parent        *KLogger
	}

	// LoggerOpt is an options function for [New]
	LoggerOpt = func(l *KLogger)

	// DiscardHandler is a [Handler] that drops every event
	DiscardHandler struct{}
)

// Handle implements [Handler]
func (h DiscardHandler) Handle(e Event) {}

// CaptureLevel implements [Handler]
func (h DiscardHandler) CaptureLevel() CaptureLevel {
	return CaptureNone
}

// New creates a new [Logger]
func New(opts ...LoggerOpt) Logger {
	l := &KLogger{
		minLevel:      LevelInfo,
		handler:       NewTextHandler(os.Stdout, DefaultLayout()),
		clock:         RealTime{},
		resolver:      RuntimeFrameResolver{},
		pathSegment:   "",
		pathSeparator: ".",
		parent:        nil,
	}
	for _, i := range opts {
		i(l)
	}
	if l.handler == nil {
		l.handler = DiscardHandler{}
	}
	if l.clock == nil {
		l.clock = RealTime{}
	}
	if l.resolver == nil {
		l.resolver = RuntimeFrameResolver{}
	}
	return l
}

// OptMinLevel returns a [LoggerOpt] that sets [KLogger] minLevel
func OptMinLevel(level Level) LoggerOpt {
	return func(l *KLogger) {
		l.minLevel = level
	}
}

// OptMinLevelStr returns a [LoggerOpt] that sets [KLogger] minLevel from a string
func OptMinLevelStr(level string) LoggerOpt {
	return OptMinLevel(LevelFromString(level))
}

// OptHandler returns a [LoggerOpt] that sets [KLogger] handler
func OptHandler(h Handler) LoggerOpt {
	return func(l *KLogger) {
		l.handler = h
	}
}

// OptClock returns a [LoggerOpt] that sets [KLogger] clock
func OptClock(c Clock) LoggerOpt {
	return func(l *KLogger) {
		l.clock = c
	}
}

// OptFrameResolver returns a [LoggerOpt] that sets [KLogger] resolver
func OptFrameResolver(r FrameResolver) LoggerOpt {
	return func(l *KLogger) {
		l.resolver = r
	}
}

// OptPath returns a [LoggerOpt] that sets [KLogger] path
func OptPath(segment string) LoggerOpt {
	return func(l *KLogger) {
		l.pathSegment = segment
	}
}

// OptPathSeparator returns a [LoggerOpt] that sets [KLogger] pathSeparator
func OptPathSeparator(separator string) LoggerOpt {
	return func(l *KLogger) {
		l.pathSeparator = separator
	}
}

// OptAttrs returns a [LoggerOpt] that sets [KLogger] attrs
func OptAttrs(attrs ...Attr) LoggerOpt {
	return func(l *KLogger) {
		l.attrs = append(l.attrs, attrs...)
	}
}

// Enabled implements [Logger] and returns if the logger is enabled for a level
func (l *KLogger) Enabled(level Level) bool {
	return level >= l.minLevel
}

// Log implements [Logger] and logs an event to its handler
func (l *KLogger) Log(ctx context.Context, level Level, skip int, msg string, attrs ...Attr) {
	if !l.Enabled(level) {
		return
	}

	t := l.clock.Time()
	var frame *StackFrameInfo
	// walking the stack is skipped entirely when no renderer needs a caller
	if c := l.handler.CaptureLevel(); c > CaptureNone {
		frame = l.resolver.ResolveFrame(linepc(1+skip), c)
	}
	var fullpath strings.Builder
	l.buildPath(&fullpath)

	ev := NewEvent(level, t, fullpath.String(), msg, frame, ctx)
	ev.Attrs = l.collectAttrs(ctx, attrs)

	l.handler.Handle(ev)
}

func linepc(skip int) uintptr {
	var callers [1]uintptr
	if n := runtime.Callers(2+skip, callers[:]); n < 1 {
		return 0
	}
	return callers[0]
}

func (l *KLogger) buildPath(b *strings.Builder) {
	if l.parent != nil {
		l.parent.buildPath(b)
	}
	if l.pathSegment != "" {
		if b.Len() > 0 {
			b.WriteString(l.pathSeparator)
		}
		b.WriteString(l.pathSegment)
	}
}

func (l *KLogger) collectAttrs(ctx context.Context, attrs []Attr) []Attr {
	var all []Attr
	seen := map[string]struct{}{}
	all = mergeAttrs(all, attrs, seen)
	for c := getCtxAttrs(ctx); c != nil; c = c.parent {
		all = mergeAttrs(all, c.attrs, seen)
	}
	for k := l; k != nil; k = k.parent {
		all = mergeAttrs(all, k.attrs, seen)
	}
	return all
}

func mergeAttrs(dest, from []Attr, seen map[string]struct{}) []Attr {
	for _, i := range from {
		if _, ok := seen[i.Key]; ok {
			continue
		}
		dest = append(dest, i)
		seen[i.Key] = struct{}{}
	}
	return dest
}

// Sublogger implements [SubLogger] and creates a new sublogger
func (l *KLogger) Sublogger(pathSegment string, attrs ...Attr) Logger {
	return &KLogger{
		handler:       l.handler,
		minLevel:      l.minLevel,
		clock:         l.clock,
		resolver:      l.resolver,
		pathSegment:   pathSegment,
		pathSeparator: l.pathSeparator,
		attrs:         attrs,
		parent:        l,
	}
}

type (
	ctxKeyAttrs struct{}

	ctxAttrs struct {
		attrs  []Attr
		parent *ctxAttrs
	}
)

func getCtxAttrs(ctx context.Context) *ctxAttrs {
	if ctx == nil {
		return nil
	}
	v := ctx.Value(ctxKeyAttrs{})
	if v == nil {
		return nil
	}
	return v.(*ctxAttrs)
}

// CtxWithAttrs adds log attrs to context
func CtxWithAttrs(ctx context.Context, attrs ...Attr) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyAttrs{}, &ctxAttrs{
		attrs:  attrs,
		parent: getCtxAttrs(ctx),
	})
}
