package klayout

import (
	"sort"

	"go.uber.org/zap/zapcore"
)

type (
	// ZapCore is a [zapcore.Core] that forwards entries to a [Handler].
	//
	// Caller information is only available when the zap logger is built with
	// zap.AddCaller.
	ZapCore struct {
		minLevel Level
		attrs    []Attr
		handler  Handler
	}
)

// NewZapCore creates a new [*ZapCore]
func NewZapCore(handler Handler, minLevel Level) *ZapCore {
	return &ZapCore{
		minLevel: minLevel,
		handler:  handler,
	}
}

func levelFromZap(l zapcore.Level) Level {
	switch {
	case l < zapcore.InfoLevel:
		return LevelDebug
	case l == zapcore.InfoLevel:
		return LevelInfo
	case l == zapcore.WarnLevel:
		return LevelWarn
	default:
		return LevelError
	}
}

func zapFieldAttrs(fields []zapcore.Field) []Attr {
	if len(fields) == 0 {
		return nil
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, i := range fields {
		i.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, AAny(k, enc.Fields[k]))
	}
	return attrs
}

// Enabled implements [zapcore.LevelEnabler]
func (c *ZapCore) Enabled(l zapcore.Level) bool {
	return levelFromZap(l) >= c.minLevel
}

// With implements [zapcore.Core]
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	attrs := make([]Attr, 0, len(c.attrs)+len(fields))
	attrs = append(attrs, c.attrs...)
	attrs = append(attrs, zapFieldAttrs(fields)...)
	return &ZapCore{
		minLevel: c.minLevel,
		attrs:    attrs,
		handler:  c.handler,
	}
}

// Check implements [zapcore.Core]
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write implements [zapcore.Core]
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if c.handler == nil {
		return nil
	}
	var frame *StackFrameInfo
	if ent.Caller.Defined {
		frame = frameFromSymbol(ent.Caller.Function, ent.Caller.File, ent.Caller.Line, c.handler.CaptureLevel())
	}
	ev := NewEvent(levelFromZap(ent.Level), ent.Time, ent.LoggerName, ent.Message, frame, nil)
	seen := map[string]struct{}{}
	ev.Attrs = mergeAttrs(nil, zapFieldAttrs(fields), seen)
	ev.Attrs = mergeAttrs(ev.Attrs, c.attrs, seen)
	c.handler.Handle(ev)
	return nil
}

// Sync implements [zapcore.Core]
func (c *ZapCore) Sync() error {
	return nil
}
