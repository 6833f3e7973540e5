package klayout

import (
	"context"

	"golang.org/x/exp/slog"
)

type (
	// SlogHandler is an [slog.Handler] that forwards records to a [Handler]
	SlogHandler struct {
		MinLevel       Level
		Path           string
		GroupSeparator string
		Resolver       FrameResolver
		group          string
		attrs          []Attr
		handler        Handler
	}
)

// NewSlogHandler creates a new [*SlogHandler]
func NewSlogHandler(handler Handler) *SlogHandler {
	return &SlogHandler{
		MinLevel:       LevelDebug,
		Path:           "",
		GroupSeparator: ".",
		Resolver:       RuntimeFrameResolver{},
		group:          "",
		attrs:          nil,
		handler:        handler,
	}
}

func levelFromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

func (h *SlogHandler) clone() *SlogHandler {
	attrs := make([]Attr, len(h.attrs))
	copy(attrs, h.attrs)
	return &SlogHandler{
		MinLevel:       h.MinLevel,
		Path:           h.Path,
		GroupSeparator: h.GroupSeparator,
		Resolver:       h.Resolver,
		group:          h.group,
		attrs:          attrs,
		handler:        h.handler,
	}
}

func (h *SlogHandler) groupKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + h.GroupSeparator + key
}

func (h *SlogHandler) appendAttr(dest []Attr, prefix string, a slog.Attr) []Attr {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := h.groupKey(prefix, a.Key)
		for _, i := range v.Group() {
			dest = h.appendAttr(dest, p, i)
		}
		return dest
	}
	if a.Key == "" {
		return dest
	}
	return append(dest, Attr{
		Key:   h.groupKey(prefix, a.Key),
		Value: v.Any(),
	})
}

// Enabled implements [slog.Handler]
func (h *SlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return levelFromSlog(level) >= h.MinLevel
}

// Handle implements [slog.Handler]
func (h *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.handler == nil {
		return nil
	}
	var frame *StackFrameInfo
	if c := h.handler.CaptureLevel(); c > CaptureNone {
		resolver := h.Resolver
		if resolver == nil {
			resolver = RuntimeFrameResolver{}
		}
		frame = resolver.ResolveFrame(r.PC, c)
	}
	ev := NewEvent(levelFromSlog(r.Level), r.Time, h.Path, r.Message, frame, ctx)
	attrs := make([]Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = h.appendAttr(attrs, h.group, a)
		return true
	})
	ev.Attrs = attrs
	h.handler.Handle(ev)
	return nil
}

// WithAttrs implements [slog.Handler]
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, i := range attrs {
		h2.attrs = h2.appendAttr(h2.attrs, h2.group, i)
	}
	return h2
}

// WithGroup implements [slog.Handler]
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.group = h2.groupKey(h2.group, name)
	return h2
}
