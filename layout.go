package klayout

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"xorkevin.dev/kerrors"
)

var (
	// ErrInvalidLayout is returned when a layout string cannot be parsed
	ErrInvalidLayout = errors.New("Invalid layout")
)

type (
	// Renderer appends a fragment of a log line for an event
	Renderer interface {
		Render(b *bytes.Buffer, e *Event)
	}

	// CaptureRequirer is implemented by renderers that need caller
	// information
	CaptureRequirer interface {
		CaptureLevel() CaptureLevel
	}

	// LiteralRenderer renders fixed text
	LiteralRenderer string

	// TimeRenderer renders the event time in RFC3339 with nanoseconds
	TimeRenderer struct{}

	// LevelRenderer renders the event level
	LevelRenderer struct{}

	// MessageRenderer renders the event message
	MessageRenderer struct{}

	// PathRenderer renders the logger path of an event
	PathRenderer struct{}

	// AttrsRenderer renders event attrs as space separated key=value pairs
	AttrsRenderer struct{}

	// Layout renders an event with an ordered list of renderers
	Layout struct {
		renderers []Renderer
		capture   CaptureLevel
	}
)

// Render implements [Renderer]
func (r LiteralRenderer) Render(b *bytes.Buffer, e *Event) {
	b.WriteString(string(r))
}

// Render implements [Renderer]
func (r TimeRenderer) Render(b *bytes.Buffer, e *Event) {
	b.Write(e.Time.AppendFormat(b.AvailableBuffer(), time.RFC3339Nano))
}

// Render implements [Renderer]
func (r LevelRenderer) Render(b *bytes.Buffer, e *Event) {
	b.WriteString(e.Level.String())
}

// Render implements [Renderer]
func (r MessageRenderer) Render(b *bytes.Buffer, e *Event) {
	b.WriteString(e.Message)
}

// Render implements [Renderer]
func (r PathRenderer) Render(b *bytes.Buffer, e *Event) {
	b.WriteString(e.Path)
}

// Render implements [Renderer]
func (r AttrsRenderer) Render(b *bytes.Buffer, e *Event) {
	for n, i := range e.Attrs {
		if n > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(i.Key)
		b.WriteByte('=')
		writeAttrValue(b, i.Value)
	}
}

func writeAttrValue(b *bytes.Buffer, v any) {
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case error:
		s = v.Error()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " =\"\n\t") {
		fmt.Fprintf(b, "%q", s)
		return
	}
	b.WriteString(s)
}

// NewLayout creates a new [*Layout]
func NewLayout(renderers ...Renderer) *Layout {
	capture := CaptureNone
	for _, i := range renderers {
		if k, ok := i.(CaptureRequirer); ok {
			capture = MaxCaptureLevel(capture, k.CaptureLevel())
		}
	}
	return &Layout{
		renderers: renderers,
		capture:   capture,
	}
}

// DefaultLayout returns a layout of time, level, path, callsite, message,
// and attrs
func DefaultLayout() *Layout {
	return NewLayout(
		TimeRenderer{},
		LiteralRenderer(" "),
		LevelRenderer{},
		LiteralRenderer(" "),
		PathRenderer{},
		LiteralRenderer(" "),
		NewCallSiteRenderer(DefaultCallSiteConfig()),
		LiteralRenderer(" "),
		MessageRenderer{},
		LiteralRenderer(" "),
		AttrsRenderer{},
	)
}

// CaptureLevel returns the least capture level satisfying every renderer of
// the layout
func (l *Layout) CaptureLevel() CaptureLevel {
	if l == nil {
		return CaptureNone
	}
	return l.capture
}

// Append appends the rendered event to b
func (l *Layout) Append(b *bytes.Buffer, e *Event) {
	if l == nil {
		return
	}
	for _, i := range l.renderers {
		i.Render(b, e)
	}
}

// Render returns the rendered event
func (l *Layout) Render(e *Event) string {
	var b bytes.Buffer
	l.Append(&b, e)
	return b.String()
}

// ParseLayout parses a layout of literal text and renderers of the form
// ${name} or ${name:option=value:option=value}.
//
// A renderer ends at the first '}', so option values cannot contain '}' or
// ':'. Literal "${" is written as "$${". Any other '$' or '}' outside of a
// renderer is literal text.
func ParseLayout(s string, caps Capabilities) (*Layout, error) {
	var renderers []Renderer
	for len(s) > 0 {
		i := strings.Index(s, "${")
		if i < 0 {
			renderers = append(renderers, LiteralRenderer(s))
			break
		}
		if i > 0 && s[i-1] == '$' {
			renderers = append(renderers, LiteralRenderer(s[:i-1]+"${"))
			s = s[i+2:]
			continue
		}
		if i > 0 {
			renderers = append(renderers, LiteralRenderer(s[:i]))
		}
		s = s[i+2:]
		j := strings.IndexByte(s, '}')
		if j < 0 {
			return nil, kerrors.WithMsg(fmt.Errorf("%w: unterminated renderer", ErrInvalidLayout), "Failed to parse layout")
		}
		r, err := parseRenderer(s[:j], caps)
		if err != nil {
			return nil, kerrors.WithMsg(err, "Failed to parse layout")
		}
		renderers = append(renderers, r)
		s = s[j+1:]
	}
	return NewLayout(renderers...), nil
}

func parseRenderer(spec string, caps Capabilities) (Renderer, error) {
	name, rest, _ := strings.Cut(spec, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	var opts [][2]string
	if rest != "" {
		for _, i := range strings.Split(rest, ":") {
			k, v, ok := strings.Cut(i, "=")
			if !ok {
				return nil, fmt.Errorf("%w: malformed option %s", ErrInvalidLayout, i)
			}
			opts = append(opts, [2]string{strings.TrimSpace(k), strings.TrimSpace(v)})
		}
	}

	if name == "callsite" {
		cfg := DefaultCallSiteConfig()
		for _, i := range opts {
			if err := cfg.setOption(i[0], i[1]); err != nil {
				return nil, err
			}
		}
		if err := cfg.Validate(caps); err != nil {
			return nil, err
		}
		return NewCallSiteRenderer(cfg), nil
	}

	var r Renderer
	switch name {
	case "time":
		r = TimeRenderer{}
	case "level":
		r = LevelRenderer{}
	case "message":
		r = MessageRenderer{}
	case "path":
		r = PathRenderer{}
	case "attrs":
		r = AttrsRenderer{}
	default:
		return nil, fmt.Errorf("%w: unknown renderer %s", ErrInvalidLayout, name)
	}
	if len(opts) > 0 {
		return nil, fmt.Errorf("%w: renderer %s takes no options", ErrInvalidLayout, name)
	}
	return r, nil
}
