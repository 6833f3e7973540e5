package klayout

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"xorkevin.dev/kerrors"
)

const (
	callSiteNoType   = "<no type>"
	callSiteNoMethod = "<no method>"
)

var (
	// ErrFileLineUnsupported is returned when file and line capture is
	// requested on a runtime that cannot provide it
	ErrFileLineUnsupported = errors.New("File and line capture unsupported")
)

type (
	// Capabilities describes what caller information the runtime can capture
	Capabilities struct {
		FileLineCapture bool
	}

	// CallSiteConfig configures a [*CallSiteRenderer]
	CallSiteConfig struct {
		ClassName         bool
		MethodName        bool
		FileName          bool
		IncludeSourcePath bool
	}

	// CallSiteRenderer renders the declaring type, method, and optionally the
	// source location of an event caller.
	//
	// A CallSiteRenderer is safe for concurrent use. Its config is fixed at
	// construction.
	CallSiteRenderer struct {
		cfg CallSiteConfig
	}
)

// DefaultCapabilities returns the capabilities of the go runtime
func DefaultCapabilities() Capabilities {
	return Capabilities{
		FileLineCapture: true,
	}
}

// DefaultCallSiteConfig returns the default [CallSiteConfig]
func DefaultCallSiteConfig() CallSiteConfig {
	return CallSiteConfig{
		ClassName:         true,
		MethodName:        true,
		FileName:          false,
		IncludeSourcePath: true,
	}
}

// Validate checks that the config can be satisfied with caps
func (c CallSiteConfig) Validate(caps Capabilities) error {
	if c.FileName && !caps.FileLineCapture {
		return kerrors.WithMsg(ErrFileLineUnsupported, "Invalid callsite config")
	}
	return nil
}

// NewCallSiteRenderer creates a new [*CallSiteRenderer]
func NewCallSiteRenderer(cfg CallSiteConfig) *CallSiteRenderer {
	return &CallSiteRenderer{
		cfg: cfg,
	}
}

// Config returns the renderer config
func (r *CallSiteRenderer) Config() CallSiteConfig {
	return r.cfg
}

// CaptureLevel implements [CaptureRequirer]
func (r *CallSiteRenderer) CaptureLevel() CaptureLevel {
	if r.cfg.FileName {
		return CaptureMax
	}
	return CaptureWithoutSource
}

// Render implements [Renderer]
func (r *CallSiteRenderer) Render(b *bytes.Buffer, e *Event) {
	if e == nil {
		return
	}
	r.AppendFrame(b, e.Frame)
}

// AppendFrame appends the call site of frame to b. Nothing is written for a
// nil frame.
func (r *CallSiteRenderer) AppendFrame(b *bytes.Buffer, frame *StackFrameInfo) {
	if frame == nil {
		return
	}
	if r.cfg.ClassName {
		if frame.DeclaringType != "" {
			b.WriteString(frame.DeclaringType)
		} else {
			b.WriteString(callSiteNoType)
		}
	}
	if r.cfg.MethodName {
		// separator depends on whether the class was rendered at all, not on
		// whether a type was found
		if r.cfg.ClassName {
			b.WriteByte('.')
		}
		if frame.Method != "" {
			b.WriteString(frame.Method)
		} else {
			b.WriteString(callSiteNoMethod)
		}
	}
	if r.cfg.FileName && frame.File != "" {
		b.WriteByte('(')
		if r.cfg.IncludeSourcePath {
			b.WriteString(frame.File)
		} else {
			b.WriteString(sourceFileBase(frame.File))
		}
		b.WriteByte(':')
		b.Write(strconv.AppendInt(b.AvailableBuffer(), int64(frame.Line), 10))
		b.WriteByte(')')
	}
}

func sourceFileBase(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

func (c *CallSiteConfig) setOption(key, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: callsite option %s: %w", ErrInvalidLayout, key, err)
	}
	switch strings.ToLower(key) {
	case "classname":
		c.ClassName = v
	case "methodname":
		c.MethodName = v
	case "filename":
		c.FileName = v
	case "includesourcepath":
		c.IncludeSourcePath = v
	default:
		return fmt.Errorf("%w: unknown callsite option %s", ErrInvalidLayout, key)
	}
	return nil
}
