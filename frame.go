package klayout

import (
	"runtime"
	"strings"
)

type (
	// CaptureLevel is how much caller information must be resolved for an
	// event
	CaptureLevel int

	// StackFrameInfo is the resolved caller frame of a log event.
	//
	// An empty string denotes an absent value. Line is only meaningful when
	// File is set.
	StackFrameInfo struct {
		Method        string
		DeclaringType string
		File          string
		Line          int
	}

	// FrameResolver resolves a program counter into a [*StackFrameInfo]
	FrameResolver interface {
		ResolveFrame(pc uintptr, level CaptureLevel) *StackFrameInfo
	}

	// RuntimeFrameResolver resolves frames with the go runtime symbol table
	RuntimeFrameResolver struct{}
)

// Capture levels
const (
	CaptureNone CaptureLevel = iota
	CaptureWithoutSource
	CaptureMax
)

// String implements [fmt.Stringer]
func (c CaptureLevel) String() string {
	switch c {
	case CaptureNone:
		return "NONE"
	case CaptureWithoutSource:
		return "WITHOUT_SOURCE"
	case CaptureMax:
		return "MAX"
	default:
		return "UNSET"
	}
}

// MaxCaptureLevel returns the greatest of the capture levels
func MaxCaptureLevel(levels ...CaptureLevel) CaptureLevel {
	m := CaptureNone
	for _, i := range levels {
		if i > m {
			m = i
		}
	}
	return m
}

// ResolveFrame implements [FrameResolver]
func (r RuntimeFrameResolver) ResolveFrame(pc uintptr, level CaptureLevel) *StackFrameInfo {
	if pc == 0 || level <= CaptureNone {
		return nil
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return frameFromSymbol(frame.Function, frame.File, frame.Line, level)
}

func frameFromSymbol(fn string, file string, line int, level CaptureLevel) *StackFrameInfo {
	if level <= CaptureNone {
		return nil
	}
	typ, method := SplitFunctionName(fn)
	f := &StackFrameInfo{
		Method:        method,
		DeclaringType: typ,
	}
	if level >= CaptureMax && file != "" {
		f.File = file
		f.Line = line
	}
	return f
}

// SplitFunctionName splits a go function symbol into the fully qualified
// name of its receiver type and the method name.
//
// Package level functions, including their function literals, have no
// declaring type. Function literals keep their suffix, e.g. "Run.func1".
func SplitFunctionName(fn string) (string, string) {
	if fn == "" {
		return "", ""
	}
	end := strings.IndexByte(fn, '[')
	if end < 0 {
		end = len(fn)
	}
	// the runtime escapes '.' in the last path element, so the first '.'
	// after the last '/' ends the package path
	pkgStart := strings.LastIndexByte(fn[:end], '/') + 1
	dot := strings.IndexByte(fn[pkgStart:], '.')
	if dot < 0 {
		return "", fn
	}
	pkg := fn[:pkgStart+dot]
	rest := fn[pkgStart+dot+1:]

	if strings.HasPrefix(rest, "(*") {
		k := strings.Index(rest, ").")
		if k < 0 {
			return "", rest
		}
		return pkg + "." + rest[2:k], rest[k+2:]
	}

	k := indexTopLevelDot(rest)
	if k < 0 {
		return "", rest
	}
	first, tail := rest[:k], rest[k+1:]
	if first == "glob" && strings.HasPrefix(tail, ".") {
		return "", rest
	}
	next := tail
	if n := indexTopLevelDot(tail); n >= 0 {
		next = tail[:n]
	}
	if isFuncLiteralSegment(next) {
		return "", rest
	}
	return pkg + "." + first, tail
}

// indexTopLevelDot returns the index of the first '.' outside of type
// parameter brackets
func indexTopLevelDot(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isFuncLiteralSegment(seg string) bool {
	for _, i := range []string{"func", "gowrap", "deferwrap"} {
		if strings.HasPrefix(seg, i) {
			seg = seg[len(i):]
			break
		}
	}
	if seg == "" {
		return false
	}
	for _, c := range seg {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
