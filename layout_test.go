package klayout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	t.Parallel()

	ev := Event{
		Level:   LevelWarn,
		Time:    time.Date(1991, time.August, 25, 20, 57, 8, 0, time.UTC),
		Path:    "base.sub",
		Message: "test message",
		Frame: &StackFrameInfo{
			DeclaringType: "example.com/app.Worker",
			Method:        "Run",
			File:          "/var/app/src/worker.go",
			Line:          42,
		},
		Attrs: []Attr{AString("f1", "v1"), AInt("n", 3), AString("spaced", "a b")},
	}

	for _, tc := range []struct {
		Test    string
		Layout  string
		Caps    Capabilities
		Exp     string
		Capture CaptureLevel
	}{
		{
			Test:    "renders all renderers",
			Layout:  "${time} ${level} [${path}] ${callsite} ${message} ${attrs}",
			Caps:    DefaultCapabilities(),
			Exp:     `1991-08-25T20:57:08Z WARN [base.sub] example.com/app.Worker.Run test message f1=v1 n=3 spaced="a b"`,
			Capture: CaptureWithoutSource,
		},
		{
			Test:    "renders callsite options",
			Layout:  "${callsite:className=false:fileName=true:includeSourcePath=false} - ${message}",
			Caps:    DefaultCapabilities(),
			Exp:     "Run(worker.go:42) - test message",
			Capture: CaptureMax,
		},
		{
			Test:    "parses option keys case insensitively",
			Layout:  "${CallSite:METHODNAME=0:FileName=1}",
			Caps:    DefaultCapabilities(),
			Exp:     "example.com/app.Worker(/var/app/src/worker.go:42)",
			Capture: CaptureMax,
		},
		{
			Test:    "requires no capture without callsite",
			Layout:  "${level}: ${message}",
			Caps:    DefaultCapabilities(),
			Exp:     "WARN: test message",
			Capture: CaptureNone,
		},
		{
			Test:    "takes max capture of all callsites",
			Layout:  "${callsite} ${callsite:fileName=true:className=false:methodName=false}",
			Caps:    DefaultCapabilities(),
			Exp:     "example.com/app.Worker.Run (/var/app/src/worker.go:42)",
			Capture: CaptureMax,
		},
		{
			Test:    "renders callsite without file line capture",
			Layout:  "${callsite}",
			Caps:    Capabilities{FileLineCapture: false},
			Exp:     "example.com/app.Worker.Run",
			Capture: CaptureWithoutSource,
		},
		{
			Test:    "renders literal text",
			Layout:  "plain text",
			Caps:    DefaultCapabilities(),
			Exp:     "plain text",
			Capture: CaptureNone,
		},
		{
			Test:    "renders escaped renderer start",
			Layout:  "cost $${level} $5 {x} } ${message}",
			Caps:    DefaultCapabilities(),
			Exp:     "cost ${level} $5 {x} } test message",
			Capture: CaptureNone,
		},
		{
			Test:    "escapes with the dollar before the renderer start",
			Layout:  "$$${level}",
			Caps:    DefaultCapabilities(),
			Exp:     "$${level}",
			Capture: CaptureNone,
		},
		{
			Test:    "renders empty layout",
			Layout:  "",
			Caps:    DefaultCapabilities(),
			Exp:     "",
			Capture: CaptureNone,
		},
	} {
		tc := tc
		t.Run(tc.Test, func(t *testing.T) {
			t.Parallel()

			assert := require.New(t)

			l, err := ParseLayout(tc.Layout, tc.Caps)
			assert.NoError(err)
			assert.Equal(tc.Exp, l.Render(&ev))
			assert.Equal(tc.Capture, l.CaptureLevel())
		})
	}

	for _, tc := range []struct {
		Test   string
		Layout string
		Caps   Capabilities
		Err    error
	}{
		{
			Test:   "unknown renderer",
			Layout: "${bogus}",
			Caps:   DefaultCapabilities(),
			Err:    ErrInvalidLayout,
		},
		{
			Test:   "unterminated renderer",
			Layout: "${level",
			Caps:   DefaultCapabilities(),
			Err:    ErrInvalidLayout,
		},
		{
			Test:   "unknown callsite option",
			Layout: "${callsite:bogus=true}",
			Caps:   DefaultCapabilities(),
			Err:    ErrInvalidLayout,
		},
		{
			Test:   "malformed callsite option",
			Layout: "${callsite:fileName}",
			Caps:   DefaultCapabilities(),
			Err:    ErrInvalidLayout,
		},
		{
			Test:   "invalid callsite option value",
			Layout: "${callsite:fileName=maybe}",
			Caps:   DefaultCapabilities(),
			Err:    ErrInvalidLayout,
		},
		{
			Test:   "option on renderer without options",
			Layout: "${message:upper=true}",
			Caps:   DefaultCapabilities(),
			Err:    ErrInvalidLayout,
		},
		{
			Test:   "file line capture unsupported",
			Layout: "${callsite:fileName=true}",
			Caps:   Capabilities{FileLineCapture: false},
			Err:    ErrFileLineUnsupported,
		},
	} {
		tc := tc
		t.Run(tc.Test, func(t *testing.T) {
			t.Parallel()

			assert := require.New(t)

			l, err := ParseLayout(tc.Layout, tc.Caps)
			assert.Error(err)
			assert.True(errors.Is(err, tc.Err))
			assert.Nil(l)
		})
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	t.Run("renders attrs", func(t *testing.T) {
		t.Parallel()

		assert := require.New(t)

		l := NewLayout(AttrsRenderer{})
		assert.Equal(`a=1 b="" c="x=y" d=some-error`, l.Render(&Event{
			Attrs: []Attr{AInt("a", 1), AString("b", ""), AString("c", "x=y"), AAny("d", errors.New("some-error"))},
		}))
		assert.Equal("", l.Render(&Event{}))
	})

	t.Run("default layout captures without source", func(t *testing.T) {
		t.Parallel()

		assert := require.New(t)

		assert.Equal(CaptureWithoutSource, DefaultLayout().CaptureLevel())
	})
}
