package klayout

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"xorkevin.dev/kerrors"
)

func TestLevelLogger(t *testing.T) {
	t.Parallel()

	t.Run("logs at levels", func(t *testing.T) {
		t.Parallel()

		assert := require.New(t)

		var b bytes.Buffer
		layout := mustParseLayout(t, "${level}|${path}|${callsite:className=false}|${message}|${attrs}")
		l := NewLevelLogger(New(OptMinLevel(LevelDebug), OptHandler(NewTextHandler(&b, layout))))
		l.Debug(context.Background(), "a debug msg")
		l.Info(context.Background(), "an info msg", AString("k", "v"))
		l.Warn(context.Background(), "a warning")
		l.Error(context.Background(), "error msg")
		l.Sublogger("sub").Info(context.Background(), "sub msg")
		l.Err(context.Background(), kerrors.WithMsg(nil, "something failed"))
		l.Err(context.Background(), errors.New("plain error"))
		l.WarnErr(context.Background(), kerrors.WithMsg(nil, "some warning"), AString("k", "v"))

		lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
		assert.Len(lines, 8)

		for n, i := range []struct {
			Level string
			Path  string
			Msg   string
			Attrs string
		}{
			{Level: "DEBUG", Msg: "a debug msg"},
			{Level: "INFO", Msg: "an info msg", Attrs: "k=v"},
			{Level: "WARN", Msg: "a warning"},
			{Level: "ERROR", Msg: "error msg"},
			{Level: "INFO", Path: "sub", Msg: "sub msg"},
		} {
			parts := strings.Split(lines[n], "|")
			assert.Len(parts, 5)
			assert.Equal(i.Level, parts[0])
			assert.Equal(i.Path, parts[1])
			assert.True(strings.HasPrefix(parts[2], "TestLevelLogger.func"))
			assert.Equal(i.Msg, parts[3])
			assert.Equal(i.Attrs, parts[4])
		}

		{
			parts := strings.SplitN(lines[5], "|", 5)
			assert.Equal("ERROR", parts[0])
			assert.Equal("something failed", parts[3])
			assert.Contains(parts[4], `error="something failed`)
			assert.Contains(parts[4], "stacktrace=")
			assert.NotContains(parts[4], "stacktrace=NONE")
		}
		{
			parts := strings.SplitN(lines[6], "|", 5)
			assert.Equal("ERROR", parts[0])
			assert.Equal("plain-error", parts[3])
			assert.Equal(`error="plain error" stacktrace=NONE`, parts[4])
		}
		{
			parts := strings.SplitN(lines[7], "|", 5)
			assert.Equal("WARN", parts[0])
			assert.Equal("some warning", parts[3])
			assert.True(strings.HasSuffix(parts[4], " k=v"))
		}
	})
}
