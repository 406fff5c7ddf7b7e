package logx_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/internal/logx"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		``:        slog.LevelInfo,
		`trace`:   logx.LevelTrace,
		`TRACE`:   logx.LevelTrace,
		`debug`:   slog.LevelDebug,
		`warn`:    slog.LevelWarn,
		`error`:   slog.LevelError,
		`debug-2`: slog.LevelDebug - 2,
	}
	for in, want := range tests {
		got, err := logx.ParseLevel(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}
	_, err := logx.ParseLevel(`loud`)
	assert.Error(t, err)
}

func newBufLogger(buf *bytes.Buffer, lvl slog.Level) logx.LoggerProvider {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: lvl, ReplaceAttr: logx.ReplaceLevelName})
	return logx.Prov(slog.New(h))
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	prov := newBufLogger(&buf, logx.LevelTrace)
	logx.Trace(`event`, prov, `window`, `0x200`)
	assert.Contains(t, buf.String(), `level=TRACE`)
	assert.Contains(t, buf.String(), `msg=event`)
	assert.Contains(t, buf.String(), `window=0x200`)
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	prov := newBufLogger(&buf, slog.LevelInfo)
	logx.Trace(`trace`, prov)
	logx.Debug(`debug`, prov)
	assert.Empty(t, buf.String())
	logx.Warn(`warn`, prov)
	assert.Contains(t, buf.String(), `level=WARN`)
}

func TestIsErr(t *testing.T) {
	var buf bytes.Buffer
	prov := newBufLogger(&buf, slog.LevelInfo)
	assert.False(t, logx.IsErr(nil, prov, slog.LevelError))
	assert.Empty(t, buf.String())

	err := errors.Join(errors.New(`first`), nil, errors.New(`second`))
	require.Error(t, err)
	assert.True(t, logx.IsErr(err, prov, slog.LevelError))
	assert.Contains(t, buf.String(), `msg=first`)
	assert.Contains(t, buf.String(), `msg=second`)

	assert.True(t, logx.IsErr(err, nil, slog.LevelError))
	assert.NoError(t, logx.Err(nil, prov, slog.LevelError))
}

func TestNilLogger(t *testing.T) {
	prov := logx.Prov(nil)
	logx.Info(`dropped`, prov)
	logx.Error(`dropped`, nil)
	assert.True(t, logx.IsErr(errors.New(`dropped`), prov, slog.LevelError))
}

func TestTimeIt(t *testing.T) {
	var buf bytes.Buffer
	prov := newBufLogger(&buf, slog.LevelDebug)
	wantErr := errors.New(`failed`)
	err := logx.TimeIt(func() error { return wantErr }, `measured`, prov)
	assert.ErrorIs(t, err, wantErr)
	assert.Contains(t, buf.String(), `msg=measured`)
	assert.Contains(t, buf.String(), `duration=`)

	assert.Error(t, logx.TimeIt(nil, ``, prov))
}
