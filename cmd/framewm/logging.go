package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/srlehn/framewm/internal/config"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/internal/logx"
)

func newLogger(cfg *config.Config) (_ *slog.Logger, closeFunc func(), _ error) {
	if cfg == nil {
		return nil, nil, errors.NilParam()
	}
	lvl, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = os.Stderr
	closeFunc = func() {}
	if len(cfg.LogFile) > 0 {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, errors.New(err)
		}
		w = f
		closeFunc = func() { _ = f.Close() }
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   lvl <= slog.LevelDebug,
		Level:       lvl,
		ReplaceAttr: logx.ReplaceLevelName,
	})
	return slog.New(h), closeFunc, nil
}
