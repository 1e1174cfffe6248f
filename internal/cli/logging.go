package cli

import (
	"io"
	"log/slog"
)

func setupLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	lvl := new(slog.LevelVar)
	switch {
	case verbose:
		lvl.Set(slog.LevelDebug)
	case quiet:
		lvl.Set(slog.LevelError)
	default:
		lvl.Set(slog.LevelWarn)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
