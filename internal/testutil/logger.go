package testutil

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/seesakulchai/scc-api/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))}
}

// MakeBufferLogger returns a debug-level logger writing into the returned buffer.
func MakeBufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.NewWithWriter(buf, int(slog.LevelDebug)), buf
}
