package utils

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the text logger used by the command surfaces.
func NewLogger(level slog.Level, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = os.Stdout
	}
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
}
