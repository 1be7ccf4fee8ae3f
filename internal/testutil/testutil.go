// Package testutil holds helpers shared by package tests.
package testutil

import (
	"log/slog"
	"os"
)

func Ptr[T any](v T) *T {
	return &v
}

// Logger returns a logger that only reports errors.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}
