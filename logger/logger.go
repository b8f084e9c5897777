package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON logger tagged with the service name and host.
func New(service string, level slog.Level) *slog.Logger {
	hostname, _ := os.Hostname()

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler).With(
		slog.String("service", service),
		slog.String("hostname", hostname),
	)
}

// Err formats err as a log attribute group.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Group("error", slog.String("msg", err.Error()))
}
