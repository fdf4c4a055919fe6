package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	slogmulti "github.com/samber/slog-multi"
)

// Options controls where and how much is logged.
type Options struct {
	Quiet   bool
	Verbose bool
	// LogFile, when set, receives every record at debug level in addition
	// to stderr.
	LogFile string
	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

// New builds the process logger. The returned close func releases the log
// file, if any, and is always safe to call.
func New(opts Options) (*slog.Logger, func() error, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	handler := slog.Handler(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level(opts)}))
	closer := func() error { return nil }

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, closer, fmt.Errorf("failed to open log file: %w", err)
		}
		handler = slogmulti.Fanout(
			handler,
			slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
		closer = f.Close
	}

	return slog.New(handler), closer, nil
}

func level(opts Options) slog.Level {
	switch {
	case opts.Verbose:
		return slog.LevelDebug
	case opts.Quiet:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type contextKey struct{}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// PrintSummary prints a summary of the sync operation
func PrintSummary(w io.Writer, quiet bool, uploaded, failed int, bytesUploaded int64, duration time.Duration) {
	if quiet && failed == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "Uploaded: %d files (%s)\n", uploaded, formatBytes(bytesUploaded))
	if failed > 0 {
		fmt.Fprintf(w, "Errors: %d\n", failed)
	}
	fmt.Fprintf(w, "Duration: %s\n", duration.Round(time.Millisecond))
}

// formatBytes formats bytes in human readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
