package logger

import (
	"log/slog"

	"github.com/yuya-takeyama/dedup-s3-sync/internal/worker"
	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
)

// Phase logs one dispatcher run (hashing or uploading). Failures are logged
// at error level as each item completes; everything else is debug.
type Phase[T any] struct {
	logger *slog.Logger
}

func NewPhase[T any](logger *slog.Logger, phase string) *Phase[T] {
	return &Phase[T]{logger: logger.With("phase", phase)}
}

func (l *Phase[T]) OnStart(item worker.Item, active int) {
	l.logger.Debug("item started", "item", item.Key, "active", active)
}

func (l *Phase[T]) OnComplete(ev worker.Event[T]) {
	res := ev.Result
	if res.Err != nil {
		args := []any{
			"item", res.Item.Key,
			"path", res.Item.Path,
			"completed", ev.Completed,
			"total", ev.Total,
			"error", res.Err,
		}
		if code := syncerrors.APIErrorCode(res.Err); code != "" {
			args = append(args, "code", code)
		}
		l.logger.Error("item failed", args...)
		return
	}
	l.logger.Debug("item processed", "item", res.Item.Key, "completed", ev.Completed, "total", ev.Total)
}

func (l *Phase[T]) OnDone(completed, total int) {
	l.logger.Debug("phase complete", "processed", completed, "total", total)
}
