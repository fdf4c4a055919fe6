package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/yuya-takeyama/dedup-s3-sync/internal/worker"
)

// Style selects how a phase's progress is drawn.
type Style string

const (
	StylePercent Style = "percent"
	StyleBar     Style = "bar"
	StyleNone    Style = "none"
)

// ParseStyle validates a --progress value.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StylePercent, StyleBar, StyleNone:
		return Style(s), nil
	case "":
		return StylePercent, nil
	}
	return "", fmt.Errorf("unknown progress style %q (want percent, bar or none)", s)
}

// New returns an observer that draws progress for one dispatcher run of
// total items, labelled e.g. "Computing MD5s" or "Uploading".
func New[T any](style Style, w io.Writer, label string, total int) worker.Observer[T] {
	switch style {
	case StyleNone:
		return Discard[T]{}
	case StyleBar:
		return NewBar[T](w, label, total)
	default:
		return NewPercent[T](w, label)
	}
}

// Percent rewrites a single "<label> P%" line after every completion and
// ends it with a newline when the run is done.
type Percent[T any] struct {
	w       io.Writer
	label   string
	started bool
}

func NewPercent[T any](w io.Writer, label string) *Percent[T] {
	return &Percent[T]{w: w, label: label}
}

func (p *Percent[T]) OnStart(worker.Item, int) {
	if !p.started {
		p.started = true
		fmt.Fprintf(p.w, "%s 0.0%%", p.label)
	}
}

func (p *Percent[T]) OnComplete(ev worker.Event[T]) {
	fmt.Fprintf(p.w, "\r%s %.1f%%", p.label, ev.Percent())
}

func (p *Percent[T]) OnDone(int, int) {
	fmt.Fprintln(p.w)
}

// Bar draws a progressbar/v3 bar counting completed items.
type Bar[T any] struct {
	w     io.Writer
	bar   *progressbar.ProgressBar
	total int
}

func NewBar[T any](w io.Writer, label string, total int) *Bar[T] {
	b := &Bar[T]{w: w, total: total}
	if total == 0 {
		return b
	}
	b.bar = progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return b
}

func (b *Bar[T]) OnStart(worker.Item, int) {}

func (b *Bar[T]) OnComplete(worker.Event[T]) {
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

func (b *Bar[T]) OnDone(int, int) {
	if b.bar == nil {
		fmt.Fprintln(b.w)
		return
	}
	_ = b.bar.Finish()
}

// Discard ignores every event.
type Discard[T any] struct{}

func (Discard[T]) OnStart(worker.Item, int) {}
func (Discard[T]) OnComplete(worker.Event[T]) {}
func (Discard[T]) OnDone(int, int) {}
