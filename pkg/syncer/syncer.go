// Package syncer uploads local files whose content is not yet in a bucket.
package syncer

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/yuya-takeyama/dedup-s3-sync/internal/checksum"
	"github.com/yuya-takeyama/dedup-s3-sync/internal/logging"
	"github.com/yuya-takeyama/dedup-s3-sync/internal/walker"
	"github.com/yuya-takeyama/dedup-s3-sync/internal/worker"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/catalog"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/executor"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/logger"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/planner"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/progress"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/s3client"
)

type Options struct {
	SearchGlob   string
	Bucket       string
	Prefix       string
	DryRun       bool
	MaxUploads   int
	MaxFileRead  int
	Progress     progress.Style
	PlanJSONFile string
}

// Summary counts what a run found and did. RemoteFiles and LocalFiles count
// distinct digests.
type Summary struct {
	RemoteFiles   int
	LocalFiles    int
	HashFailed    int
	Planned       int
	Uploaded      int
	UploadFailed  int
	BytesUploaded int64
	DryRun        bool
}

type Syncer struct {
	client s3client.Client
	out    io.Writer
	hash   func(path string) (string, error)
}

// New creates a syncer that reports progress and counts to out.
func New(client s3client.Client, out io.Writer) *Syncer {
	return &Syncer{
		client: client,
		out:    out,
		hash:   checksum.CalculateFileMD5,
	}
}

type localFiles struct {
	index  planner.DigestIndex
	sizes  map[string]int64
	failed int
}

// Run lists the bucket and hashes local files concurrently, then uploads
// every local file whose digest is missing remotely. A listing or discovery
// failure aborts the run. Failed hashes and uploads are logged and counted;
// Run returns an error after the upload phase if any upload failed.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Summary, error) {
	log := logging.FromContext(ctx)

	w, err := walker.NewWalker(opts.SearchGlob)
	if err != nil {
		return nil, err
	}

	var (
		remote planner.DigestIndex
		local  *localFiles
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		idx, err := catalog.Build(gctx, s.client, opts.Bucket, opts.Prefix)
		if err != nil {
			return err
		}
		remote = idx
		log.Debug("listed bucket", "bucket", opts.Bucket, "prefix", opts.Prefix, "digests", len(idx))
		return nil
	})
	g.Go(func() error {
		l, err := s.hashLocal(gctx, w, opts)
		if err != nil {
			return err
		}
		local = l
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := planner.Plan(local.index, remote)
	summary := &Summary{
		RemoteFiles: len(remote),
		LocalFiles:  len(local.index),
		HashFailed:  local.failed,
		Planned:     len(plan),
		DryRun:      opts.DryRun,
	}

	fmt.Fprintln(s.out, "Found")
	fmt.Fprintf(s.out, " - Files Remote: %d\n", summary.RemoteFiles)
	fmt.Fprintf(s.out, " - Files Local: %d\n", summary.LocalFiles)

	uploader := executor.NewUploader(s.client, opts.Bucket, opts.Prefix)

	if opts.PlanJSONFile != "" {
		if err := writePlanResult(opts.PlanJSONFile, uploader, opts.Bucket, plan, summary); err != nil {
			return nil, fmt.Errorf("failed to write plan JSON: %w", err)
		}
	}

	if opts.DryRun {
		fmt.Fprintf(s.out, "Would upload %d files\n", len(plan))
		return summary, nil
	}

	fmt.Fprintf(s.out, "Will upload: %d\n", len(plan))
	if len(plan) == 0 {
		return summary, nil
	}

	// Failures are logged as they complete, ahead of the progress update.
	obs := worker.Observers[string]{
		logger.NewPhase[string](log, "upload"),
		progress.New[string](opts.Progress, s.out, "Uploading", len(plan)),
	}
	results := uploader.Execute(ctx, plan, opts.MaxUploads, obs)

	for _, res := range results.Ordered() {
		if res.Err != nil {
			summary.UploadFailed++
			continue
		}
		summary.Uploaded++
		summary.BytesUploaded += local.sizes[res.Item.Path]
		log.Debug("uploaded", "path", res.Item.Path, "key", res.Value)
	}

	if summary.UploadFailed > 0 {
		return summary, fmt.Errorf("%d uploads failed", summary.UploadFailed)
	}
	return summary, nil
}

// hashLocal hashes every matched file with at most MaxFileRead reads in
// flight. When two files share content the first path in glob order is kept.
func (s *Syncer) hashLocal(ctx context.Context, w *walker.Walker, opts Options) (*localFiles, error) {
	log := logging.FromContext(ctx)

	files, err := w.Walk()
	if err != nil {
		return nil, err
	}

	backlog := make([]worker.Item, len(files))
	sizes := make(map[string]int64, len(files))
	for i, f := range files {
		backlog[i] = worker.Item{Key: f.Path, Path: f.Path}
		sizes[f.Path] = f.Size
	}

	d := &worker.Dispatcher[string]{
		Limit:    opts.MaxFileRead,
		Observer: worker.Observers[string]{
			logger.NewPhase[string](log, "hash"),
			progress.New[string](opts.Progress, s.out, "Computing MD5s", len(backlog)),
		},
	}
	results := d.Run(ctx, backlog, func(ctx context.Context, item worker.Item) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return s.hash(item.Path)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	local := &localFiles{
		index: make(planner.DigestIndex, len(files)),
		sizes: sizes,
	}
	for _, res := range results.Ordered() {
		if res.Err != nil {
			local.failed++
			continue
		}
		if prev, ok := local.index[res.Value]; ok {
			log.Debug("duplicate content", "path", res.Item.Path, "kept", prev, "digest", res.Value)
			continue
		}
		local.index[res.Value] = res.Item.Path
	}
	return local, nil
}
