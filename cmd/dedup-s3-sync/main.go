package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuya-takeyama/dedup-s3-sync/internal/config"
	"github.com/yuya-takeyama/dedup-s3-sync/internal/logging"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/s3client"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/syncer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dedup-s3-sync --search-glob <glob> --bucket <bucket>",
		Short: "Upload local files to S3 unless their content is already there",
		Long: `dedup-s3-sync hashes every file matched by --search-glob and uploads only
those whose MD5 is not already the ETag of an object in the bucket. Objects are
stored as <md5><ext>, so identical content is never uploaded twice.

Every flag can also be set through the environment, e.g. DEDUP_S3_SYNC_BUCKET.`,
		Version:      fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	config.RegisterFlags(rootCmd.Flags())
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Quiet:   cfg.Quiet,
		Verbose: cfg.Verbose,
		LogFile: cfg.LogFile,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	awsCfg, err := s3client.LoadConfig(ctx, cfg.S3Options())
	if err != nil {
		return err
	}
	client := s3client.NewAWSClient(awsCfg, cfg.S3Options())

	var out io.Writer = cmd.OutOrStdout()
	if cfg.Quiet {
		out = io.Discard
	}

	started := time.Now()
	summary, runErr := syncer.New(client, out).Run(ctx, syncer.Options{
		SearchGlob:   cfg.SearchGlob,
		Bucket:       cfg.BucketName,
		Prefix:       cfg.BucketPrefix,
		DryRun:       cfg.DryRun,
		MaxUploads:   cfg.MaxUploads,
		MaxFileRead:  cfg.MaxFileRead,
		Progress:     cfg.ProgressStyle(),
		PlanJSONFile: cfg.PlanJSONFile,
	})
	if summary != nil && !summary.DryRun && (cfg.Verbose || summary.UploadFailed > 0) {
		logging.PrintSummary(cmd.OutOrStdout(), cfg.Quiet, summary.Uploaded, summary.UploadFailed, summary.BytesUploaded, time.Since(started))
	}
	if runErr != nil {
		return runErr
	}

	logger.Debug("sync complete",
		"remote", summary.RemoteFiles,
		"local", summary.LocalFiles,
		"uploaded", summary.Uploaded,
		"hashFailed", summary.HashFailed,
	)
	return nil
}
