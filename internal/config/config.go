package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/progress"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/s3client"
)

// EnvPrefix prefixes every environment override, e.g.
// DEDUP_S3_SYNC_MAX_UPLOADS for --max-uploads.
const EnvPrefix = "DEDUP_S3_SYNC"

const (
	DefaultMaxUploads  = 10
	DefaultMaxFileRead = 2
)

// Config is the merged result of flags and environment.
type Config struct {
	SearchGlob  string `mapstructure:"search-glob"`
	Bucket      string `mapstructure:"bucket"`
	DryRun      bool   `mapstructure:"dry-run"`
	MaxUploads  int    `mapstructure:"max-uploads"`
	MaxFileRead int    `mapstructure:"max-file-read"`

	CredentialsFile string `mapstructure:"credentials-file"`
	Profile         string `mapstructure:"profile"`
	Region          string `mapstructure:"region"`
	EndpointURL     string `mapstructure:"endpoint-url"`
	PathStyle       bool   `mapstructure:"path-style"`

	Progress     string `mapstructure:"progress"`
	Quiet        bool   `mapstructure:"quiet"`
	Verbose      bool   `mapstructure:"verbose"`
	LogFile      string `mapstructure:"log-file"`
	PlanJSONFile string `mapstructure:"plan-json-file"`

	// Set by Validate from Bucket.
	BucketName   string `mapstructure:"-"`
	BucketPrefix string `mapstructure:"-"`
}

// RegisterFlags adds every setting to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("search-glob", "", "Glob selecting local files, ** supported (required)")
	fs.String("bucket", "", "Target bucket name or s3://bucket/prefix (required)")
	fs.Bool("dry-run", false, "Report how many files would be uploaded without uploading")
	fs.Int("max-uploads", DefaultMaxUploads, "Maximum concurrent uploads")
	fs.Int("max-file-read", DefaultMaxFileRead, "Maximum concurrent file hashes")

	fs.String("credentials-file", "", "JSON file with accessKeyId, secretAccessKey, sessionToken and region")
	fs.String("profile", "", "AWS profile to use")
	fs.String("region", "", "AWS region (uses default if not specified)")
	fs.String("endpoint-url", "", "Custom S3 endpoint, e.g. MinIO")
	fs.Bool("path-style", false, "Use path-style bucket addressing")

	fs.String("progress", string(progress.StylePercent), "Progress style: percent, bar or none")
	fs.Bool("quiet", false, "Suppress non-error output")
	fs.Bool("verbose", false, "Log debug messages")
	fs.String("log-file", "", "Also write logs to this file")
	fs.String("plan-json-file", "", "Path to output plan as JSON file")
}

// Load merges fs with DEDUP_S3_SYNC_* environment variables. A flag given
// on the command line wins over the environment, which wins over defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, syncerrors.NewConfigError("environment", err)
	}
	return cfg, nil
}

// Validate checks required settings and splits Bucket into BucketName and
// BucketPrefix. It never touches AWS.
func (c *Config) Validate() error {
	if c.SearchGlob == "" {
		return syncerrors.NewConfigError("search-glob", fmt.Errorf("is required"))
	}
	if c.Bucket == "" {
		return syncerrors.NewConfigError("bucket", fmt.Errorf("is required"))
	}

	bucket, prefix, err := s3client.ParseBucket(c.Bucket)
	if err != nil {
		return syncerrors.NewConfigError("bucket", err)
	}
	c.BucketName = bucket
	c.BucketPrefix = prefix

	if c.MaxUploads < 1 {
		return syncerrors.NewConfigError("max-uploads", fmt.Errorf("must be at least 1, got %d", c.MaxUploads))
	}
	if c.MaxFileRead < 1 {
		return syncerrors.NewConfigError("max-file-read", fmt.Errorf("must be at least 1, got %d", c.MaxFileRead))
	}
	if _, err := progress.ParseStyle(c.Progress); err != nil {
		return syncerrors.NewConfigError("progress", err)
	}
	if c.Quiet && c.Verbose {
		return syncerrors.NewConfigError("quiet", fmt.Errorf("cannot be combined with --verbose"))
	}
	return nil
}

// ProgressStyle returns the validated progress style. Quiet turns progress
// off entirely.
func (c *Config) ProgressStyle() progress.Style {
	if c.Quiet {
		return progress.StyleNone
	}
	style, err := progress.ParseStyle(c.Progress)
	if err != nil {
		return progress.StylePercent
	}
	return style
}

// S3Options maps the AWS settings. Connections per host are capped at
// MaxUploads+1.
func (c *Config) S3Options() s3client.Options {
	return s3client.Options{
		Profile:         c.Profile,
		Region:          c.Region,
		CredentialsFile: c.CredentialsFile,
		EndpointURL:     c.EndpointURL,
		PathStyle:       c.PathStyle,
		MaxConns:        c.MaxUploads + 1,
	}
}
