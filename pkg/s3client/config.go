package s3client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
)

// Options controls how the AWS config and S3 client are built.
type Options struct {
	Profile         string
	Region          string
	CredentialsFile string
	EndpointURL     string
	PathStyle       bool

	// MaxConns caps concurrent connections per host. Zero leaves the SDK default.
	MaxConns int
}

// CredentialsFile is the JSON document read from Options.CredentialsFile.
type CredentialsFile struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	SessionToken    string `json:"sessionToken,omitempty"`
	Region          string `json:"region,omitempty"`
}

// LoadConfig builds the AWS config. The SDK retryer is disabled: each
// request is attempted once and failures are reported to the caller.
func LoadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	var configOpts []func(*config.LoadOptions) error
	if opts.Profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	region := opts.Region
	if opts.CredentialsFile != "" {
		creds, err := ReadCredentialsFile(opts.CredentialsFile)
		if err != nil {
			return aws.Config{}, err
		}
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
		if region == "" {
			region = creds.Region
		}
	}
	if region != "" {
		configOpts = append(configOpts, config.WithRegion(region))
	}

	configOpts = append(configOpts,
		config.WithHTTPClient(newHTTPClient(opts.MaxConns)),
		config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// ReadCredentialsFile reads static credentials from a JSON file.
func ReadCredentialsFile(path string) (*CredentialsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, syncerrors.NewConfigError("credentials-file", err)
	}

	var creds CredentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, syncerrors.NewConfigError("credentials-file", fmt.Errorf("parse %s: %w", path, err))
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, syncerrors.NewConfigError("credentials-file", fmt.Errorf("%s: accessKeyId and secretAccessKey are required", path))
	}

	return &creds, nil
}

func newHTTPClient(maxConns int) *awshttp.BuildableClient {
	client := awshttp.NewBuildableClient()
	if maxConns <= 0 {
		return client
	}
	return client.WithTransportOptions(func(tr *http.Transport) {
		tr.MaxConnsPerHost = maxConns
		tr.MaxIdleConnsPerHost = maxConns
	})
}
