package s3client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultPartSize = 8 * 1024 * 1024 // 8MB

// S3API is the part of *s3.Client used by AWSClient.
type S3API interface {
	ListObjects(ctx context.Context, params *s3.ListObjectsInput, optFns ...func(*s3.Options)) (*s3.ListObjectsOutput, error)
	manager.UploadAPIClient
}

type AWSClient struct {
	client   S3API
	partSize int64
}

type AWSClientOption func(*AWSClient)

// WithPartSize sets the part size used by UploadStream.
func WithPartSize(size int64) AWSClientOption {
	return func(c *AWSClient) {
		if size >= manager.MinUploadPartSize {
			c.partSize = size
		}
	}
}

func NewAWSClient(cfg aws.Config, opts Options, clientOpts ...AWSClientOption) *AWSClient {
	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
		if opts.PathStyle {
			o.UsePathStyle = true
		}
	})
	return NewAWSClientFromAPI(api, clientOpts...)
}

// NewAWSClientFromAPI wraps an existing S3 API implementation.
func NewAWSClientFromAPI(api S3API, clientOpts ...AWSClientOption) *AWSClient {
	c := &AWSClient{
		client:   api,
		partSize: defaultPartSize,
	}
	for _, opt := range clientOpts {
		opt(c)
	}
	return c
}

func (c *AWSClient) ListObjects(ctx context.Context, req *ListObjectsRequest) (*ListObjectsPage, error) {
	input := &s3.ListObjectsInput{
		Bucket: aws.String(req.Bucket),
	}
	if req.Prefix != "" {
		input.Prefix = aws.String(req.Prefix)
	}
	if req.Marker != "" {
		input.Marker = aws.String(req.Marker)
	}

	resp, err := c.client.ListObjects(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	page := &ListObjectsPage{
		Items:     make([]ItemMetadata, 0, len(resp.Contents)),
		Truncated: aws.ToBool(resp.IsTruncated),
	}
	for _, obj := range resp.Contents {
		if obj.Key == nil {
			continue
		}
		page.Items = append(page.Items, ItemMetadata{
			Key:  *obj.Key,
			ETag: aws.ToString(obj.ETag),
			Size: aws.ToInt64(obj.Size),
		})
	}

	return page, nil
}

func (c *AWSClient) PutObject(ctx context.Context, req *PutObjectRequest) error {
	_, err := c.client.PutObject(ctx, c.putInput(req))
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}

	return nil
}

// UploadStream uploads through the transfer manager, one part at a time.
func (c *AWSClient) UploadStream(ctx context.Context, req *PutObjectRequest) error {
	uploader := manager.NewUploader(c.client, func(u *manager.Uploader) {
		u.PartSize = c.partSize
		u.Concurrency = 1
	})

	input := c.putInput(req)
	input.ContentLength = nil
	if _, err := uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	return nil
}

func (c *AWSClient) putInput(req *PutObjectRequest) *s3.PutObjectInput {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(req.Bucket),
		Key:           aws.String(req.Key),
		Body:          req.Body,
		ContentLength: aws.Int64(req.Size),
	}

	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}

	return input
}
