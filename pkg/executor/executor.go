package executor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/yuya-takeyama/dedup-s3-sync/internal/worker"
	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/planner"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/s3client"
)

// DefaultMultipartThreshold is the file size above which uploads are
// streamed instead of read into memory.
const DefaultMultipartThreshold = 64 * 1024 * 1024 // 64MB

type Uploader struct {
	client             s3client.Client
	bucket             string
	prefix             string
	multipartThreshold int64
}

type Option func(*Uploader)

// WithMultipartThreshold overrides DefaultMultipartThreshold.
func WithMultipartThreshold(size int64) Option {
	return func(u *Uploader) {
		u.multipartThreshold = size
	}
}

func NewUploader(client s3client.Client, bucket, prefix string, opts ...Option) *Uploader {
	u := &Uploader{
		client:             client,
		bucket:             bucket,
		prefix:             prefix,
		multipartThreshold: DefaultMultipartThreshold,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ObjectKey is the content-addressed key: the digest followed by the
// file's extension, dot included.
func ObjectKey(digest, localPath string) string {
	return digest + filepath.Ext(localPath)
}

// Key returns the full key, prefix included, for a digest and file.
func (u *Uploader) Key(digest, localPath string) string {
	return u.prefix + ObjectKey(digest, localPath)
}

// Upload sends one file to the bucket under its content key and returns
// that key. Small files go in a single PutObject from memory; files above
// the multipart threshold are streamed.
func (u *Uploader) Upload(ctx context.Context, digest, localPath string) (string, error) {
	key := u.Key(digest, localPath)

	info, err := os.Stat(localPath)
	if err != nil {
		return key, syncerrors.NewIOError("stat", localPath, err)
	}

	if info.Size() > u.multipartThreshold {
		return key, u.uploadStream(ctx, key, localPath, info.Size())
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return key, syncerrors.NewIOError("read", localPath, err)
	}

	err = u.client.PutObject(ctx, &s3client.PutObjectRequest{
		Bucket:      u.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: guessContentType(localPath, data),
	})
	if err != nil {
		return key, syncerrors.NewRemoteError("put", u.bucket, key, err)
	}

	return key, nil
}

func (u *Uploader) uploadStream(ctx context.Context, key, localPath string, size int64) error {
	file, err := os.Open(localPath)
	if err != nil {
		return syncerrors.NewIOError("open", localPath, err)
	}
	defer file.Close()

	err = u.client.UploadStream(ctx, &s3client.PutObjectRequest{
		Bucket:      u.bucket,
		Key:         key,
		Body:        file,
		Size:        size,
		ContentType: guessFileContentType(localPath),
	})
	if err != nil {
		return syncerrors.NewRemoteError("upload", u.bucket, key, err)
	}

	return nil
}

// Execute uploads every planned file with at most concurrency uploads in
// flight. Each result's value is the object key.
func (u *Uploader) Execute(ctx context.Context, plan planner.UploadPlan, concurrency int, obs worker.Observer[string]) *worker.Results[string] {
	backlog := make([]worker.Item, len(plan))
	for i, p := range plan {
		backlog[i] = worker.Item{
			Key:    p.Digest,
			Path:   p.LocalPath,
			Digest: p.Digest,
		}
	}

	d := &worker.Dispatcher[string]{Limit: concurrency, Observer: obs}
	return d.Run(ctx, backlog, func(ctx context.Context, item worker.Item) (string, error) {
		return u.Upload(ctx, item.Digest, item.Path)
	})
}
