package s3client

import (
	"context"
	"io"
)

// ItemMetadata is one listed object. ETag is the raw value, quotes included.
type ItemMetadata struct {
	Key  string
	ETag string
	Size int64
}

type ListObjectsRequest struct {
	Bucket string
	Prefix string
	Marker string // list keys after this one; empty for the first page
}

type ListObjectsPage struct {
	Items     []ItemMetadata
	Truncated bool
}

type PutObjectRequest struct {
	Bucket      string
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
}

// Client is the subset of the object store the sync pipeline needs.
//
// ListObjects returns a single page. PutObject sends the body in one request;
// UploadStream may split it into parts and is meant for bodies too large to
// hold in memory.
type Client interface {
	ListObjects(ctx context.Context, req *ListObjectsRequest) (*ListObjectsPage, error)
	PutObject(ctx context.Context, req *PutObjectRequest) error
	UploadStream(ctx context.Context, req *PutObjectRequest) error
}
