package s3client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3API is a mock implementation of S3API for testing
type mockS3API struct {
	listObjectsFunc             func(ctx context.Context, in *s3.ListObjectsInput) (*s3.ListObjectsOutput, error)
	putObjectFunc               func(ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error)
	createMultipartUploadFunc   func(ctx context.Context, in *s3.CreateMultipartUploadInput) (*s3.CreateMultipartUploadOutput, error)
	uploadPartFunc              func(ctx context.Context, in *s3.UploadPartInput) (*s3.UploadPartOutput, error)
	completeMultipartUploadFunc func(ctx context.Context, in *s3.CompleteMultipartUploadInput) (*s3.CompleteMultipartUploadOutput, error)
}

func (m *mockS3API) ListObjects(ctx context.Context, in *s3.ListObjectsInput, _ ...func(*s3.Options)) (*s3.ListObjectsOutput, error) {
	if m.listObjectsFunc != nil {
		return m.listObjectsFunc(ctx, in)
	}
	return nil, fmt.Errorf("ListObjects not implemented")
}

func (m *mockS3API) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, in)
	}
	return nil, fmt.Errorf("PutObject not implemented")
}

func (m *mockS3API) UploadPart(ctx context.Context, in *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	if m.uploadPartFunc != nil {
		return m.uploadPartFunc(ctx, in)
	}
	return nil, fmt.Errorf("UploadPart not implemented")
}

func (m *mockS3API) CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	if m.createMultipartUploadFunc != nil {
		return m.createMultipartUploadFunc(ctx, in)
	}
	return nil, fmt.Errorf("CreateMultipartUpload not implemented")
}

func (m *mockS3API) CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	if m.completeMultipartUploadFunc != nil {
		return m.completeMultipartUploadFunc(ctx, in)
	}
	return nil, fmt.Errorf("CompleteMultipartUpload not implemented")
}

func (m *mockS3API) AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}
