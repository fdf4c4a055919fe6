package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/planner"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/s3client"
)

type putCall struct {
	bucket      string
	key         string
	body        string
	size        int64
	contentType string
	stream      bool
}

// mockS3Client is a mock implementation of s3client.Client for testing
type mockS3Client struct {
	mu     sync.Mutex
	calls  []putCall
	putErr map[string]error
}

func (m *mockS3Client) ListObjects(ctx context.Context, req *s3client.ListObjectsRequest) (*s3client.ListObjectsPage, error) {
	return nil, errors.New("ListObjects not implemented")
}

func (m *mockS3Client) PutObject(ctx context.Context, req *s3client.PutObjectRequest) error {
	return m.record(req, false)
}

func (m *mockS3Client) UploadStream(ctx context.Context, req *s3client.PutObjectRequest) error {
	return m.record(req, true)
}

func (m *mockS3Client) record(req *s3client.PutObjectRequest, stream bool) error {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, putCall{
		bucket:      req.Bucket,
		key:         req.Key,
		body:        string(body),
		size:        req.Size,
		contentType: req.ContentType,
		stream:      stream,
	})
	return m.putErr[req.Key]
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name   string
		digest string
		path   string
		want   string
	}{
		{name: "simple extension", digest: "d2", path: "b.txt", want: "d2.txt"},
		{name: "nested path", digest: "abc", path: "photos/2024/img.JPG", want: "abc.JPG"},
		{name: "double extension keeps last", digest: "abc", path: "archive.tar.gz", want: "abc.gz"},
		{name: "no extension", digest: "abc", path: "Makefile", want: "abc"},
		{name: "dotfile", digest: "abc", path: "dir/.bashrc", want: "abc.bashrc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.digest, tt.path))
		})
	}
}

func TestUploaderKeyWithPrefix(t *testing.T) {
	u := NewUploader(&mockS3Client{}, "bucket", "media/")
	assert.Equal(t, "media/d2.txt", u.Key("d2", "b.txt"))
}

func TestUploadSinglePut(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "b.txt", "second file")
	client := &mockS3Client{}

	key, err := NewUploader(client, "bucket", "").Upload(context.Background(), "d2", path)
	require.NoError(t, err)
	assert.Equal(t, "d2.txt", key)

	require.Len(t, client.calls, 1)
	call := client.calls[0]
	assert.Equal(t, "bucket", call.bucket)
	assert.Equal(t, "d2.txt", call.key)
	assert.Equal(t, "second file", call.body)
	assert.Equal(t, int64(len("second file")), call.size)
	assert.True(t, strings.HasPrefix(call.contentType, "text/plain"))
	assert.False(t, call.stream)
}

func TestUploadLargeFileStreams(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.bin", strings.Repeat("x", 100))
	client := &mockS3Client{}

	key, err := NewUploader(client, "bucket", "", WithMultipartThreshold(10)).Upload(context.Background(), "d9", path)
	require.NoError(t, err)
	assert.Equal(t, "d9.bin", key)

	require.Len(t, client.calls, 1)
	assert.True(t, client.calls[0].stream)
	assert.Equal(t, int64(100), client.calls[0].size)
	assert.Equal(t, strings.Repeat("x", 100), client.calls[0].body)
}

func TestUploadMissingFile(t *testing.T) {
	client := &mockS3Client{}
	_, err := NewUploader(client, "bucket", "").Upload(context.Background(), "d1", filepath.Join(t.TempDir(), "gone.txt"))

	require.Error(t, err)
	assert.True(t, syncerrors.IsIOError(err))
	assert.Empty(t, client.calls)
}

func TestUploadPutFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "content")
	client := &mockS3Client{putErr: map[string]error{"d1.txt": errors.New("connection reset")}}

	key, err := NewUploader(client, "bucket", "").Upload(context.Background(), "d1", path)
	require.Error(t, err)
	assert.Equal(t, "d1.txt", key)
	assert.True(t, syncerrors.IsRemoteError(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestExecuteIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	plan := planner.UploadPlan{
		{Digest: "d1", LocalPath: writeFile(t, dir, "a.txt", "a")},
		{Digest: "d2", LocalPath: writeFile(t, dir, "b.jpg", "b")},
		{Digest: "d3", LocalPath: filepath.Join(dir, "missing.txt")},
		{Digest: "d4", LocalPath: writeFile(t, dir, "d.png", "d")},
	}
	client := &mockS3Client{putErr: map[string]error{"d2.jpg": errors.New("denied")}}

	results := NewUploader(client, "bucket", "").Execute(context.Background(), plan, 2, nil)

	assert.Equal(t, 4, results.Len())
	assert.Len(t, results.Succeeded(), 2)
	assert.Len(t, results.Failed(), 2)

	res, ok := results.Get("d4")
	require.True(t, ok)
	assert.Equal(t, "d4.png", res.Value)

	var keys []string
	for _, c := range client.calls {
		keys = append(keys, c.key)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"d1.txt", "d2.jpg", "d4.png"}, keys)
}

func TestExecuteEmptyPlan(t *testing.T) {
	client := &mockS3Client{}
	results := NewUploader(client, "bucket", "").Execute(context.Background(), nil, 10, nil)

	assert.Equal(t, 0, results.Len())
	assert.Empty(t, client.calls)
}

func TestGuessContentType(t *testing.T) {
	assert.True(t, strings.HasPrefix(guessContentType("a.txt", nil), "text/plain"))
	assert.Equal(t, "image/png", guessContentType("a.png", nil))

	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", guessContentType("noext", pngHeader))
}
