package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/planner"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/s3client"
)

// pagedClient serves ListObjects from a fixed sequence of pages and records
// the markers it was asked for.
type pagedClient struct {
	pages   []*s3client.ListObjectsPage
	errAt   int
	markers []string
}

func (c *pagedClient) ListObjects(ctx context.Context, req *s3client.ListObjectsRequest) (*s3client.ListObjectsPage, error) {
	call := len(c.markers)
	c.markers = append(c.markers, req.Marker)
	if c.errAt > 0 && call+1 == c.errAt {
		return nil, errors.New("InternalError")
	}
	if call >= len(c.pages) {
		return nil, fmt.Errorf("unexpected page request %d", call)
	}
	return c.pages[call], nil
}

func (c *pagedClient) PutObject(ctx context.Context, req *s3client.PutObjectRequest) error {
	return errors.New("PutObject not implemented")
}

func (c *pagedClient) UploadStream(ctx context.Context, req *s3client.PutObjectRequest) error {
	return errors.New("UploadStream not implemented")
}

func TestListAllConcatenatesPages(t *testing.T) {
	client := &pagedClient{
		pages: []*s3client.ListObjectsPage{
			{
				Items: []s3client.ItemMetadata{
					{Key: "a.txt", ETag: `"d1"`},
					{Key: "b.txt", ETag: `"d2"`},
				},
				Truncated: true,
			},
			{
				Items: []s3client.ItemMetadata{
					{Key: "c.txt", ETag: `"d3"`},
				},
				Truncated: false,
			},
		},
	}

	entries, err := ListAll(context.Background(), client, "bucket", "")
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{ID: "a.txt", Digest: "d1"},
		{ID: "b.txt", Digest: "d2"},
		{ID: "c.txt", Digest: "d3"},
	}, entries)
	assert.Equal(t, []string{"", "b.txt"}, client.markers)
}

func TestListAllSinglePage(t *testing.T) {
	client := &pagedClient{
		pages: []*s3client.ListObjectsPage{
			{Items: []s3client.ItemMetadata{{Key: "r1", ETag: `"d1"`}}},
		},
	}

	entries, err := ListAll(context.Background(), client, "bucket", "")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: "r1", Digest: "d1"}}, entries)
	assert.Equal(t, []string{""}, client.markers)
}

func TestListAllEmptyBucket(t *testing.T) {
	client := &pagedClient{
		pages: []*s3client.ListObjectsPage{{}},
	}

	entries, err := ListAll(context.Background(), client, "bucket", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListAllFailsWithoutPartialResult(t *testing.T) {
	client := &pagedClient{
		pages: []*s3client.ListObjectsPage{
			{Items: []s3client.ItemMetadata{{Key: "a.txt", ETag: `"d1"`}}, Truncated: true},
			{Items: []s3client.ItemMetadata{{Key: "b.txt", ETag: `"d2"`}}},
		},
		errAt: 2,
	}

	entries, err := ListAll(context.Background(), client, "bucket", "")
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.True(t, syncerrors.IsRemoteError(err))
	assert.Contains(t, err.Error(), "InternalError")
}

func TestListAllTruncatedEmptyPage(t *testing.T) {
	client := &pagedClient{
		pages: []*s3client.ListObjectsPage{{Truncated: true}},
	}

	_, err := ListAll(context.Background(), client, "bucket", "")
	require.Error(t, err)
	assert.True(t, syncerrors.IsRemoteError(err))
}

func TestTrimETag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `"5eb63bbbe01eeed093cb22bb8f5acdc3"`, want: "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{in: "5eb63bbbe01eeed093cb22bb8f5acdc3", want: "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{in: `"abc-3"`, want: "abc-3"},
		{in: `"`, want: `"`},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimETag(tt.in))
		})
	}
}

func TestBuildIndex(t *testing.T) {
	index := BuildIndex([]Entry{
		{ID: "r1", Digest: "d1"},
		{ID: "r2", Digest: "d2"},
		{ID: "r3", Digest: "d1"},
	})

	assert.Equal(t, planner.DigestIndex{"d1": "r1", "d2": "r2"}, index)
}

func TestBuild(t *testing.T) {
	client := &pagedClient{
		pages: []*s3client.ListObjectsPage{
			{Items: []s3client.ItemMetadata{{Key: "d1.txt", ETag: `"d1"`}}, Truncated: true},
			{Items: []s3client.ItemMetadata{{Key: "d9.jpg", ETag: `"d9"`}}},
		},
	}

	index, err := Build(context.Background(), client, "bucket", "media/")
	require.NoError(t, err)
	assert.Equal(t, planner.DigestIndex{"d1": "d1.txt", "d9": "d9.jpg"}, index)
}
