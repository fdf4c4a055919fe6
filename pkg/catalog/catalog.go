// Package catalog builds the remote side of the dedup comparison: every
// object in the bucket, keyed by the content digest S3 reports as its ETag.
package catalog

import (
	"context"
	"fmt"
	"strings"

	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/planner"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/s3client"
)

// Entry is one remote object.
type Entry struct {
	ID     string // object key
	Digest string // ETag without quotes
}

// ListAll reads every page of the listing and returns the entries in
// listing order. Each truncated page continues after its last key. A failed
// page fails the whole listing.
func ListAll(ctx context.Context, client s3client.Client, bucket, prefix string) ([]Entry, error) {
	var entries []Entry
	marker := ""

	for {
		page, err := client.ListObjects(ctx, &s3client.ListObjectsRequest{
			Bucket: bucket,
			Prefix: prefix,
			Marker: marker,
		})
		if err != nil {
			return nil, syncerrors.NewRemoteError("list", bucket, marker, err)
		}

		for _, item := range page.Items {
			entries = append(entries, Entry{
				ID:     item.Key,
				Digest: TrimETag(item.ETag),
			})
		}

		if !page.Truncated {
			return entries, nil
		}
		if len(page.Items) == 0 {
			return nil, syncerrors.NewRemoteError("list", bucket, marker, fmt.Errorf("truncated page has no items to continue from"))
		}
		marker = page.Items[len(page.Items)-1].Key
	}
}

// TrimETag strips the double quotes S3 puts around ETag values.
func TrimETag(etag string) string {
	if len(etag) >= 2 && strings.HasPrefix(etag, `"`) && strings.HasSuffix(etag, `"`) {
		return etag[1 : len(etag)-1]
	}
	return etag
}

// BuildIndex maps digest to object key. When several objects share a digest
// the first one listed is kept.
//
// Multipart uploads have ETags of the form "<hex>-<parts>", which are not an
// MD5 of the content. They are indexed as-is and never match a local digest.
func BuildIndex(entries []Entry) planner.DigestIndex {
	index := make(planner.DigestIndex, len(entries))
	for _, e := range entries {
		if _, exists := index[e.Digest]; !exists {
			index[e.Digest] = e.ID
		}
	}
	return index
}

// Build lists the bucket and indexes it by digest.
func Build(ctx context.Context, client s3client.Client, bucket, prefix string) (planner.DigestIndex, error) {
	entries, err := ListAll(ctx, client, bucket, prefix)
	if err != nil {
		return nil, err
	}
	return BuildIndex(entries), nil
}
