package s3client

import (
	"fmt"
	"strings"
)

// ParseBucket accepts a bare bucket name or an S3 URI (s3://bucket/prefix)
// and returns the bucket and a prefix that is empty or ends with "/".
func ParseBucket(uri string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		if uri == "" || strings.Contains(uri, "/") {
			return "", "", fmt.Errorf("invalid bucket %q: expected a bucket name or s3://bucket/prefix", uri)
		}
		return uri, "", nil
	}

	path := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(path, "/", 2)

	if len(parts) == 0 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 URI: missing bucket name")
	}

	bucket = parts[0]
	if len(parts) > 1 {
		prefix = strings.TrimRight(parts[1], "/")
		// Ensure prefix ends with / if not empty
		if prefix != "" {
			prefix += "/"
		}
	}

	return bucket, prefix, nil
}
