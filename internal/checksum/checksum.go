package checksum

import (
	"crypto/md5" // #nosec G501 -- S3 ETags of single-part objects are MD5
	"encoding/hex"
	"fmt"
	"io"
	"os"

	syncerrors "github.com/yuya-takeyama/dedup-s3-sync/pkg/errors"
)

const bufferSize = 64 * 1024 // 64KB buffer

// CalculateFileMD5 streams a file through MD5 and returns the lowercase hex
// digest, the same format S3 reports in a single-part object's ETag.
func CalculateFileMD5(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", syncerrors.NewIOError("open", filePath, err)
	}
	defer file.Close()

	digest, err := CalculateMD5(file)
	if err != nil {
		return "", syncerrors.NewIOError("read", filePath, err)
	}
	return digest, nil
}

// CalculateMD5 calculates the MD5 digest of everything read from r.
func CalculateMD5(r io.Reader) (string, error) {
	hash := md5.New() // #nosec G401
	buffer := make([]byte, bufferSize)

	for {
		n, err := r.Read(buffer)
		if n > 0 {
			if _, err := hash.Write(buffer[:n]); err != nil {
				return "", fmt.Errorf("write to hash: %w", err)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read: %w", err)
		}
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
