package planner

// DigestIndex maps a content digest to where that content lives: a local
// file path on one side, a remote object key on the other.
type DigestIndex map[string]string

// Digests returns the index keys in no particular order.
func (idx DigestIndex) Digests() []string {
	digests := make([]string, 0, len(idx))
	for d := range idx {
		digests = append(digests, d)
	}
	return digests
}

// Upload is one local file whose content is missing remotely.
type Upload struct {
	Digest    string `json:"digest"`
	LocalPath string `json:"localPath"`
}

// UploadPlan is sorted by digest.
type UploadPlan []Upload
