package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuya-takeyama/dedup-s3-sync/pkg/executor"
	"github.com/yuya-takeyama/dedup-s3-sync/pkg/planner"
)

// PlanResult represents the planned uploads before execution
type PlanResult struct {
	Files   []PlanFile  `json:"files"`
	Summary PlanSummary `json:"summary"`
}

type PlanFile struct {
	Digest string `json:"digest"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type PlanSummary struct {
	Remote int  `json:"remote"`
	Local  int  `json:"local"`
	Upload int  `json:"upload"`
	DryRun bool `json:"dryRun"`
}

func writePlanResult(path string, uploader *executor.Uploader, bucket string, plan planner.UploadPlan, summary *Summary) error {
	result := PlanResult{
		Files: make([]PlanFile, 0, len(plan)),
		Summary: PlanSummary{
			Remote: summary.RemoteFiles,
			Local:  summary.LocalFiles,
			Upload: len(plan),
			DryRun: summary.DryRun,
		},
	}

	for _, p := range plan {
		result.Files = append(result.Files, PlanFile{
			Digest: p.Digest,
			Source: getAbsolutePath(p.LocalPath),
			Target: formatS3Path(bucket, uploader.Key(p.Digest, p.LocalPath)),
		})
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func getAbsolutePath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path // fallback to original path
	}
	return absPath
}

func formatS3Path(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
