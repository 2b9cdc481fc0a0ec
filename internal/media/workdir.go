// Package media fetches remote clip, audio, and watermark assets into a
// per-job working directory. Clip fetches are fatal on failure; optional
// assets degrade gracefully by omission.
package media

import (
	"fmt"
	"os"
	"path/filepath"
)

// WorkDir creates and returns the scratch directory for one job. Jobs are
// isolated purely through these directories; nothing is shared between them.
func WorkDir(root, jobID string) (string, error) {
	dir := filepath.Join(root, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	return dir, nil
}

// Cleanup removes a job's working directory tree. Called unconditionally on
// both success and failure paths; errors are ignored because the directory
// lives under a temp root.
func Cleanup(dir string) {
	if dir != "" {
		_ = os.RemoveAll(dir)
	}
}
