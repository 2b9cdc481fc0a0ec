// Package delivery uploads rendered artifacts through a storage boundary
// and notifies caller-supplied webhooks about terminal job states.
package delivery

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Uploader is the object-storage boundary. The production client lives
// outside this repository; LocalStore is the bundled implementation.
type Uploader interface {
	// Upload stores the local file under key and returns its public URL.
	Upload(ctx context.Context, key, localPath, contentType string) (string, error)
}

// LocalStore implements Uploader on the local filesystem, serving files
// from a directory under a public base URL.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a LocalStore rooted at dir with URLs under baseURL.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the store's root directory (served by the HTTP layer).
func (s *LocalStore) Dir() string { return s.dir }

// Upload copies the rendered file into the store and returns its URL.
func (s *LocalStore) Upload(_ context.Context, key, localPath, _ string) (string, error) {
	dest := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create store dir: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open rendered file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("copy to store: %w", err)
	}

	return s.baseURL + "/" + path.Clean(key), nil
}

// ResultKey returns the deterministic storage key for a job's artifact.
func ResultKey(jobID, outputPath string) string {
	return "renders/" + jobID + "/output" + strings.ToLower(filepath.Ext(outputPath))
}

// ContentType infers a MIME type from the artifact's extension.
func ContentType(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	default:
		return "application/octet-stream"
	}
}
