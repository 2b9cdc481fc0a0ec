package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// imageExtensions is the fixed set used by the image-type heuristic when
// resolving a local extension from a URL.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// Fetcher downloads remote assets with a bounded per-request timeout and a
// fixed identifying User-Agent.
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

// NewFetcher creates a Fetcher. timeout bounds each asset download end to
// end; version is embedded in the User-Agent header.
func NewFetcher(timeout time.Duration, version string, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: "renderd/" + version,
		log:       log,
	}
}

// FetchClips downloads every clip into dir as clip_<index>.<ext>, filling in
// each clip's LocalPath. Downloads fan out concurrently; the first failure
// cancels the rest and is returned, aborting the job (no partial video from
// partial assets).
func (f *Fetcher) FetchClips(ctx context.Context, dir string, clips []*timeline.Clip) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range clips {
		c := c
		g.Go(func() error {
			ext := ResolveExt(c.URL, c.Kind)
			dest := filepath.Join(dir, fmt.Sprintf("clip_%d%s", c.Index, ext))
			if err := f.fetch(ctx, c.URL, dest); err != nil {
				return fmt.Errorf("download clip %d: %w", c.Index, err)
			}
			c.LocalPath = dest
			return nil
		})
	}
	return g.Wait()
}

// FetchOptional downloads a best-effort asset (music, voice, watermark) into
// dir under the given base name. A failure is logged and reported as absent;
// it must never fail the job.
func (f *Fetcher) FetchOptional(ctx context.Context, dir, name, rawURL string) (string, bool) {
	ext := path.Ext(urlPath(rawURL))
	if ext == "" {
		ext = ".mp3"
	}
	dest := filepath.Join(dir, name+strings.ToLower(ext))
	if err := f.fetch(ctx, rawURL, dest); err != nil {
		f.log.Warn().Err(err).Str("asset", name).Str("url", rawURL).
			Msg("optional asset download failed, omitting from composition")
		return "", false
	}
	return dest, true
}

// fetch streams one remote resource to dest.
func (f *Fetcher) fetch(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %q: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return fmt.Errorf("write %q: %w", dest, err)
	}
	return nil
}

// ResolveExt picks the local file extension for a clip: the URL path
// extension when it carries one, otherwise the image heuristic (.jpg for
// images, .mp4 for video).
func ResolveExt(rawURL string, kind timeline.Kind) string {
	ext := strings.ToLower(path.Ext(urlPath(rawURL)))
	if ext != "" {
		if kind == timeline.KindImage && !imageExtensions[ext] {
			return ".jpg"
		}
		return ext
	}
	if kind == timeline.KindImage {
		return ".jpg"
	}
	return ".mp4"
}

// IsImageURL reports whether the URL's extension matches the fixed image
// set. Used as a media-kind heuristic when the caller supplied no type.
func IsImageURL(rawURL string) bool {
	return imageExtensions[strings.ToLower(path.Ext(urlPath(rawURL)))]
}

// urlPath returns the path component of a URL, falling back to the raw
// string when parsing fails (so extension resolution still has a chance).
func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
