package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// Fallback metadata used when ffprobe cannot deliver a usable answer.
const (
	fallbackDuration = 5.0
	fallbackWidth    = 1920
	fallbackHeight   = 1080
	fallbackFPS      = 30.0
)

// Prober inspects media files via an external ffprobe binary.
type Prober struct {
	bin string
	log zerolog.Logger
}

// New creates a Prober driving the given ffprobe binary.
func New(bin string, log zerolog.Logger) *Prober {
	return &Prober{bin: bin, log: log}
}

// Defaults returns the fallback metadata applied when probing fails.
func Defaults() timeline.Metadata {
	return timeline.Metadata{
		Duration: fallbackDuration,
		Width:    fallbackWidth,
		Height:   fallbackHeight,
		FPS:      fallbackFPS,
		HasAudio: false,
	}
}

// Probe inspects path and returns its metadata. It never fails: spawn
// errors, non-zero exits, and malformed JSON all degrade to Defaults with
// a warning.
func (p *Prober) Probe(ctx context.Context, path string) timeline.Metadata {
	cmd := exec.CommandContext(ctx, p.bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		p.log.Warn().Err(err).Str("path", path).Msg("ffprobe failed, using default metadata")
		return Defaults()
	}

	meta, err := ParseJSON(out)
	if err != nil {
		p.log.Warn().Err(err).Str("path", path).Msg("ffprobe output unreadable, using default metadata")
		return Defaults()
	}
	return meta
}

// ParseJSON converts raw ffprobe JSON output into metadata. Exported for
// testing without a real ffprobe binary.
func ParseJSON(data []byte) (timeline.Metadata, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return timeline.Metadata{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildMetadata(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	Duration     string `json:"duration"`
}

// --- Conversion from wire types to domain metadata ---

func buildMetadata(raw *ffprobeOutput) timeline.Metadata {
	meta := Defaults()

	if d := parseFloat(raw.Format.Duration); d > 0 {
		meta.Duration = d
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if s.Width > 0 && s.Height > 0 {
				meta.Width = s.Width
				meta.Height = s.Height
			}
			if fps := parseFrameRate(s.AvgFrameRate); fps > 0 {
				meta.FPS = fps
			} else if fps := parseFrameRate(s.RFrameRate); fps > 0 {
				meta.FPS = fps
			}
			// Some containers only carry duration at stream level.
			if meta.Duration == fallbackDuration {
				if d := parseFloat(s.Duration); d > 0 {
					meta.Duration = d
				}
			}
		case "audio":
			meta.HasAudio = true
		}
	}
	return meta
}

// parseFrameRate handles ffprobe's "num/den" rational notation ("30000/1001")
// as well as plain decimals.
func parseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "0/0" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n := parseFloat(num)
		d := parseFloat(den)
		if d == 0 {
			return 0
		}
		return n / d
	}
	return parseFloat(s)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
