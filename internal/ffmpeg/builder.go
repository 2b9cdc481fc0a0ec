package ffmpeg

import (
	"strconv"

	"github.com/rmahabir1973/artivio-render/internal/config"
	"github.com/rmahabir1973/artivio-render/internal/filtergraph"
)

// Fixed output encoding parameters. CRF and preset come from the quality
// tier; everything else is constant.
const (
	audioBitrate    = "192k"
	audioSampleRate = 48000
	audioChannels   = 2
)

// Plan is the full encoder invocation for one job: inputs in their fixed
// order, the synthesized program, and the output destination.
type Plan struct {
	// Inputs, in the order the filter graph's pads reference them:
	// clips first, then the optional assets.
	ClipPaths     []string
	MusicPath     string // "" when absent
	VoicePath     string
	WatermarkPath string

	Graph *filtergraph.Result

	OutputPath string
}

// Layout returns the input index layout the plan's input order implies.
// The synthesizer must be fed this same layout so pad references line up.
func (p *Plan) Layout() filtergraph.Inputs {
	return filtergraph.Layout(len(p.ClipPaths),
		p.MusicPath != "", p.VoicePath != "", p.WatermarkPath != "")
}

// BuildArgs constructs the complete encoder argument vector (without the
// binary name itself). Inputs are appended clips-first, then music, voice,
// and watermark, matching [Plan.Layout]; then either the filter graph with
// explicit output-pad maps or the direct passthrough maps; then the fixed
// H.264/AAC output parameters.
func BuildArgs(cfg *config.Config, p *Plan) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin", "-y", "-loglevel", "error", "-stats")

	// --- Inputs (fixed order) ---
	for _, path := range p.ClipPaths {
		args = append(args, "-i", path)
	}
	if p.MusicPath != "" {
		args = append(args, "-i", p.MusicPath)
	}
	if p.VoicePath != "" {
		args = append(args, "-i", p.VoicePath)
	}
	if p.WatermarkPath != "" {
		args = append(args, "-i", p.WatermarkPath)
	}

	// --- Program: filter graph or passthrough maps ---
	if p.Graph.Passthrough {
		args = append(args, "-map", "0:v:0", "-map", "0:a:0?")
	} else {
		args = append(args,
			"-filter_complex", p.Graph.FilterComplex,
			"-map", "["+p.Graph.VideoPad+"]",
			"-map", "["+p.Graph.AudioPad+"]",
		)
	}

	// --- Output encoding (always re-encoded, even on the fast path) ---
	args = append(args,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(cfg.Quality.CRF()),
		"-preset", cfg.Quality.Preset(),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-ar", strconv.Itoa(audioSampleRate),
		"-ac", strconv.Itoa(audioChannels),
		"-movflags", "+faststart",
	)

	return append(args, p.OutputPath)
}
