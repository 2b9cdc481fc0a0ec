package filtergraph

import (
	"fmt"
	"math"

	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// Canonical audio output format: every audio pad entering concat or amix is
// conformed to this so stream counts and formats always line up.
const (
	audioSampleRate = 48000
	audioFormat     = "aformat=sample_fmts=fltp:channel_layouts=stereo"
)

// videoChain appends the per-clip video processing for clip c, consuming
// pad in and producing pad out on canvas w×h.
//
// Order matters: loop/fps normalization (images), trim + PTS reset, speed
// rescale, fit-and-pad to canvas, square pixels, fades.
func videoChain(g *Graph, c *timeline.Clip, in, out string, w, h int) {
	var filters []string
	s := &c.Settings

	if c.Kind == timeline.KindImage {
		frames := int(math.Round(s.Duration * canvasFPS))
		if frames < 1 {
			frames = 1
		}
		filters = append(filters,
			fmt.Sprintf("loop=loop=%d:size=1:start=0", frames),
			fmt.Sprintf("fps=%d", canvasFPS),
		)
	}

	if s.HasTrim {
		filters = append(filters, trimExpr("trim", s), "setpts=PTS-STARTPTS")
	}

	if c.Kind != timeline.KindImage && s.Speed != 1 {
		filters = append(filters, fmt.Sprintf("setpts=%s*PTS", ffFloat(1/s.Speed)))
	}

	filters = append(filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", w, h),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black", w, h),
		"setsar=1",
	)

	filters = append(filters, fadeFilters("fade", s.FadeIn, s.FadeOut, c.EffectiveDuration())...)

	g.Chain(in, out, filters...)
}

// audioChain appends the per-clip audio processing for clip c, consuming
// pad in and producing pad out. When the clip carries no usable audio
// (image, muted, or silent source) a silence stream of matching duration is
// synthesized instead, so every clip contributes an audio pad and concat
// sees equal stream counts.
func audioChain(g *Graph, c *timeline.Clip, in, out string) {
	if !c.HasUsableAudio() {
		silenceSource(g, out, c.EffectiveDuration())
		return
	}

	var filters []string
	s := &c.Settings

	if s.HasTrim {
		filters = append(filters, trimExpr("atrim", s), "asetpts=PTS-STARTPTS")
	}

	for _, factor := range TempoChain(s.Speed) {
		filters = append(filters, fmt.Sprintf("atempo=%s", ffFloat(factor)))
	}

	if s.Volume != 1 {
		filters = append(filters, fmt.Sprintf("volume=%s", ffFloat(s.Volume)))
	}

	filters = append(filters, fadeFilters("afade", s.FadeIn, s.FadeOut, c.EffectiveDuration())...)

	filters = append(filters,
		fmt.Sprintf("aresample=%d", audioSampleRate),
		audioFormat,
	)

	g.Chain(in, out, filters...)
}

// silenceSource appends a generated silent stream of the given duration in
// the canonical audio format.
func silenceSource(g *Graph, out string, duration float64) {
	g.Source(out,
		fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", audioSampleRate),
		fmt.Sprintf("atrim=duration=%s", ffFloat(duration)),
		audioFormat,
	)
}

// TempoChain decomposes a speed multiplier into atempo factors. The atempo
// primitive is bounded to [0.5, 2.0] per application, so 3x speed becomes
// 2.0 then 1.5, and 0.2x becomes 0.5, 0.5, 0.8. The product of the returned
// factors equals speed within floating rounding. A speed of 1 yields nil.
func TempoChain(speed float64) []float64 {
	if speed <= 0 || speed == 1 {
		return nil
	}
	var chain []float64
	for speed > 2.0 {
		chain = append(chain, 2.0)
		speed /= 2.0
	}
	for speed < 0.5 {
		chain = append(chain, 0.5)
		speed /= 0.5
	}
	return append(chain, speed)
}

// trimExpr renders a trim/atrim expression from the clip's resolved trim
// window. TrimEnd of 0 means play to the end.
func trimExpr(name string, s *timeline.Settings) string {
	if s.TrimEnd > 0 {
		return fmt.Sprintf("%s=start=%s:end=%s", name, ffFloat(s.TrimStart), ffFloat(s.TrimEnd))
	}
	return fmt.Sprintf("%s=start=%s", name, ffFloat(s.TrimStart))
}

// fadeFilters renders in/out fades against a stream of the given duration.
// The effective fade length is clamped to half the duration; the fade-out
// start is duration minus the effective fade-out.
func fadeFilters(name string, fadeIn, fadeOut, duration float64) []string {
	var filters []string
	if fadeIn > 0 {
		d := effectiveFade(fadeIn, duration)
		filters = append(filters, fmt.Sprintf("%s=t=in:st=0:d=%s", name, ffFloat(d)))
	}
	if fadeOut > 0 {
		d := effectiveFade(fadeOut, duration)
		filters = append(filters, fmt.Sprintf("%s=t=out:st=%s:d=%s", name, ffFloat(duration-d), ffFloat(d)))
	}
	return filters
}

// effectiveFade clamps a requested fade to half the stream duration so
// overlapping in/out fades can never exceed the clip.
func effectiveFade(requested, duration float64) float64 {
	return math.Min(requested, duration/2)
}

// ffFloat renders a float for filter parameters: fixed three-decimal
// notation, no exponent, trailing precision the encoder accepts.
func ffFloat(f float64) string {
	return fmt.Sprintf("%.3f", f)
}
