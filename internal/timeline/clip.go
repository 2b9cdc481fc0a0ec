package timeline

import "math"

// Kind distinguishes moving video from still images, which get a looped
// frame chain and are exempt from speed scaling.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// minClipDuration is the floor applied to every clip's effective duration so
// trim/speed math can never produce a zero or negative length.
const minClipDuration = 0.1

// Metadata is the probed (or defaulted) technical description of a clip's
// source file.
type Metadata struct {
	Duration float64
	Width    int
	Height   int
	FPS      float64
	HasAudio bool
}

// Settings is ClipSettings with all defaults resolved. Produced by
// Normalize; downstream code never checks for absence.
type Settings struct {
	Mute      bool
	Volume    float64
	FadeIn    float64
	FadeOut   float64
	Speed     float64
	TrimStart float64
	TrimEnd   float64 // 0 when no end trim was requested.
	HasTrim   bool
	Duration  float64 // Image display seconds.
}

// Clip is one timeline entry after intake normalization: its source, local
// file, probed metadata, and resolved edit settings.
type Clip struct {
	Index     int
	URL       string
	Kind      Kind
	LocalPath string
	Meta      Metadata
	Settings  Settings
}

// SourceDuration is the pre-edit length: probed container duration for
// video, the configured display duration for images.
func (c *Clip) SourceDuration() float64 {
	if c.Kind == KindImage {
		return c.Settings.Duration
	}
	return c.Meta.Duration
}

// EffectiveDuration is the clip's post-trim, post-speed contribution to the
// timeline: max((min(trimEnd, raw) - trimStart) / speed, 0.1). Images are
// exempt from speed scaling.
func (c *Clip) EffectiveDuration() float64 {
	raw := c.SourceDuration()
	end := raw
	if c.Settings.HasTrim && c.Settings.TrimEnd > 0 {
		end = math.Min(c.Settings.TrimEnd, raw)
	}
	d := end - c.Settings.TrimStart
	if c.Kind != KindImage && c.Settings.Speed != 1 {
		d /= c.Settings.Speed
	}
	return math.Max(d, minClipDuration)
}

// HasUsableAudio reports whether the clip contributes its own audio: a
// non-muted video whose source carries an audio stream.
func (c *Clip) HasUsableAudio() bool {
	return c.Kind == KindVideo && c.Meta.HasAudio && !c.Settings.Mute
}

// Edited reports whether any per-clip edit deviates from the defaults.
// Used by the passthrough fast-path check.
func (c *Clip) Edited() bool {
	s := &c.Settings
	return s.Mute || s.Volume != 1 || s.FadeIn > 0 || s.FadeOut > 0 ||
		s.Speed != 1 || s.TrimStart > 0 || s.HasTrim
}

// MakeImage reclassifies the clip as a still image. Applied at intake when
// the URL extension heuristic fires without a caller-supplied type.
func (c *Clip) MakeImage() {
	c.Kind = KindImage
	if c.Settings.Duration <= 0 {
		c.Settings.Duration = defaultImageDuration
	}
}

// TotalDuration is the estimated timeline length: the sum of each clip's
// effective duration. The graph's actual rendered duration may drift from
// this by rounding; consumers tolerate sub-second discrepancy.
func TotalDuration(clips []*Clip) float64 {
	var total float64
	for _, c := range clips {
		total += c.EffectiveDuration()
	}
	return total
}
