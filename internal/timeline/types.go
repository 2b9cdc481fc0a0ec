// Package timeline models the declarative composition request: ordered
// clips with per-clip edit settings, global enhancements, and optional
// audio/watermark layers. Optional-field defaults are resolved once at
// intake by Normalize, so downstream packages see concrete values.
package timeline

import "encoding/json"

// Request is the job payload accepted by POST /process.
type Request struct {
	JobID                 string          `json:"jobId,omitempty"`
	Clips                 []ClipInput     `json:"clips"`
	Enhancements          *Enhancements   `json:"enhancements,omitempty"`
	VideoSettings         *VideoSettings  `json:"videoSettings,omitempty"`
	MultiTrackTimeline    json.RawMessage `json:"multiTrackTimeline,omitempty"`
	CrossLayerTransitions []Transition    `json:"crossLayerTransitions,omitempty"`
	CallbackURL           string          `json:"callbackUrl,omitempty"`
}

// ClipInput is one clip as submitted by the caller.
type ClipInput struct {
	URL      string        `json:"url"`
	Type     string        `json:"type,omitempty"` // "video" (default) or "image"
	Settings *ClipSettings `json:"settings,omitempty"`
}

// ClipSettings carries the per-clip edit controls. Pointer fields
// distinguish "absent" from an explicit zero.
type ClipSettings struct {
	Mute      bool     `json:"mute,omitempty"`
	Volume    *float64 `json:"volume,omitempty"`    // Default 1.0.
	FadeIn    float64  `json:"fadeIn,omitempty"`    // Seconds.
	FadeOut   float64  `json:"fadeOut,omitempty"`   // Seconds.
	Speed     *float64 `json:"speed,omitempty"`     // Default 1.0, clamped to [0.25, 4].
	TrimStart float64  `json:"trimStart,omitempty"` // Seconds into the source.
	TrimEnd   *float64 `json:"trimEnd,omitempty"`   // Absent = play to the end.
	Duration  float64  `json:"duration,omitempty"`  // Display seconds, images only. Default 5.
}

// Enhancements are the global output adjustments.
type Enhancements struct {
	AspectRatio string `json:"aspectRatio,omitempty"` // "16:9" (default), "9:16", "1:1", "4:3".
	FadeIn      *Fade  `json:"fadeIn,omitempty"`
	FadeOut     *Fade  `json:"fadeOut,omitempty"`
	Resolution  string `json:"resolution,omitempty"` // "1080p" (default), "720p", "480p".
}

// Fade is a global fade toggle with duration in seconds.
type Fade struct {
	Enabled  bool    `json:"enabled"`
	Duration float64 `json:"duration,omitempty"`
}

// VideoSettings bundles the optional audio layers, watermark, and encoding
// quality tier. Every field is best-effort: absence is always valid.
type VideoSettings struct {
	BackgroundMusic *MusicSettings     `json:"backgroundMusic,omitempty"`
	VoiceTrack      *VoiceSettings     `json:"voiceTrack,omitempty"`
	Watermark       *WatermarkSettings `json:"watermark,omitempty"`
	Quality         string             `json:"quality,omitempty"` // "high", "medium", "low".
}

// MusicSettings is the looped background music layer.
type MusicSettings struct {
	URL     string   `json:"url"`
	Volume  *float64 `json:"volume,omitempty"` // Default 0.3.
	FadeIn  float64  `json:"fadeIn,omitempty"`
	FadeOut float64  `json:"fadeOut,omitempty"`
}

// VoiceSettings is the narration/voice-over layer.
type VoiceSettings struct {
	URL       string   `json:"url"`
	Volume    *float64 `json:"volume,omitempty"`    // Default 1.0.
	StartTime float64  `json:"startTime,omitempty"` // Offset into the timeline, seconds.
	Kind      string   `json:"type,omitempty"`      // e.g. "narration"; informational.
}

// WatermarkSettings is the still-image overlay layer.
type WatermarkSettings struct {
	URL      string   `json:"url"`
	Position string   `json:"position,omitempty"` // Corner or center; default "bottom-right".
	Size     string   `json:"size,omitempty"`     // "small", "medium" (default), "large".
	Opacity  *float64 `json:"opacity,omitempty"`  // 0..1, default 0.5.
}

// Transition describes a cross-layer transition between adjacent clips.
// Consumed only by the cross-layer delegation path.
type Transition struct {
	AfterClipIndex int     `json:"afterClipIndex"`
	Kind           string  `json:"type"`
	Duration       float64 `json:"duration,omitempty"`
}
