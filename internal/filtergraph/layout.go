package filtergraph

import "fmt"

// Inputs is the fixed encoder input ordering shared between the synthesizer
// and the argument builder: clip inputs first (by clip index), then
// background music, voice track, and watermark, each present or absent.
// Pad references in the graph ("2:v", "3:a") are derived from this layout,
// so both sides must agree on it.
type Inputs struct {
	ClipCount int
	Music     int // input index, -1 when absent
	Voice     int
	Watermark int
}

// Layout assigns input indexes in the canonical order.
func Layout(clipCount int, hasMusic, hasVoice, hasWatermark bool) Inputs {
	in := Inputs{ClipCount: clipCount, Music: -1, Voice: -1, Watermark: -1}
	next := clipCount
	if hasMusic {
		in.Music = next
		next++
	}
	if hasVoice {
		in.Voice = next
		next++
	}
	if hasWatermark {
		in.Watermark = next
	}
	return in
}

// ClipVideo returns the demuxer video pad for clip i.
func (in Inputs) ClipVideo(i int) string { return fmt.Sprintf("%d:v", i) }

// ClipAudio returns the demuxer audio pad for clip i.
func (in Inputs) ClipAudio(i int) string { return fmt.Sprintf("%d:a", i) }

// MusicPad returns the music input's audio pad ("" when absent).
func (in Inputs) MusicPad() string {
	if in.Music < 0 {
		return ""
	}
	return fmt.Sprintf("%d:a", in.Music)
}

// VoicePad returns the voice input's audio pad ("" when absent).
func (in Inputs) VoicePad() string {
	if in.Voice < 0 {
		return ""
	}
	return fmt.Sprintf("%d:a", in.Voice)
}

// WatermarkPad returns the watermark input's video pad ("" when absent).
func (in Inputs) WatermarkPad() string {
	if in.Watermark < 0 {
		return ""
	}
	return fmt.Sprintf("%d:v", in.Watermark)
}
