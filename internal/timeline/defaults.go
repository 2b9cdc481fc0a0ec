package timeline

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults applied once at intake. Downstream packages rely on these being
// resolved and never re-check for absence.
const (
	defaultClipVolume    = 1.0
	defaultClipSpeed     = 1.0
	defaultImageDuration = 5.0
	defaultMusicVolume   = 0.3
	defaultVoiceVolume   = 1.0
	defaultWMOpacity     = 0.5
	defaultWMPosition    = "bottom-right"
	defaultWMSize        = "medium"

	minSpeed = 0.25
	maxSpeed = 4.0
)

// Validate rejects requests the pipeline cannot start: no clips, or a clip
// without a source URL. Everything else degrades gracefully later.
func (r *Request) Validate() error {
	if len(r.Clips) == 0 {
		return errors.New("clips array is required and must not be empty")
	}
	for i, c := range r.Clips {
		if strings.TrimSpace(c.URL) == "" {
			return fmt.Errorf("clip %d: url is required", i)
		}
	}
	return nil
}

// Normalize resolves every optional input field into concrete clip records.
// Invariants enforced here: volume and speed defaults, speed clamped to
// [0.25, 4], trimEnd dropped unless it exceeds trimStart, image display
// duration defaulted to 5s.
func (r *Request) Normalize() []*Clip {
	clips := make([]*Clip, len(r.Clips))
	for i, in := range r.Clips {
		kind := KindVideo
		if strings.EqualFold(in.Type, string(KindImage)) {
			kind = KindImage
		}

		s := Settings{Volume: defaultClipVolume, Speed: defaultClipSpeed}
		if in.Settings != nil {
			cs := in.Settings
			s.Mute = cs.Mute
			if cs.Volume != nil {
				s.Volume = *cs.Volume
			}
			s.FadeIn = cs.FadeIn
			s.FadeOut = cs.FadeOut
			if cs.Speed != nil && *cs.Speed > 0 {
				s.Speed = clamp(*cs.Speed, minSpeed, maxSpeed)
			}
			if cs.TrimStart > 0 {
				s.TrimStart = cs.TrimStart
			}
			if cs.TrimEnd != nil && *cs.TrimEnd > s.TrimStart {
				s.TrimEnd = *cs.TrimEnd
				s.HasTrim = true
			} else if s.TrimStart > 0 {
				s.HasTrim = true
			}
			s.Duration = cs.Duration
		}
		if kind == KindImage && s.Duration <= 0 {
			s.Duration = defaultImageDuration
		}

		clips[i] = &Clip{
			Index:    i,
			URL:      in.URL,
			Kind:     kind,
			Settings: s,
		}
	}
	return clips
}

// Music returns the normalized background-music settings, or nil.
func (r *Request) Music() *MusicSettings {
	if r.VideoSettings == nil || r.VideoSettings.BackgroundMusic == nil ||
		r.VideoSettings.BackgroundMusic.URL == "" {
		return nil
	}
	m := *r.VideoSettings.BackgroundMusic
	if m.Volume == nil {
		v := defaultMusicVolume
		m.Volume = &v
	}
	return &m
}

// Voice returns the normalized voice-track settings, or nil.
func (r *Request) Voice() *VoiceSettings {
	if r.VideoSettings == nil || r.VideoSettings.VoiceTrack == nil ||
		r.VideoSettings.VoiceTrack.URL == "" {
		return nil
	}
	v := *r.VideoSettings.VoiceTrack
	if v.Volume == nil {
		vol := defaultVoiceVolume
		v.Volume = &vol
	}
	if v.StartTime < 0 {
		v.StartTime = 0
	}
	return &v
}

// WatermarkCfg returns the normalized watermark settings, or nil.
func (r *Request) WatermarkCfg() *WatermarkSettings {
	if r.VideoSettings == nil || r.VideoSettings.Watermark == nil ||
		r.VideoSettings.Watermark.URL == "" {
		return nil
	}
	w := *r.VideoSettings.Watermark
	if w.Position == "" {
		w.Position = defaultWMPosition
	}
	if w.Size == "" {
		w.Size = defaultWMSize
	}
	if w.Opacity == nil || *w.Opacity <= 0 || *w.Opacity > 1 {
		o := defaultWMOpacity
		w.Opacity = &o
	}
	return &w
}

// HasAudioAssets reports whether any optional audio/watermark layer was
// requested. Used by the passthrough fast-path check.
func (r *Request) HasAudioAssets() bool {
	return r.Music() != nil || r.Voice() != nil || r.WatermarkCfg() != nil
}

// HasEnhancements reports whether any global enhancement deviates from the
// defaults.
func (r *Request) HasEnhancements() bool {
	e := r.Enhancements
	if e == nil {
		return false
	}
	if e.AspectRatio != "" && e.AspectRatio != "16:9" {
		return true
	}
	if e.Resolution != "" && e.Resolution != "1080p" {
		return true
	}
	if e.FadeIn != nil && e.FadeIn.Enabled {
		return true
	}
	if e.FadeOut != nil && e.FadeOut.Enabled {
		return true
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
