package filtergraph

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// Fixed output pad labels. The executor maps these to the encoder's output
// stream selectors.
const (
	VideoOutPad = "vout"
	AudioOutPad = "aout"
)

// Result is the synthesized program handed to the executor. When
// Passthrough is set FilterComplex is empty and the single clip is mapped
// directly (the output is still re-encoded to the standard codec).
type Result struct {
	FilterComplex string
	VideoPad      string
	AudioPad      string
	Duration      float64
	Passthrough   bool
}

// Synthesizer builds one filter-graph program per job. It is stateless
// across jobs; the optional transition builder is consulted only for
// multi-track requests with transitions and can never fail a job.
type Synthesizer struct {
	transitions TransitionBuilder
	log         zerolog.Logger
}

// New creates a Synthesizer. tb may be nil when no cross-layer transition
// collaborator is installed.
func New(log zerolog.Logger, tb TransitionBuilder) *Synthesizer {
	return &Synthesizer{transitions: tb, log: log}
}

// Build synthesizes the program for one normalized request. layout must
// reflect the exact input order the executor will feed the encoder.
//
// The estimated duration carried in the result is computed from clip edit
// math, independently of the graph; the rendered output may drift from it
// by sub-second rounding.
func (s *Synthesizer) Build(req *timeline.Request, clips []*timeline.Clip, layout Inputs) (*Result, error) {
	if len(clips) == 0 {
		return nil, errors.New("no clips to compose")
	}

	total := timeline.TotalDuration(clips)

	// Cross-layer delegation: a usable collaborator graph wins verbatim.
	if res, ok := s.tryTransitions(req, clips, layout); ok {
		s.log.Info().Msg("using cross-layer transition graph")
		res.Duration = total
		return res, nil
	}

	// Fast path: a single unedited video with no extra layers needs no
	// graph at all.
	if len(clips) == 1 && clips[0].Kind == timeline.KindVideo &&
		!clips[0].Edited() && !req.HasAudioAssets() && !req.HasEnhancements() {
		return &Result{Passthrough: true, Duration: total}, nil
	}

	var (
		aspect, res string
	)
	if req.Enhancements != nil {
		aspect = req.Enhancements.AspectRatio
		res = req.Enhancements.Resolution
	}
	w, h := CanvasSize(aspect, res)

	g := &Graph{}

	// Per-clip chains. Every clip contributes exactly one video and one
	// audio pad; silence substitutes for missing audio.
	vPads := make([]string, len(clips))
	aPads := make([]string, len(clips))
	for i, c := range clips {
		vPads[i] = fmt.Sprintf("v%d", i)
		aPads[i] = fmt.Sprintf("a%d", i)
		videoChain(g, c, layout.ClipVideo(i), vPads[i], w, h)
		audioChain(g, c, layout.ClipAudio(i), aPads[i])
	}

	// Assembly: concat to one stream each; a single clip skips concat.
	// Stream counts always line up because every clip contributed exactly
	// one pad of each kind above.
	vCur := vPads[0]
	aCur := aPads[0]
	if len(clips) > 1 {
		vCur = "vcat"
		g.Merge(vPads, vCur, fmt.Sprintf("concat=n=%d:v=1:a=0", len(clips)))
		aCur = "acat"
		g.Merge(aPads, aCur, fmt.Sprintf("concat=n=%d:v=0:a=1", len(clips)))
	}

	// Global overlays, in order: fade, then watermark.
	vCur = globalFades(g, req.Enhancements, vCur, total)
	if wm := req.WatermarkCfg(); wm != nil && layout.Watermark >= 0 {
		vCur = watermarkOverlay(g, wm, layout.WatermarkPad(), vCur, w)
	}

	// Audio mixing: dialogue base plus optional layers.
	sources := []string{aCur}
	if m := req.Music(); m != nil && layout.Music >= 0 {
		sources = append(sources, musicChain(g, m, layout.MusicPad(), total))
	}
	if v := req.Voice(); v != nil && layout.Voice >= 0 {
		sources = append(sources, voiceChain(g, v, layout.VoicePad(), total))
	}
	aCur = mixAudio(g, sources)

	// Terminal no-op routes into the fixed output labels.
	g.Chain(vCur, VideoOutPad, "null")
	g.Chain(aCur, AudioOutPad, "anull")

	return &Result{
		FilterComplex: g.String(),
		VideoPad:      VideoOutPad,
		AudioPad:      AudioOutPad,
		Duration:      total,
	}, nil
}
