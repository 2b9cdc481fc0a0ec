package filtergraph

import (
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// --- Helper builders ---

func newSynth() *Synthesizer {
	return New(zerolog.Nop(), nil)
}

func videoClip(index int, duration float64) *timeline.Clip {
	return &timeline.Clip{
		Index: index,
		URL:   "https://cdn.example.com/clip.mp4",
		Kind:  timeline.KindVideo,
		Meta:  timeline.Metadata{Duration: duration, Width: 1920, Height: 1080, FPS: 30, HasAudio: true},
		Settings: timeline.Settings{Volume: 1, Speed: 1},
	}
}

func imageClip(index int, display float64) *timeline.Clip {
	return &timeline.Clip{
		Index: index,
		URL:   "https://cdn.example.com/still.png",
		Kind:  timeline.KindImage,
		Meta:  timeline.Metadata{Width: 1280, Height: 720},
		Settings: timeline.Settings{Volume: 1, Speed: 1, Duration: display},
	}
}

func plainRequest(n int) *timeline.Request {
	req := &timeline.Request{}
	for i := 0; i < n; i++ {
		req.Clips = append(req.Clips, timeline.ClipInput{URL: "https://cdn.example.com/clip.mp4"})
	}
	return req
}

func mustBuild(t *testing.T, s *Synthesizer, req *timeline.Request, clips []*timeline.Clip, layout Inputs) *Result {
	t.Helper()
	res, err := s.Build(req, clips, layout)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

// --- TempoChain ---

func TestTempoChain(t *testing.T) {
	tests := []struct {
		speed float64
		want  []float64
	}{
		{1.0, nil},
		{1.5, []float64{1.5}},
		{2.0, []float64{2.0}},
		{3.0, []float64{2.0, 1.5}},
		{4.0, []float64{2.0, 2.0}},
		{0.5, []float64{0.5}},
		{0.25, []float64{0.5, 0.5}},
	}

	for _, tt := range tests {
		got := TempoChain(tt.speed)
		if len(got) != len(tt.want) {
			t.Errorf("TempoChain(%v) = %v, want %v", tt.speed, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("TempoChain(%v)[%d] = %v, want %v", tt.speed, i, got[i], tt.want[i])
			}
		}
	}
}

func TestTempoChain_ProductEqualsSpeed(t *testing.T) {
	for _, speed := range []float64{0.3, 0.5, 0.75, 1.25, 2.5, 3.0, 3.7, 4.0} {
		product := 1.0
		for _, f := range TempoChain(speed) {
			if f > 2.0 || f < 0.5 {
				t.Errorf("TempoChain(%v) contains out-of-range factor %v", speed, f)
			}
			product *= f
		}
		if math.Abs(product-speed) > 1e-9 {
			t.Errorf("TempoChain(%v) product = %v", speed, product)
		}
	}
}

func TestTempoChain_FastSpeedNeedsMultipleLinks(t *testing.T) {
	if chain := TempoChain(3.0); len(chain) < 2 {
		t.Errorf("TempoChain(3.0) = %v, want at least 2 links", chain)
	}
}

// --- Build: passthrough fast path ---

func TestBuild_PassthroughSingleUneditedClip(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 10)}
	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))

	if !res.Passthrough {
		t.Fatal("expected passthrough for single unedited clip")
	}
	if res.FilterComplex != "" {
		t.Errorf("passthrough result carries a graph: %q", res.FilterComplex)
	}
}

func TestBuild_NoPassthroughWhenEdited(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 10)}
	clips[0].Settings.Speed = 2

	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))
	if res.Passthrough {
		t.Fatal("edited clip must not take the passthrough path")
	}
}

func TestBuild_NoPassthroughForImage(t *testing.T) {
	clips := []*timeline.Clip{imageClip(0, 5)}
	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))
	if res.Passthrough {
		t.Fatal("image clip must not take the passthrough path")
	}
}

// --- Build: standard synthesis ---

func TestBuild_TerminatesInFixedOutputPads(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	res := mustBuild(t, newSynth(), plainRequest(2), clips, Layout(2, false, false, false))

	if res.VideoPad != VideoOutPad || res.AudioPad != AudioOutPad {
		t.Errorf("output pads = %q/%q, want %q/%q", res.VideoPad, res.AudioPad, VideoOutPad, AudioOutPad)
	}
	if !strings.HasSuffix(res.FilterComplex, "[aout]") {
		t.Errorf("graph does not terminate in [aout]: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "null["+VideoOutPad+"]") {
		t.Errorf("missing terminal video route: %q", res.FilterComplex)
	}
}

func TestBuild_DurationIsSumOfEffectiveDurations(t *testing.T) {
	// 5s + 5s + 5s at speed 2 = 12.5s.
	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5), videoClip(2, 5)}
	clips[1].Settings.Mute = true
	clips[2].Settings.Speed = 2

	res := mustBuild(t, newSynth(), plainRequest(3), clips, Layout(3, false, false, false))
	if math.Abs(res.Duration-12.5) > 0.5 {
		t.Errorf("Duration = %v, want 12.5 +/- 0.5", res.Duration)
	}
}

func TestBuild_ConcatSkippedForSingleClip(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 5)}
	clips[0].Settings.FadeIn = 1 // force the graph path

	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))
	if strings.Contains(res.FilterComplex, "concat=") {
		t.Errorf("single clip should skip concat: %q", res.FilterComplex)
	}
}

func TestBuild_ConcatStreamCounts(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5), videoClip(2, 5)}
	res := mustBuild(t, newSynth(), plainRequest(3), clips, Layout(3, false, false, false))

	if !strings.Contains(res.FilterComplex, "concat=n=3:v=1:a=0") {
		t.Errorf("missing video concat for 3 clips: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "concat=n=3:v=0:a=1") {
		t.Errorf("missing audio concat for 3 clips: %q", res.FilterComplex)
	}
}

func TestBuild_MutedClipGetsSilence(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	clips[1].Settings.Mute = true

	res := mustBuild(t, newSynth(), plainRequest(2), clips, Layout(2, false, false, false))
	if !strings.Contains(res.FilterComplex, "anullsrc=") {
		t.Errorf("muted clip should synthesize silence: %q", res.FilterComplex)
	}
}

func TestBuild_AllSilentClipsStillProduceAudio(t *testing.T) {
	// Zero audio-bearing clips: audio out must be synthesized silence
	// covering the timeline.
	clips := []*timeline.Clip{imageClip(0, 4), imageClip(1, 6)}
	res := mustBuild(t, newSynth(), plainRequest(2), clips, Layout(2, false, false, false))

	if strings.Count(res.FilterComplex, "anullsrc=") != 2 {
		t.Errorf("want one silence source per image clip: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "atrim=duration=4.000") ||
		!strings.Contains(res.FilterComplex, "atrim=duration=6.000") {
		t.Errorf("silence durations should match clip durations: %q", res.FilterComplex)
	}
	if math.Abs(res.Duration-10) > 0.5 {
		t.Errorf("Duration = %v, want 10 +/- 0.5", res.Duration)
	}
}

func TestBuild_SpeedProducesTempoChain(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 6)}
	clips[0].Settings.Speed = 3

	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))
	if strings.Count(res.FilterComplex, "atempo=") < 2 {
		t.Errorf("speed 3 should chain at least two atempo filters: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "setpts=0.333*PTS") {
		t.Errorf("speed 3 should rescale video timestamps: %q", res.FilterComplex)
	}
}

func TestBuild_FadeClampedToHalfDuration(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 4)}
	clips[0].Settings.FadeIn = 10 // longer than the clip

	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))
	if !strings.Contains(res.FilterComplex, "fade=t=in:st=0:d=2.000") {
		t.Errorf("fade should clamp to half duration: %q", res.FilterComplex)
	}
}

func TestBuild_FadeOutStart(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 10)}
	clips[0].Settings.FadeOut = 2

	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))
	if !strings.Contains(res.FilterComplex, "fade=t=out:st=8.000:d=2.000") {
		t.Errorf("fade-out should start at duration-fade: %q", res.FilterComplex)
	}
}

func TestBuild_ImageChain(t *testing.T) {
	clips := []*timeline.Clip{imageClip(0, 5)}
	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))

	if !strings.Contains(res.FilterComplex, "loop=loop=150:size=1:start=0") {
		t.Errorf("5s image at 30fps should loop 150 frames: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "fps=30") {
		t.Errorf("image chain should normalize to 30fps: %q", res.FilterComplex)
	}
}

func TestBuild_TrimChain(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 10)}
	clips[0].Settings.TrimStart = 2
	clips[0].Settings.TrimEnd = 7
	clips[0].Settings.HasTrim = true

	res := mustBuild(t, newSynth(), plainRequest(1), clips, Layout(1, false, false, false))
	if !strings.Contains(res.FilterComplex, "trim=start=2.000:end=7.000") {
		t.Errorf("missing video trim: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "atrim=start=2.000:end=7.000") {
		t.Errorf("audio trim should match video trim: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "setpts=PTS-STARTPTS") {
		t.Errorf("trim must reset presentation timestamps: %q", res.FilterComplex)
	}
}

func TestBuild_CanvasScaleAndPad(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	req := plainRequest(2)
	req.Enhancements = &timeline.Enhancements{AspectRatio: "9:16"}

	res := mustBuild(t, newSynth(), req, clips, Layout(2, false, false, false))
	if !strings.Contains(res.FilterComplex, "scale=1080:1920:force_original_aspect_ratio=decrease") {
		t.Errorf("9:16 canvas should scale to 1080x1920: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "pad=1080:1920:(ow-iw)/2:(oh-ih)/2:color=black") {
		t.Errorf("missing centered pad to canvas: %q", res.FilterComplex)
	}
}

// --- Overlays and mixing ---

func TestBuild_WatermarkOverlay(t *testing.T) {
	opacity := 0.8
	clips := []*timeline.Clip{videoClip(0, 5)}
	req := plainRequest(1)
	req.VideoSettings = &timeline.VideoSettings{
		Watermark: &timeline.WatermarkSettings{
			URL: "https://cdn.example.com/logo.png", Position: "top-left", Size: "large", Opacity: &opacity,
		},
	}

	res := mustBuild(t, newSynth(), req, clips, Layout(1, false, false, true))
	if !strings.Contains(res.FilterComplex, "scale=480:-1") {
		t.Errorf("large watermark on 1920 canvas should scale to 480: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "colorchannelmixer=aa=0.800") {
		t.Errorf("watermark opacity should multiply alpha: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "overlay=20:20") {
		t.Errorf("top-left watermark position: %q", res.FilterComplex)
	}
}

func TestBuild_WatermarkDefaultPosition(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 5)}
	req := plainRequest(1)
	req.VideoSettings = &timeline.VideoSettings{
		Watermark: &timeline.WatermarkSettings{URL: "https://cdn.example.com/logo.png"},
	}

	res := mustBuild(t, newSynth(), req, clips, Layout(1, false, false, true))
	if !strings.Contains(res.FilterComplex, "overlay=W-w-20:H-h-20") {
		t.Errorf("default watermark position should be bottom-right: %q", res.FilterComplex)
	}
}

func TestBuild_MusicAndVoiceMix(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 10)}
	req := plainRequest(1)
	req.VideoSettings = &timeline.VideoSettings{
		BackgroundMusic: &timeline.MusicSettings{URL: "https://cdn.example.com/bgm.mp3"},
		VoiceTrack:      &timeline.VoiceSettings{URL: "https://cdn.example.com/vo.mp3", StartTime: 1.5},
	}

	res := mustBuild(t, newSynth(), req, clips, Layout(1, true, true, false))
	if !strings.Contains(res.FilterComplex, "amix=inputs=3:duration=longest:normalize=0") {
		t.Errorf("three audio sources should mix without normalization: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "aloop=loop=-1") {
		t.Errorf("music should loop indefinitely before trim: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "adelay=1500|1500") {
		t.Errorf("voice should be delayed by its start offset: %q", res.FilterComplex)
	}
	if !strings.Contains(res.FilterComplex, "atrim=duration=10.000") {
		t.Errorf("music should trim to total duration: %q", res.FilterComplex)
	}
}

func TestBuild_SingleAudioSourceSkipsMix(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	res := mustBuild(t, newSynth(), plainRequest(2), clips, Layout(2, false, false, false))
	if strings.Contains(res.FilterComplex, "amix=") {
		t.Errorf("no extra layers means no amix: %q", res.FilterComplex)
	}
}

func TestBuild_GlobalFade(t *testing.T) {
	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	req := plainRequest(2)
	req.Enhancements = &timeline.Enhancements{
		FadeOut: &timeline.Fade{Enabled: true, Duration: 2},
	}

	res := mustBuild(t, newSynth(), req, clips, Layout(2, false, false, false))
	if !strings.Contains(res.FilterComplex, "fade=t=out:st=8.000:d=2.000") {
		t.Errorf("global fade-out should be timed against total duration: %q", res.FilterComplex)
	}
}

// --- Cross-layer delegation ---

type stubTransitions struct {
	res *Result
	ok  bool
}

func (s *stubTransitions) Build(*timeline.Request, []*timeline.Clip, Inputs) (*Result, bool) {
	return s.res, s.ok
}

type panickyTransitions struct{}

func (panickyTransitions) Build(*timeline.Request, []*timeline.Clip, Inputs) (*Result, bool) {
	panic("collaborator exploded")
}

func transitionRequest(n int) *timeline.Request {
	req := plainRequest(n)
	req.MultiTrackTimeline = []byte(`{"tracks":[]}`)
	req.CrossLayerTransitions = []timeline.Transition{{AfterClipIndex: 0, Kind: "crossfade", Duration: 1}}
	return req
}

func TestBuild_TransitionGraphUsedVerbatim(t *testing.T) {
	want := &Result{FilterComplex: "[0:v][1:v]xfade=duration=1[vout];[0:a][1:a]acrossfade=d=1[aout]", VideoPad: "vout", AudioPad: "aout"}
	s := New(zerolog.Nop(), &stubTransitions{res: want, ok: true})

	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	res := mustBuild(t, s, transitionRequest(2), clips, Layout(2, false, false, false))
	if res.FilterComplex != want.FilterComplex {
		t.Errorf("delegated graph not used verbatim: %q", res.FilterComplex)
	}
}

func TestBuild_TransitionBuilderNotConsultedWithoutTransitions(t *testing.T) {
	s := New(zerolog.Nop(), &stubTransitions{res: &Result{FilterComplex: "bogus", VideoPad: "v", AudioPad: "a"}, ok: true})

	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	res := mustBuild(t, s, plainRequest(2), clips, Layout(2, false, false, false))
	if res.FilterComplex == "bogus" {
		t.Error("collaborator must not be consulted without a multi-track timeline")
	}
}

func TestBuild_EmptyTransitionResultFallsThrough(t *testing.T) {
	s := New(zerolog.Nop(), &stubTransitions{res: &Result{}, ok: true})

	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	res := mustBuild(t, s, transitionRequest(2), clips, Layout(2, false, false, false))
	if res.FilterComplex == "" || !strings.Contains(res.FilterComplex, "concat=") {
		t.Errorf("empty collaborator result should fall back to standard synthesis: %q", res.FilterComplex)
	}
}

func TestBuild_PanickingTransitionBuilderFallsThrough(t *testing.T) {
	s := New(zerolog.Nop(), panickyTransitions{})

	clips := []*timeline.Clip{videoClip(0, 5), videoClip(1, 5)}
	res := mustBuild(t, s, transitionRequest(2), clips, Layout(2, false, false, false))
	if !strings.Contains(res.FilterComplex, "concat=") {
		t.Errorf("panicking collaborator should fall back to standard synthesis: %q", res.FilterComplex)
	}
}

// --- Layout ---

func TestLayout_InputOrder(t *testing.T) {
	in := Layout(3, true, true, true)
	if in.Music != 3 || in.Voice != 4 || in.Watermark != 5 {
		t.Errorf("Layout(3, all) = %+v, want music=3 voice=4 watermark=5", in)
	}

	in = Layout(2, false, true, false)
	if in.Music != -1 || in.Voice != 2 || in.Watermark != -1 {
		t.Errorf("Layout(2, voice only) = %+v, want music=-1 voice=2 watermark=-1", in)
	}
}
