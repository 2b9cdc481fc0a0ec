package probe

import (
	"math"
	"testing"
)

func TestParseJSON_FullOutput(t *testing.T) {
	data := []byte(`{
		"format": {"duration": "12.345"},
		"streams": [
			{"codec_type": "video", "width": 1280, "height": 720, "avg_frame_rate": "30000/1001"},
			{"codec_type": "audio"}
		]
	}`)

	meta, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if meta.Duration != 12.345 {
		t.Errorf("Duration = %v, want 12.345", meta.Duration)
	}
	if meta.Width != 1280 || meta.Height != 720 {
		t.Errorf("dimensions = %dx%d, want 1280x720", meta.Width, meta.Height)
	}
	if math.Abs(meta.FPS-29.97) > 0.01 {
		t.Errorf("FPS = %v, want ~29.97", meta.FPS)
	}
	if !meta.HasAudio {
		t.Error("HasAudio = false, want true")
	}
}

func TestParseJSON_NoAudioStream(t *testing.T) {
	data := []byte(`{
		"format": {"duration": "3.0"},
		"streams": [{"codec_type": "video", "width": 640, "height": 480, "avg_frame_rate": "25/1"}]
	}`)

	meta, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if meta.HasAudio {
		t.Error("HasAudio = true for video-only file")
	}
	if meta.FPS != 25 {
		t.Errorf("FPS = %v, want 25", meta.FPS)
	}
}

func TestParseJSON_StreamLevelDuration(t *testing.T) {
	data := []byte(`{
		"format": {},
		"streams": [{"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30/1", "duration": "7.5"}]
	}`)

	meta, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if meta.Duration != 7.5 {
		t.Errorf("Duration = %v, want 7.5 from stream", meta.Duration)
	}
	if meta.FPS != 30 {
		t.Errorf("FPS = %v, want 30 from r_frame_rate", meta.FPS)
	}
}

func TestParseJSON_MissingFieldsFallBack(t *testing.T) {
	meta, err := ParseJSON([]byte(`{"format": {}, "streams": []}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if meta != Defaults() {
		t.Errorf("empty probe output = %+v, want defaults %+v", meta, Defaults())
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	if _, err := ParseJSON([]byte(`{not json`)); err == nil {
		t.Error("malformed JSON should return an error")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97},
		{"0/0", 0},
		{"25", 25},
		{"", 0},
		{"x/y", 0},
	}

	for _, tt := range tests {
		got := parseFrameRate(tt.in)
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Duration != 5 || d.Width != 1920 || d.Height != 1080 || d.FPS != 30 || d.HasAudio {
		t.Errorf("Defaults() = %+v", d)
	}
}
