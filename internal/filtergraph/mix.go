package filtergraph

import (
	"fmt"

	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// musicChain appends the background-music processing: loop indefinitely,
// trim to the timeline length, volume, fades, canonical format. Returns the
// produced pad.
func musicChain(g *Graph, m *timeline.MusicSettings, in string, total float64) string {
	filters := []string{
		"aloop=loop=-1:size=2147483647",
		fmt.Sprintf("atrim=duration=%s", ffFloat(total)),
		"asetpts=PTS-STARTPTS",
	}
	if *m.Volume != 1 {
		filters = append(filters, fmt.Sprintf("volume=%s", ffFloat(*m.Volume)))
	}
	filters = append(filters, fadeFilters("afade", m.FadeIn, m.FadeOut, total)...)
	filters = append(filters,
		fmt.Sprintf("aresample=%d", audioSampleRate),
		audioFormat,
	)

	out := "bgm"
	g.Chain(in, out, filters...)
	return out
}

// voiceChain appends the narration processing: delay by the start offset,
// volume, pad then trim to exactly the timeline length, canonical format.
// Returns the produced pad.
func voiceChain(g *Graph, v *timeline.VoiceSettings, in string, total float64) string {
	var filters []string
	if v.StartTime > 0 {
		ms := int(v.StartTime * 1000)
		filters = append(filters, fmt.Sprintf("adelay=%d|%d", ms, ms))
	}
	if *v.Volume != 1 {
		filters = append(filters, fmt.Sprintf("volume=%s", ffFloat(*v.Volume)))
	}
	filters = append(filters,
		fmt.Sprintf("apad=whole_dur=%s", ffFloat(total)),
		fmt.Sprintf("atrim=duration=%s", ffFloat(total)),
		fmt.Sprintf("aresample=%d", audioSampleRate),
		audioFormat,
	)

	out := "voice"
	g.Chain(in, out, filters...)
	return out
}

// mixAudio merges the base stream with any optional layers. With a single
// source the pad passes through untouched; with more, all sources are
// summed equal-weight without normalization so layer volumes are honored
// as configured.
func mixAudio(g *Graph, sources []string) string {
	if len(sources) == 1 {
		return sources[0]
	}
	out := "amixed"
	g.Merge(sources, out,
		fmt.Sprintf("amix=inputs=%d:duration=longest:normalize=0", len(sources)))
	return out
}
