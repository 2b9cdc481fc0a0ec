package filtergraph

import (
	"fmt"

	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// Watermark width as a fraction of canvas width, by size tier.
var watermarkWidthFrac = map[string]float64{
	"small":  0.10,
	"medium": 0.15,
	"large":  0.25,
}

// overlayPadPx is the fixed pixel padding between a corner watermark and the
// canvas edge.
const overlayPadPx = 20

// watermarkPositions maps the position enum to overlay x:y expressions.
// W/H are the main stream dimensions, w/h the overlay's.
var watermarkPositions = map[string]string{
	"top-left":     fmt.Sprintf("%d:%d", overlayPadPx, overlayPadPx),
	"top-right":    fmt.Sprintf("W-w-%d:%d", overlayPadPx, overlayPadPx),
	"bottom-left":  fmt.Sprintf("%d:H-h-%d", overlayPadPx, overlayPadPx),
	"bottom-right": fmt.Sprintf("W-w-%d:H-h-%d", overlayPadPx, overlayPadPx),
	"center":       "(W-w)/2:(H-h)/2",
}

// globalFades appends the assembled-video fade pass when enabled, consuming
// pad in and returning the pad carrying the result. Fades are clamped
// against the total timeline duration with the same rule as per-clip fades.
func globalFades(g *Graph, enh *timeline.Enhancements, in string, total float64) string {
	if enh == nil {
		return in
	}

	var fadeIn, fadeOut float64
	if enh.FadeIn != nil && enh.FadeIn.Enabled && enh.FadeIn.Duration > 0 {
		fadeIn = enh.FadeIn.Duration
	}
	if enh.FadeOut != nil && enh.FadeOut.Enabled && enh.FadeOut.Duration > 0 {
		fadeOut = enh.FadeOut.Duration
	}
	filters := fadeFilters("fade", fadeIn, fadeOut, total)
	if len(filters) == 0 {
		return in
	}

	out := "vgfade"
	g.Chain(in, out, filters...)
	return out
}

// watermarkOverlay appends the watermark scaling and compositing steps:
// the watermark input is scaled to a width fraction of the canvas, its
// alpha multiplied by the configured opacity, and composited at the
// position enum's fixed-padding coordinates. Returns the composited pad.
func watermarkOverlay(g *Graph, wm *timeline.WatermarkSettings, wmPad, in string, canvasW int) string {
	frac, ok := watermarkWidthFrac[wm.Size]
	if !ok {
		frac = watermarkWidthFrac["medium"]
	}
	width := even(int(float64(canvasW) * frac))

	pos, ok := watermarkPositions[wm.Position]
	if !ok {
		pos = watermarkPositions["bottom-right"]
	}

	scaled := "wmscaled"
	g.Chain(wmPad, scaled,
		fmt.Sprintf("scale=%d:-1", width),
		"format=rgba",
		fmt.Sprintf("colorchannelmixer=aa=%s", ffFloat(*wm.Opacity)),
	)

	out := "vwm"
	g.Merge([]string{in, scaled}, out, fmt.Sprintf("overlay=%s", pos))
	return out
}
