package filtergraph

// canvasFPS is the normalized frame rate all clips are conformed to.
const canvasFPS = 30

// aspectCanvas maps the requested aspect ratio to base canvas dimensions.
var aspectCanvas = map[string][2]int{
	"16:9": {1920, 1080},
	"9:16": {1080, 1920},
	"1:1":  {1080, 1080},
	"4:3":  {1440, 1080},
}

// resolutionScale maps the resolution tier to a canvas scale factor.
var resolutionScale = map[string]float64{
	"1080p": 1.0,
	"720p":  0.667,
	"480p":  0.444,
}

// CanvasSize resolves the target canvas from an aspect-ratio string and a
// resolution tier. Unknown values fall back to 16:9 at full scale.
// Dimensions are rounded down to even numbers, as the encoder requires.
func CanvasSize(aspectRatio, resolution string) (int, int) {
	dims, ok := aspectCanvas[aspectRatio]
	if !ok {
		dims = aspectCanvas["16:9"]
	}

	scale, ok := resolutionScale[resolution]
	if !ok {
		scale = 1.0
	}

	w := even(int(float64(dims[0]) * scale))
	h := even(int(float64(dims[1]) * scale))
	return w, h
}

func even(n int) int {
	return n &^ 1
}
