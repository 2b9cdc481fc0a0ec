package ffmpeg

import (
	"regexp"
	"strconv"
)

// timeMarker matches the encoder's stderr progress marker, e.g.
// "time=00:01:23.45". Fractional seconds are optional.
var timeMarker = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// progressTail is how many bytes of the previous chunk a scanner carries
// over, enough to cover a marker cut by a read boundary.
const progressTail = 32

// progressScanner feeds consecutive stderr chunks through ParseProgress,
// keeping a short tail between chunks so a marker split across a read
// boundary is still recognized. Re-reporting a marker retained in the tail
// is harmless because progress consumers are monotonic.
type progressScanner struct {
	tail string
}

func (s *progressScanner) scan(chunk []byte) (float64, bool) {
	text := s.tail + string(chunk)
	secs, ok := ParseProgress(text)
	if len(text) > progressTail {
		text = text[len(text)-progressTail:]
	}
	s.tail = text
	return secs, ok
}

// ParseProgress scans a stderr chunk for the last progress marker and
// returns the elapsed output seconds it encodes. Returns ok=false when the
// chunk carries no marker.
func ParseProgress(chunk string) (float64, bool) {
	matches := timeMarker.FindAllStringSubmatch(chunk, -1)
	if len(matches) == 0 {
		return 0, false
	}
	m := matches[len(matches)-1]

	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	secs, _ := strconv.ParseFloat(m[3], 64)
	return float64(hours)*3600 + float64(mins)*60 + secs, true
}
