package ffmpeg

import (
	"fmt"
	"strings"
)

// maxDiagnosticLines caps how many matching stderr lines are surfaced in a
// failure reason.
const maxDiagnosticLines = 10

// diagnosticTokens mark stderr lines worth surfacing when the encoder exits
// non-zero.
var diagnosticTokens = []string{"Error", "Invalid", "No such"}

// ExtractFailure condenses encoder stderr into a human-readable failure
// reason: the last ten lines containing a diagnostic token, or a generic
// exit-code message when nothing matches.
func ExtractFailure(stderr string, exitCode int) string {
	var matched []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, tok := range diagnosticTokens {
			if strings.Contains(line, tok) {
				matched = append(matched, line)
				break
			}
		}
	}

	if len(matched) == 0 {
		return fmt.Sprintf("ffmpeg exited with code %d", exitCode)
	}
	if len(matched) > maxDiagnosticLines {
		matched = matched[len(matched)-maxDiagnosticLines:]
	}
	return strings.Join(matched, "\n")
}
