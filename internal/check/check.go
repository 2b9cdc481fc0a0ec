// Package check provides startup dependency validation and the tool
// availability report exposed by the health endpoint.
package check

import (
	"errors"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Tools reports which external binaries are available.
type Tools struct {
	FFmpeg  bool `json:"ffmpeg"`
	FFprobe bool `json:"ffprobe"`
}

// CheckDeps verifies both media binaries resolve on PATH. Called once at
// startup so a misconfigured host fails fast instead of failing every job.
func CheckDeps(ffmpegBin, ffprobeBin string) error {
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(ffprobeBin); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// Inspect returns the current tool availability for the health payload.
func Inspect(ffmpegBin, ffprobeBin string) Tools {
	return Tools{
		FFmpeg:  available(ffmpegBin),
		FFprobe: available(ffprobeBin),
	}
}

func available(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}

// Version returns the first line of the binary's -version output, or "" on
// any failure. Informational only.
func Version(bin string) string {
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line
}
