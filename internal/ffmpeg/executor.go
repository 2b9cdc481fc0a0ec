package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/rmahabir1973/artivio-render/internal/config"
)

// ProgressFunc receives elapsed output seconds as the encoder reports them.
type ProgressFunc func(seconds float64)

// Executor spawns the external encoder and judges its outcome.
type Executor struct {
	bin string
	log zerolog.Logger
}

// NewExecutor creates an Executor driving the given ffmpeg binary.
func NewExecutor(bin string, log zerolog.Logger) *Executor {
	return &Executor{bin: bin, log: log}
}

// Run executes the plan. Stderr is buffered and scanned chunk by chunk for
// progress markers, which are forwarded to onProgress (may be nil).
//
// Success requires a zero exit code AND a non-empty output file on disk; a
// clean exit without output is still a failure. On a non-zero exit the
// failure reason is extracted from stderr diagnostics.
func (e *Executor) Run(ctx context.Context, cfg *config.Config, plan *Plan, onProgress ProgressFunc) error {
	args := BuildArgs(cfg, plan)
	e.log.Debug().Strs("args", args).Msg("spawning encoder")

	cmd := exec.CommandContext(ctx, e.bin, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.bin, err)
	}

	var stderrBuf bytes.Buffer
	var scanner progressScanner
	buf := make([]byte, 4096)
	for {
		n, readErr := stderr.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			stderrBuf.Write(chunk)
			if onProgress != nil {
				if secs, ok := scanner.scan(chunk); ok {
					onProgress(secs)
				}
			}
		}
		if readErr != nil {
			break
		}
	}

	waitErr := cmd.Wait()
	if waitErr != nil {
		code := -1
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		return fmt.Errorf("encode failed: %s", ExtractFailure(stderrBuf.String(), code))
	}

	fi, statErr := os.Stat(plan.OutputPath)
	if statErr != nil || fi.Size() == 0 {
		return fmt.Errorf("encoder exited cleanly but produced no output at %s", plan.OutputPath)
	}
	return nil
}
