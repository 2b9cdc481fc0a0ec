// Package ffmpeg builds and executes encoder commands: a fixed argument
// skeleton around the synthesized filter graph (or the passthrough map),
// stderr progress scanning, and failure diagnostics extraction.
//
// The encoder gets exactly one attempt per job; there is no retry.
package ffmpeg
