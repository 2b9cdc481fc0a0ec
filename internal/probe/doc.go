// Package probe provides ffprobe-based media inspection with typed results.
// A single JSON call per asset extracts container duration, dimensions,
// frame rate, and audio presence.
//
// Probing is advisory: any spawn, exit, or parse failure falls back to
// fixed defaults instead of failing the job. Metadata only affects visual
// fidelity, never the pipeline's control flow.
package probe
