// Package pipeline orchestrates one render job end to end: asset
// acquisition, probing, filter-graph synthesis, encoding, and delivery,
// with the job registry updated at every stage boundary.
//
// Each job runs inside its own failure boundary: any fatal error marks the
// job failed, fires the failure callback, and cleans the working directory;
// nothing ever crashes the process. Jobs are isolated through per-job
// directories and independent registry entries, so any number may run
// concurrently without coordination.
package pipeline
