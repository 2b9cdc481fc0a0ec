// Package job tracks render jobs in memory. The registry is the sole source
// of truth for progress polling; records are evicted a fixed window after
// reaching a terminal state. Durability across restarts is out of scope.
package job

import "time"

// Status is the coarse lifecycle state reported to callers.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Stage is the fine-grained pipeline phase, reported alongside progress.
type Stage string

const (
	StageInitializing     Stage = "initializing"
	StageDownloading      Stage = "downloading"
	StageDownloadingAudio Stage = "downloading_audio"
	StageAnalyzing        Stage = "analyzing"
	StageBuildingFilters  Stage = "building_filters"
	StageEncoding         Stage = "encoding"
	StageUploading        Stage = "uploading"
	StageComplete         Stage = "complete"
)

// Record is one job's registry entry. Returned by value from the registry so
// callers never share registry-owned memory.
type Record struct {
	ID          string     `json:"jobId"`
	Status      Status     `json:"status"`
	Stage       Stage      `json:"stage"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
	ResultURL   string     `json:"downloadUrl,omitempty"`
}

// Terminal reports whether the record has reached a final state.
func (r *Record) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
