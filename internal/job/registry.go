package job

import (
	"sync"
	"time"
)

// sweepInterval is how often the background sweeper scans for expired
// terminal records.
const sweepInterval = time.Minute

// Registry is a concurrent in-memory map of job id to record. Each job has
// an independent entry; the only shared state is the map itself, guarded by
// a single RWMutex (per-key atomic read/write is all the pipeline needs).
type Registry struct {
	mu        sync.RWMutex
	jobs      map[string]*Record
	retention time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry creates a registry whose terminal records are evicted after
// the retention window. Call Close to stop the background sweeper.
func NewRegistry(retention time.Duration) *Registry {
	r := &Registry{
		jobs:      make(map[string]*Record),
		retention: retention,
		done:      make(chan struct{}),
	}
	go r.sweepLoop()
	return r
}

// Close stops the eviction sweeper. Records already held remain readable.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// Create seeds a fresh processing record for id.
func (r *Registry) Create(id string) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = &Record{
		ID:        id,
		Status:    StatusProcessing,
		Stage:     StageInitializing,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Get returns a snapshot of the record for id.
func (r *Registry) Get(id string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.jobs[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Len returns the number of live records (terminal but unswept included).
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// Update moves the job to a new stage and progress, preserving history
// fields. Progress never regresses: a lower value keeps the current one.
func (r *Registry) Update(id string, stage Stage, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || rec.Terminal() {
		return
	}
	rec.Stage = stage
	if progress > rec.Progress {
		rec.Progress = progress
	}
	rec.UpdatedAt = time.Now()
}

// SetProgress updates progress only, with the same monotonic guard.
func (r *Registry) SetProgress(id string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || rec.Terminal() {
		return
	}
	if progress > rec.Progress {
		rec.Progress = progress
		rec.UpdatedAt = time.Now()
	}
}

// Stage returns the job's current stage, or "" when the job is unknown.
func (r *Registry) Stage(id string) Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec, ok := r.jobs[id]; ok {
		return rec.Stage
	}
	return ""
}

// Complete marks the job successful with its public artifact URL.
func (r *Registry) Complete(id, resultURL string) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || rec.Terminal() {
		return
	}
	rec.Status = StatusCompleted
	rec.Stage = StageComplete
	rec.Progress = 100
	rec.ResultURL = resultURL
	rec.UpdatedAt = now
	rec.CompletedAt = &now
}

// Fail marks the job failed with a human-readable reason. There are no
// partial-success states: the first fatal error wins.
func (r *Registry) Fail(id, msg string) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || rec.Terminal() {
		return
	}
	rec.Status = StatusFailed
	rec.Error = msg
	rec.UpdatedAt = now
	rec.CompletedAt = &now
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			r.sweep(now)
		}
	}
}

// sweep deletes terminal records older than the retention window.
func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.jobs {
		if rec.Terminal() && rec.CompletedAt != nil && now.Sub(*rec.CompletedAt) > r.retention {
			delete(r.jobs, id)
		}
	}
}
