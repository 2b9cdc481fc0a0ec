package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rmahabir1973/artivio-render/internal/config"
	"github.com/rmahabir1973/artivio-render/internal/delivery"
	"github.com/rmahabir1973/artivio-render/internal/ffmpeg"
	"github.com/rmahabir1973/artivio-render/internal/filtergraph"
	"github.com/rmahabir1973/artivio-render/internal/job"
	"github.com/rmahabir1973/artivio-render/internal/media"
	"github.com/rmahabir1973/artivio-render/internal/probe"
	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// Stage progress milestones. Encoding progress is interpolated inside its
// window from the encoder's own time markers.
const (
	progressDownloading   = 5
	progressAudioAssets   = 25
	progressAnalyzing     = 30
	progressFilters       = 35
	progressEncodingStart = 40
	progressEncodingEnd   = 85
	progressUploading     = 85
	progressUploaded      = 95
)

// Processor runs render jobs. All collaborators are injected; the processor
// itself holds no per-job state, so one instance serves every job.
type Processor struct {
	cfg      *config.Config
	registry *job.Registry
	fetcher  *media.Fetcher
	prober   *probe.Prober
	synth    *filtergraph.Synthesizer
	executor *ffmpeg.Executor
	uploader delivery.Uploader
	notifier *delivery.Notifier
	log      zerolog.Logger
}

// New wires a Processor from its collaborators.
func New(
	cfg *config.Config,
	registry *job.Registry,
	fetcher *media.Fetcher,
	prober *probe.Prober,
	synth *filtergraph.Synthesizer,
	executor *ffmpeg.Executor,
	uploader delivery.Uploader,
	notifier *delivery.Notifier,
	log zerolog.Logger,
) *Processor {
	return &Processor{
		cfg:      cfg,
		registry: registry,
		fetcher:  fetcher,
		prober:   prober,
		synth:    synth,
		executor: executor,
		uploader: uploader,
		notifier: notifier,
		log:      log,
	}
}

// Process runs one job to its terminal state. It is launched in its own
// goroutine by the HTTP layer and never reports back to the request that
// created it; observation is via registry polling or the callback webhook.
func (p *Processor) Process(ctx context.Context, jobID string, req *timeline.Request) {
	log := p.log.With().Str("job_id", jobID).Logger()

	workDir, err := media.WorkDir(p.cfg.ResolveWorkDir(), jobID)
	if err != nil {
		p.fail(ctx, log, jobID, req.CallbackURL, fmt.Sprintf("create working directory: %v", err))
		return
	}
	// The working directory goes away on every exit path, success or not.
	defer media.Cleanup(workDir)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("pipeline panicked")
			p.fail(ctx, log, jobID, req.CallbackURL, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := p.run(ctx, log, jobID, workDir, req); err != nil {
		p.fail(ctx, log, jobID, req.CallbackURL, err.Error())
	}
}

// run executes the stage sequence. Returning an error marks the job failed
// with that message; optional-asset and probe failures never surface here.
func (p *Processor) run(ctx context.Context, log zerolog.Logger, jobID, workDir string, req *timeline.Request) error {
	clips := req.Normalize()
	for _, c := range clips {
		if c.Kind == timeline.KindVideo && media.IsImageURL(c.URL) {
			c.MakeImage()
		}
	}

	// --- Acquire clips (fatal on any failure) ---
	p.registry.Update(jobID, job.StageDownloading, progressDownloading)
	log.Info().Int("clips", len(clips)).Msg("downloading clips")
	if err := p.fetcher.FetchClips(ctx, workDir, clips); err != nil {
		return err
	}

	// --- Acquire optional assets (best-effort) ---
	p.registry.Update(jobID, job.StageDownloadingAudio, progressAudioAssets)
	plan := &ffmpeg.Plan{OutputPath: filepath.Join(workDir, "output.mp4")}
	for _, c := range clips {
		plan.ClipPaths = append(plan.ClipPaths, c.LocalPath)
	}
	if m := req.Music(); m != nil {
		if path, ok := p.fetcher.FetchOptional(ctx, workDir, "music", m.URL); ok {
			plan.MusicPath = path
		}
	}
	if v := req.Voice(); v != nil {
		if path, ok := p.fetcher.FetchOptional(ctx, workDir, "voice", v.URL); ok {
			plan.VoicePath = path
		}
	}
	if wm := req.WatermarkCfg(); wm != nil {
		if path, ok := p.fetcher.FetchOptional(ctx, workDir, "watermark", wm.URL); ok {
			plan.WatermarkPath = path
		}
	}

	// --- Probe (advisory) ---
	p.registry.Update(jobID, job.StageAnalyzing, progressAnalyzing)
	for _, c := range clips {
		if c.Kind == timeline.KindVideo {
			c.Meta = p.prober.Probe(ctx, c.LocalPath)
		}
	}

	// --- Synthesize the filter graph ---
	p.registry.Update(jobID, job.StageBuildingFilters, progressFilters)
	graph, err := p.synth.Build(req, clips, plan.Layout())
	if err != nil {
		return fmt.Errorf("build filter graph: %w", err)
	}
	plan.Graph = graph
	log.Info().Float64("duration", graph.Duration).Bool("passthrough", graph.Passthrough).
		Msg("filter graph ready")

	// --- Encode ---
	p.registry.Update(jobID, job.StageEncoding, progressEncodingStart)
	cfg := p.encodeConfig(req)
	err = p.executor.Run(ctx, cfg, plan, func(seconds float64) {
		if p.registry.Stage(jobID) != job.StageEncoding {
			return
		}
		p.registry.SetProgress(jobID, encodeProgress(seconds, graph.Duration))
	})
	if err != nil {
		return err
	}

	// --- Deliver ---
	p.registry.Update(jobID, job.StageUploading, progressUploading)
	key := delivery.ResultKey(jobID, plan.OutputPath)
	url, err := p.uploader.Upload(ctx, key, plan.OutputPath, delivery.ContentType(plan.OutputPath))
	if err != nil {
		return fmt.Errorf("upload result: %w", err)
	}
	p.registry.SetProgress(jobID, progressUploaded)

	p.registry.Complete(jobID, url)
	log.Info().Str("url", url).Msg("job completed")
	p.notifier.Notify(ctx, req.CallbackURL, delivery.CallbackPayload{
		JobID:       jobID,
		Status:      string(job.StatusCompleted),
		DownloadURL: url,
	})
	return nil
}

// fail records the terminal failure and fires the failure callback.
func (p *Processor) fail(ctx context.Context, log zerolog.Logger, jobID, callbackURL, msg string) {
	log.Error().Str("reason", msg).Msg("job failed")
	p.registry.Fail(jobID, msg)
	p.notifier.Notify(ctx, callbackURL, delivery.CallbackPayload{
		JobID:  jobID,
		Status: string(job.StatusFailed),
		Error:  msg,
	})
}

// encodeConfig applies the request's quality tier, when valid, over the
// service default.
func (p *Processor) encodeConfig(req *timeline.Request) *config.Config {
	if req.VideoSettings == nil {
		return p.cfg
	}
	switch q := config.Quality(req.VideoSettings.Quality); q {
	case config.QualityHigh, config.QualityMedium, config.QualityLow:
		cfg := *p.cfg
		cfg.Quality = q
		return &cfg
	}
	return p.cfg
}

// encodeProgress maps encoder-reported elapsed seconds into the bounded
// encoding window. This is an estimate against the independently computed
// timeline duration, not exact completion.
func encodeProgress(seconds, total float64) int {
	if total <= 0 {
		return progressEncodingStart
	}
	frac := seconds / total
	if frac > 1 {
		frac = 1
	}
	span := float64(progressEncodingEnd - progressEncodingStart)
	return progressEncodingStart + int(frac*span)
}
