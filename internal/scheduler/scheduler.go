// Package scheduler runs the background jobs on cron schedules. A Redis
// lock per job keeps overlapping ticks (and multiple instances) from
// running the same job concurrently.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/cache"
	"github.com/anujdevsingh/gram-panchayat/internal/usecase/gramsabha"
	"github.com/anujdevsingh/gram-panchayat/internal/usecase/summary"
	"github.com/anujdevsingh/gram-panchayat/internal/usecase/transcription"
	"github.com/anujdevsingh/gram-panchayat/internal/usecase/translation"
	"github.com/anujdevsingh/gram-panchayat/pkg/config"
	"github.com/anujdevsingh/gram-panchayat/pkg/jobcontext"
)

const (
	jobInitiateSummaries = "summary:initiate"
	jobFetchResults      = "summary:fetch-results"
	jobRetrySummaries    = "summary:retry"
	jobTranslate         = "translate"
	jobTranscription     = "transcription"
	jobMeetingStatus     = "meetings:conclude-overdue"
)

type Scheduler struct {
	cron          *cron.Cron
	summaries     summary.Service
	transcription transcription.Service
	translation   translation.Job
	meetings      gramsabha.Service
	lock          *cache.JobLock
	cfg           *config.JobsConfig
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	mu            sync.Mutex
}

func NewScheduler(
	summaries summary.Service,
	transcriptionSvc transcription.Service,
	translationJob translation.Job,
	meetings gramsabha.Service,
	lock *cache.JobLock,
	cfg *config.JobsConfig,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		summaries:     summaries,
		transcription: transcriptionSvc,
		translation:   translationJob,
		meetings:      meetings,
		lock:          lock,
		cfg:           cfg,
		logger:        logger,
	}
}

// Start registers all jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{jobInitiateSummaries, s.cfg.InitiateSpec, s.summaries.InitiateRequests},
		{jobFetchResults, s.cfg.FetchResultsSpec, s.summaries.FetchResults},
		{jobRetrySummaries, s.cfg.RetrySpec, s.summaries.RetryFailed},
		{jobTranslate, s.cfg.TranslateSpec, s.translation.Run},
		{jobTranscription, s.cfg.TranscriptionSpec, s.transcription.ProcessPending},
		{jobMeetingStatus, s.cfg.MeetingStatusSpec, s.meetings.ConcludeOverdue},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.runJob(job.name, job.run) }); err != nil {
			return fmt.Errorf("register job %s: %w", job.name, err)
		}
		s.logger.Info("registered background job",
			zap.String("job", job.name),
			zap.String("spec", job.spec))
	}

	s.cron.Start()
	s.logger.Info("scheduler started")
	return nil
}

// Stop cancels running jobs and waits for the cron loop to drain.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// runJob executes a single job tick under the distributed lock. A tick
// that cannot take the lock is skipped, not queued.
func (s *Scheduler) runJob(name string, run func(context.Context) error) {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()

	if parent.Err() != nil {
		return
	}

	acquired, err := s.lock.Acquire(parent, name)
	if err != nil {
		s.logger.Error("failed to acquire job lock", zap.String("job", name), zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("job already running elsewhere, skipping tick", zap.String("job", name))
		return
	}

	ctx, cancel := jobcontext.JobBegin(parent, name)
	defer cancel()
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), name); err != nil {
			s.logger.Warn("failed to release job lock", zap.String("job", name), zap.Error(err))
		}
	}()

	runID := jobcontext.JobID(ctx)
	s.logger.Debug("job tick started",
		zap.String("job", name),
		zap.String("run_id", runID.String()))
	if err := run(ctx); err != nil {
		s.logger.Error("job tick failed",
			zap.String("job", name),
			zap.String("run_id", runID.String()),
			zap.Duration("elapsed", jobcontext.Elapsed(ctx)),
			zap.Error(err))
		return
	}
	s.logger.Debug("job tick completed",
		zap.String("job", name),
		zap.String("run_id", runID.String()),
		zap.Duration("elapsed", jobcontext.Elapsed(ctx)))
}
