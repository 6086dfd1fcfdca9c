package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kortschak/sun"
	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-sunset-notification/internal/config"
	"github.com/KasumiMercury/primind-sunset-notification/internal/observability/logging"
	"github.com/KasumiMercury/primind-sunset-notification/internal/service/dispatch"
)

const module = logging.Module("scheduler")

var ErrCycleInProgress = errors.New("dispatch cycle already in progress")

type CycleRunner interface {
	RunCycle(ctx context.Context) (*dispatch.CycleResult, error)
}

// CycleStatus describes the most recent finished dispatch cycle.
type CycleStatus struct {
	RunID      string    `json:"run_id,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Processed  int       `json:"processed_count"`
	Error      string    `json:"error,omitempty"`
}

func (s CycleStatus) Failed() bool {
	return s.Error != ""
}

// Scheduler triggers dispatch cycles from a cron spec and guarantees that
// at most one cycle runs at a time, whether started by cron or by RunOnce.
type Scheduler struct {
	cron    *cron.Cron
	runner  CycleRunner
	timeout time.Duration
	enabled bool

	running atomic.Bool

	mu   sync.RWMutex
	last *CycleStatus

	now func() time.Time
}

// New parses the schedule with the solar-aware parser, so specs such as
// "@sunset -33.9 151.2" are accepted alongside standard five-field specs.
func New(cfg *config.ScheduleConfig, runner CycleRunner) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", cfg.Timezone, err)
	}

	s := &Scheduler{
		runner:  runner,
		timeout: cfg.CycleTimeout,
		enabled: cfg.Enabled,
		now:     time.Now,
	}

	s.cron = cron.New(
		cron.WithParser(sun.Parser{}),
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{})),
	)

	if cfg.Enabled {
		if _, err := s.cron.AddFunc(cfg.Spec, s.runScheduled); err != nil {
			return nil, fmt.Errorf("invalid dispatch schedule %q: %w", cfg.Spec, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	if !s.enabled {
		slog.Info("scheduler disabled, cycles run only on manual trigger")
		return
	}
	s.cron.Start()
}

// Stop halts the cron and waits for a running cycle until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextRun returns the next scheduled trigger, or the zero time when the
// schedule is disabled.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce runs one cycle bounded by the cycle timeout. It fails with
// ErrCycleInProgress while another cycle is running.
func (s *Scheduler) RunOnce(ctx context.Context) (*dispatch.CycleResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status := CycleStatus{StartedAt: s.now()}
	result, err := s.runner.RunCycle(ctx)
	status.FinishedAt = s.now()
	if result != nil {
		status.RunID = result.RunID
		status.Processed = result.ProcessedCount
	}
	if err != nil {
		status.Error = err.Error()
	}

	s.mu.Lock()
	s.last = &status
	s.mu.Unlock()

	return result, err
}

// LastCycle reports the most recent finished cycle.
func (s *Scheduler) LastCycle() (CycleStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return CycleStatus{}, false
	}
	return *s.last, true
}

func (s *Scheduler) runScheduled() {
	ctx := logging.WithModule(context.Background(), module)

	result, err := s.RunOnce(ctx)
	if errors.Is(err, ErrCycleInProgress) {
		slog.WarnContext(ctx, "previous dispatch cycle still running, skipping trigger")
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "scheduled dispatch cycle failed",
			slog.String("error", err.Error()),
		)
		return
	}

	slog.InfoContext(ctx, "scheduled dispatch cycle finished",
		slog.String("run_id", result.RunID),
		slog.Int("processed_count", result.ProcessedCount),
		slog.Time("next_run", s.NextRun()),
	)
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(msg, append(keysAndValues, "error", err.Error())...)
}
