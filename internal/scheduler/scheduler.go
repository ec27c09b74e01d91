// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CompletePastJob is the name of the reservation completion job.
const CompletePastJob = "complete_past_reservations"

const runTimeout = time.Minute

// Completer moves past confirmed reservations to completed.
type Completer interface {
	CompletePast(ctx context.Context) (int64, error)
}

// JobRecorder counts job runs, typically for metrics.
type JobRecorder interface {
	RecordJobRun(job string, success bool)
}

// Scheduler wraps a cron instance running the completion job.
type Scheduler struct {
	cron      *cron.Cron
	completer Completer
	log       logrus.FieldLogger
	recorder  JobRecorder
}

// New registers the completion job on schedule, evaluated in loc.
// recorder may be nil.
func New(schedule string, loc *time.Location, completer Completer, log logrus.FieldLogger, recorder JobRecorder) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		completer: completer,
		log:       log,
		recorder:  recorder,
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the job once and then on schedule in the background.
func (s *Scheduler) Start() {
	go s.RunOnce(context.Background())
	s.cron.Start()
	s.log.WithField("job", CompletePastJob).Info("scheduler started")
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce executes the completion job immediately.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	count, err := s.completer.CompletePast(ctx)
	if s.recorder != nil {
		s.recorder.RecordJobRun(CompletePastJob, err == nil)
	}
	if err != nil {
		s.log.WithError(err).WithField("job", CompletePastJob).Error("scheduled job failed")
		return
	}
	s.log.WithFields(logrus.Fields{"job": CompletePastJob, "completed": count}).Debug("scheduled job finished")
}
