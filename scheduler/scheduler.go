// Package scheduler runs the periodic registry reachability probe and
// publishes its outcome to the status store read by /health.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler probes the registry every interval. The first probe runs as
// soon as the scheduler starts.
type Scheduler struct {
	status    interfaces.StatusStore
	prober    interfaces.RegistryProber
	interval  time.Duration
	timeout   time.Duration
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies.
// An interval of 0 disables probing.
func NewScheduler(status interfaces.StatusStore, prober interfaces.RegistryProber, interval, timeout time.Duration) *Scheduler {
	return &Scheduler{
		status:    status,
		prober:    prober,
		interval:  interval,
		timeout:   timeout,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start schedules the probe. A failing registry never stops the server from
// starting; it only shows up in /health.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		logging.Info("Registry probe disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.probeOnce)
	if err != nil {
		logging.Error("Failed to schedule registry probe", "error", err)
		return fmt.Errorf("failed to schedule registry probe: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Registry probe scheduled", "interval", s.interval.String())
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// probeOnce runs one probe unless another is still in flight.
func (s *Scheduler) probeOnce() {
	if !s.status.BeginProbe() {
		logging.Info("Registry probe already in progress, skipping...")
		return
	}
	defer s.status.EndProbe()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := s.prober.Probe(ctx)
	s.status.RecordProbe(start, err)

	if err != nil {
		logging.Warn("Registry probe failed", "error", err, "duration", time.Since(start).String())
		return
	}
	logging.Debug("Registry probe succeeded", "duration", time.Since(start).String())
}
