// Package scheduler loads the condition dataset at startup and reloads it
// periodically, swapping the snapshot only when the document changed and
// still validates.
package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Reload outcomes, also used as metric labels.
const (
	ReloadUpdated   = "updated"
	ReloadUnchanged = "unchanged"
	ReloadFailed    = "failed"
	ReloadSkipped   = "skipped"
)

// Scheduler handles dataset reloads and staleness monitoring
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.DatasetLoader
	validator interfaces.DataValidator
	interval  time.Duration
	scheduler *gocron.Scheduler

	lastCheck atomic.Int64 // unix nanos of the last successful load or revision check
	stopOnce  sync.Once
	done      chan struct{}
}

// NewScheduler creates a scheduler reloading every interval. A zero
// interval disables periodic reloads.
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.DatasetLoader, validator interfaces.DataValidator, interval time.Duration) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		validator: validator,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
		done:      make(chan struct{}),
	}
}

// Start performs the initial load, then schedules reloads and the health
// monitor. The initial load must succeed.
func (s *Scheduler) Start() error {
	outcome, err := s.updateData()
	if err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}
	logging.Debug("Initial dataset load", "outcome", outcome)

	if s.interval <= 0 {
		logging.Info("Periodic dataset reload disabled")
		return nil
	}

	_, err = s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		if _, err := s.updateData(); err != nil {
			logging.Error("Failed to reload dataset", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler and the health monitor
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.scheduler.Stop()
		close(s.done)
	})
}

// LastCheck returns when the dataset was last loaded or confirmed unchanged.
func (s *Scheduler) LastCheck() time.Time {
	n := s.lastCheck.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// NextReload returns when the next periodic reload will run, or the zero
// time when none is scheduled.
func (s *Scheduler) NextReload() time.Time {
	if s.interval <= 0 || !s.scheduler.IsRunning() {
		return time.Time{}
	}
	_, next := s.scheduler.NextRun()
	return next
}

// updateData loads the document and installs it when its revision differs
// from the current one. A document that fails validation leaves the current
// snapshot in place.
func (s *Scheduler) updateData() (string, error) {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		metrics.DatasetReloads.WithLabelValues(ReloadSkipped).Inc()
		return ReloadSkipped, nil
	}
	defer s.dataStore.EndUpdate()

	start := time.Now()

	dataset, err := s.loader.LoadDataset()
	if err != nil {
		metrics.DatasetReloads.WithLabelValues(ReloadFailed).Inc()
		return ReloadFailed, fmt.Errorf("failed to load dataset: %w", err)
	}

	current := s.dataStore.GetConditions()
	if dataset.Revision != "" && dataset.Revision == s.dataStore.GetRevision() && len(current) > 0 {
		s.lastCheck.Store(time.Now().UnixNano())
		metrics.DatasetReloads.WithLabelValues(ReloadUnchanged).Inc()
		logging.Debug("Dataset unchanged", "revision", dataset.Revision)
		return ReloadUnchanged, nil
	}

	if err := s.validator.ValidateDataIntegrity(dataset.Conditions); err != nil {
		metrics.DatasetReloads.WithLabelValues(ReloadFailed).Inc()
		return ReloadFailed, errors.Join(errors.New("dataset rejected"), err)
	}

	report := s.validator.ReportDataQuality(dataset.Conditions)
	logReport(report)

	s.dataStore.UpdateData(dataset, report)
	s.lastCheck.Store(time.Now().UnixNano())

	metrics.DatasetConditions.Set(float64(len(dataset.Conditions)))
	metrics.DatasetReloads.WithLabelValues(ReloadUpdated).Inc()
	logging.Info("Dataset update completed",
		"duration", time.Since(start).String(),
		"condition_count", len(dataset.Conditions),
		"revision", shortRevision(dataset.Revision),
	)

	return ReloadUpdated, nil
}

func logReport(report *interfaces.DataQualityReport) {
	if len(report.DuplicateIDs) > 0 {
		logging.Warn("Duplicate condition IDs detected",
			"total", len(report.DuplicateIDs),
			"id_list", report.DuplicateIDs,
		)
	}
	if report.ConditionsWithoutKeywords > 0 {
		logging.Warn("Conditions without keywords",
			"count", report.ConditionsWithoutKeywords,
			"id_list", report.ConditionsWithoutKeywordsIDs,
		)
	}
	if report.PedsTreatmentMismatches > 0 {
		logging.Warn("Pediatric treatment does not match age group",
			"count", report.PedsTreatmentMismatches,
			"id_list", report.PedsTreatmentMismatchesIDs,
		)
	}
	if report.TreatmentsWithUnparsableDoses > 0 {
		logging.Warn("Weight-based doses without a number", "count", report.TreatmentsWithUnparsableDoses)
	}
	if report.ConditionsWithoutReferences > 0 {
		logging.Info("Conditions without references", "count", report.ConditionsWithoutReferences)
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// startHealthMonitoring warns when reloads stop succeeding
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				if s.isStale(time.Now()) {
					logging.Warn("Dataset has not been checked recently",
						"last_check", s.LastCheck().Format(time.RFC3339),
						"is_updating", s.dataStore.IsUpdating(),
					)
				}
			}
		}
	}()
}

// isStale reports whether more than three reload intervals passed since the
// last successful check.
func (s *Scheduler) isStale(now time.Time) bool {
	last := s.LastCheck()
	if last.IsZero() || s.interval <= 0 {
		return false
	}
	return now.Sub(last) > 3*s.interval
}
