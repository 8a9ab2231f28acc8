// Package health reports whether the dataset is loaded and user state can
// be persisted.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/giygas/emergency-reference/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

const pingTimeout = 2 * time.Second

// Pinger is a backend that can report its availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReloadSchedule reports when the dataset will next be reloaded.
type ReloadSchedule interface {
	NextReload() time.Time
}

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
	store     Pinger
	schedule  ReloadSchedule
}

// NewHealthChecker creates a new health checker with injected dependencies.
// store may be nil when user state is not persisted.
func NewHealthChecker(dataStore interfaces.DataStore, store Pinger) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		dataStore: dataStore,
		store:     store,
	}
}

// WithSchedule adds the next dataset reload to the reported details.
func (h *HealthCheckerImpl) WithSchedule(schedule ReloadSchedule) *HealthCheckerImpl {
	h.schedule = schedule
	return h
}

// HealthCheck returns the overall status with dataset and storage details.
// An empty dataset is unhealthy; an unreachable store is degraded since
// reference lookups still work.
func (h *HealthCheckerImpl) HealthCheck(ctx context.Context) (status string, data map[string]any, httpStatus int) {
	conditions := h.dataStore.GetConditions()
	lastUpdate := h.dataStore.GetLastUpdated()
	report := h.dataStore.GetReport()

	storeStatus := "ok"
	if h.store != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := h.store.Ping(pingCtx); err != nil {
			storeStatus = "unavailable: " + err.Error()
		}
	}

	switch {
	case len(conditions) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case storeStatus != "ok":
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	dataAge := 0.0
	lastUpdateText := ""
	if !lastUpdate.IsZero() {
		dataAge = math.Round(time.Since(lastUpdate).Hours()*10) / 10
		lastUpdateText = lastUpdate.Format(time.RFC3339)
	}

	data = map[string]any{
		"last_update":    lastUpdateText,
		"data_age_hours": dataAge,
		"conditions":     len(conditions),
		"revision":       h.dataStore.GetRevision(),
		"is_updating":    h.dataStore.IsUpdating(),
		"store":          storeStatus,
	}
	if h.schedule != nil {
		if next := h.schedule.NextReload(); !next.IsZero() {
			data["next_reload"] = next.Format(time.RFC3339)
		}
	}
	if report != nil {
		data["quality"] = map[string]any{
			"duplicate_ids":                len(report.DuplicateIDs),
			"without_keywords":             report.ConditionsWithoutKeywords,
			"without_references":           report.ConditionsWithoutReferences,
			"peds_treatment_mismatches":    report.PedsTreatmentMismatches,
			"unparsable_weight_based_dose": report.TreatmentsWithUnparsableDoses,
		}
	}

	return status, data, httpStatus
}
