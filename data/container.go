// Package data holds the current dataset snapshot behind atomic values so
// readers never lock and a reload replaces the whole snapshot at once.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// snapshot is replaced as a unit; its slices and maps are never mutated.
type snapshot struct {
	conditions    []entities.Condition
	conditionsMap map[int]*entities.Condition
	revision      string
	report        *interfaces.DataQualityReport
	lastUpdated   time.Time
}

// DataContainer is the lock-free holder of the dataset.
type DataContainer struct {
	current         atomic.Pointer[snapshot]
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container holding an empty snapshot
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.current.Store(&snapshot{
		conditions:    []entities.Condition{},
		conditionsMap: map[int]*entities.Condition{},
		report:        &interfaces.DataQualityReport{},
	})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

func (dc *DataContainer) load() *snapshot {
	s := dc.current.Load()
	if s == nil {
		logging.Warn("Dataset snapshot is not initialized")
		return &snapshot{conditionsMap: map[int]*entities.Condition{}, report: &interfaces.DataQualityReport{}}
	}
	return s
}

// GetConditions returns the conditions in dataset order.
func (dc *DataContainer) GetConditions() []entities.Condition {
	return dc.load().conditions
}

// GetConditionsMap returns the id index for O(1) lookups. The pointers alias
// the snapshot slice and must be treated as read-only.
func (dc *DataContainer) GetConditionsMap() map[int]*entities.Condition {
	return dc.load().conditionsMap
}

// GetRevision returns the content hash of the loaded document.
func (dc *DataContainer) GetRevision() string {
	return dc.load().revision
}

// GetLastUpdated returns when the current snapshot was installed.
func (dc *DataContainer) GetLastUpdated() time.Time {
	return dc.load().lastUpdated
}

// GetReport returns the quality report computed for the current snapshot.
func (dc *DataContainer) GetReport() *interfaces.DataQualityReport {
	return dc.load().report
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if t, ok := dc.serverStartTime.Load().(time.Time); ok {
		return t
	}
	return time.Time{}
}

// UpdateData installs a new snapshot built from dataset.
func (dc *DataContainer) UpdateData(dataset interfaces.Dataset, report *interfaces.DataQualityReport) {
	conditions := dataset.Conditions
	if conditions == nil {
		conditions = []entities.Condition{}
	}
	index := make(map[int]*entities.Condition, len(conditions))
	for i := range conditions {
		// first occurrence wins on duplicate ids
		if _, exists := index[conditions[i].ID]; !exists {
			index[conditions[i].ID] = &conditions[i]
		}
	}
	if report == nil {
		report = &interfaces.DataQualityReport{}
	}

	dc.current.Store(&snapshot{
		conditions:    conditions,
		conditionsMap: index,
		revision:      dataset.Revision,
		report:        report,
		lastUpdated:   time.Now(),
	})
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
