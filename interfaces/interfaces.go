// Package interfaces defines core abstractions for the emergency reference service
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
)

// DataQualityReport provides a summary of data quality issues found in a dataset
type DataQualityReport struct {
	DuplicateIDs                  []int
	ConditionsWithoutKeywords     int
	ConditionsWithoutKeywordsIDs  []int
	ConditionsWithoutReferences   int
	PedsTreatmentMismatches       int // pediatric treatment present/absent against the age group
	PedsTreatmentMismatchesIDs    []int
	TreatmentsWithUnparsableDoses int // doseMgPerKg set but no number in it
}

// Dataset is one immutable snapshot of the bundled condition document
type Dataset struct {
	Conditions []entities.Condition
	Revision   string // content hash of the source document
}

// DataStore defines the contract for the dataset snapshot holder.
// It provides lock-free access to the current snapshot with atomic
// replacement on reload.
type DataStore interface {
	// Data retrieval methods
	GetConditions() []entities.Condition
	GetConditionsMap() map[int]*entities.Condition
	GetRevision() string
	GetLastUpdated() time.Time
	GetReport() *DataQualityReport
	IsUpdating() bool

	// Data update methods
	UpdateData(dataset Dataset, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// DatasetLoader defines the contract for reading the condition document.
type DatasetLoader interface {
	// LoadDataset reads, decodes and normalises the whole dataset
	LoadDataset() (Dataset, error)
}

// KeyValueStore is the persistence port for user state. Values are opaque
// strings (JSON documents); absence is reported through found, not err.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Scheduler defines the contract for job scheduling and health monitoring.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	// Dataset browsing
	ListConditions(w http.ResponseWriter, r *http.Request)
	GetCondition(w http.ResponseWriter, r *http.Request)
	CriticalConditions(w http.ResponseWriter, r *http.Request)
	ListSpecialties(w http.ResponseWriter, r *http.Request)
	Suggestions(w http.ResponseWriter, r *http.Request)
	NavigateSuggestions(w http.ResponseWriter, r *http.Request)

	// Calculators
	CalculateDosage(w http.ResponseWriter, r *http.Request)
	EvaluateScore(w http.ResponseWriter, r *http.Request)
	AllergyAlternatives(w http.ResponseWriter, r *http.Request)

	// User state
	ListNotes(w http.ResponseWriter, r *http.Request)
	GetNote(w http.ResponseWriter, r *http.Request)
	PutNote(w http.ResponseWriter, r *http.Request)
	ListFavorites(w http.ResponseWriter, r *http.Request)
	ToggleFavorite(w http.ResponseWriter, r *http.Request)
	ListRecentSearches(w http.ResponseWriter, r *http.Request)
	PushRecentSearch(w http.ResponseWriter, r *http.Request)
	ClearRecentSearches(w http.ResponseWriter, r *http.Request)
	ToggleUIFlag(w http.ResponseWriter, r *http.Request)

	// Data management
	ExportData(w http.ResponseWriter, r *http.Request)
	ExportNotes(w http.ResponseWriter, r *http.Request)
	ImportData(w http.ResponseWriter, r *http.Request)
	ClearAllData(w http.ResponseWriter, r *http.Request)

	// This will stay in all versions
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck(ctx context.Context) (status string, details map[string]any, httpStatus int)
}

// DataValidator defines the contract for data validation operations.
// It ensures data integrity and consistency.
type DataValidator interface {
	// ValidateCondition checks if a condition entity is valid
	ValidateCondition(c *entities.Condition) error

	// ValidateDataIntegrity performs whole-dataset validation
	ValidateDataIntegrity(conditions []entities.Condition) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(conditions []entities.Condition) *DataQualityReport

	// ValidateInput validates free-text user input (queries, search terms)
	ValidateInput(input string) error

	// ValidateID validates a condition id path parameter
	ValidateID(input string) (int, error)
}
