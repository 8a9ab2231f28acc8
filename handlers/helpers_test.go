package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/data"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/search"
	"github.com/giygas/emergency-reference/storage"
	"github.com/giygas/emergency-reference/userstate"
	"github.com/giygas/emergency-reference/validation"
	"github.com/go-chi/chi/v5"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testConditions() []entities.Condition {
	return []entities.Condition{
		{
			ID:             1,
			OrderRank:      1,
			Condition:      "Cardiac Arrest",
			ICD10Code:      "I46.9",
			Specialty:      entities.SpecialtyEmergency,
			AgeGroup:       entities.AgeGroupBoth,
			AdultTreatment: entities.Treatment{DrugName: "Epinephrine", DrugClass: "Vasopressor", Dose: "1 mg IV"},
			PedsTreatment: &entities.Treatment{
				DrugName:    "Epinephrine",
				DrugClass:   "Vasopressor",
				DoseMgPerKg: "0.01 mg/kg",
				MaxDose:     strPtr("1 mg"),
			},
			Keywords: []string{"arrest", "cpr"},
		},
		{
			ID:             2,
			OrderRank:      4,
			Condition:      "Acute Ischemic Stroke",
			ICD10Code:      "I63.9",
			Specialty:      entities.SpecialtyNeurology,
			AgeGroup:       entities.AgeGroupAdult,
			AdultTreatment: entities.Treatment{DrugName: "Alteplase", DrugClass: "Thrombolytic", DoseMgPerKg: "0.9 mg/kg", MaxDose: strPtr("90 mg")},
			Keywords:       []string{"stroke", "cva"},
		},
		{
			ID:             3,
			OrderRank:      20,
			Condition:      "Community-Acquired Pneumonia",
			ICD10Code:      "J18.9",
			Specialty:      entities.SpecialtyInternalMedicine,
			AgeGroup:       entities.AgeGroupAdult,
			AdultTreatment: entities.Treatment{DrugName: "Ceftriaxone", DrugClass: "Cephalosporin"},
			Keywords:       []string{"pneumonia", "cough"},
		},
	}
}

type mockHealthChecker struct {
	status string
	code   int
}

func (m *mockHealthChecker) HealthCheck(context.Context) (string, map[string]any, int) {
	return m.status, map[string]any{"conditions": 3}, m.code
}

// failingStore accepts reads but fails every write.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }
func (failingStore) Remove(context.Context, string) error { return errors.New("disk full") }

type testEnv struct {
	handler *HTTPHandlerImpl
	router  chi.Router
	state   *userstate.State
	engine  *search.Engine
}

func newTestEnv(t *testing.T, store interfaces.KeyValueStore) *testEnv {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}

	dc := data.NewDataContainer()
	dc.UpdateData(interfaces.Dataset{Conditions: testConditions(), Revision: "r1"}, nil)
	dc.SetServerStartTime(fixedNow.Add(-90 * time.Minute))

	state := userstate.New(store)
	engine := search.NewEngine(dc, state, search.DefaultCacheCapacity)
	h := NewHTTPHandler(dc, validation.NewDataValidator(), engine, state, &mockHealthChecker{status: "healthy", code: http.StatusOK})
	h.now = func() time.Time { return fixedNow }

	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Route("/api", func(r chi.Router) {
		r.Get("/conditions", h.ListConditions)
		r.Get("/conditions/critical", h.CriticalConditions)
		r.Get("/conditions/{id}", h.GetCondition)
		r.Post("/conditions/{id}/dosage", h.CalculateDosage)
		r.Get("/specialties", h.ListSpecialties)
		r.Get("/suggestions", h.Suggestions)
		r.Post("/suggestions/navigate", h.NavigateSuggestions)
		r.Post("/scores/{tool}", h.EvaluateScore)
		r.Post("/allergies/alternatives", h.AllergyAlternatives)
		r.Get("/notes", h.ListNotes)
		r.Get("/notes/{id}", h.GetNote)
		r.Put("/notes/{id}", h.PutNote)
		r.Get("/favorites", h.ListFavorites)
		r.Post("/favorites/{id}/toggle", h.ToggleFavorite)
		r.Get("/recent-searches", h.ListRecentSearches)
		r.Post("/recent-searches", h.PushRecentSearch)
		r.Delete("/recent-searches", h.ClearRecentSearches)
		r.Post("/ui/{id}/{flag}/toggle", h.ToggleUIFlag)
		r.Get("/export", h.ExportData)
		r.Get("/export/notes", h.ExportNotes)
		r.Post("/import", h.ImportData)
		r.Delete("/data", h.ClearAllData)
	})

	return &testEnv{handler: h, router: r, state: state, engine: engine}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, code, rec.Body.String())
	}
	body := decodeBody[map[string]any](t, rec)
	if body["error"] != http.StatusText(code) || body["code"] != float64(code) || body["message"] == "" {
		t.Errorf("error body = %v", body)
	}
}
