package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/data"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/validation"
)

type mockLoader struct {
	dataset interfaces.Dataset
	err     error
	calls   int
}

func (m *mockLoader) LoadDataset() (interfaces.Dataset, error) {
	m.calls++
	if m.err != nil {
		return interfaces.Dataset{}, m.err
	}
	return m.dataset, nil
}

func validConditions() []entities.Condition {
	return []entities.Condition{
		{
			ID:             1,
			OrderRank:      1,
			Condition:      "Cardiac Arrest",
			Specialty:      entities.SpecialtyEmergency,
			AgeGroup:       entities.AgeGroupBoth,
			AdultTreatment: entities.Treatment{DrugName: "Epinephrine", DrugClass: "Vasopressor"},
			PedsTreatment:  &entities.Treatment{DrugName: "Epinephrine", DrugClass: "Vasopressor", DoseMgPerKg: "0.01 mg/kg"},
			Keywords:       []string{"arrest"},
		},
		{
			ID:             2,
			OrderRank:      2,
			Condition:      "Anaphylaxis",
			Specialty:      entities.SpecialtyEmergency,
			AgeGroup:       entities.AgeGroupAdult,
			AdultTreatment: entities.Treatment{DrugName: "Epinephrine", DrugClass: "Vasopressor"},
		},
	}
}

func newTestScheduler(loader *mockLoader) (*Scheduler, *data.DataContainer) {
	dc := data.NewDataContainer()
	return NewScheduler(dc, loader, validation.NewDataValidator(), time.Hour), dc
}

func TestUpdateDataInstallsDataset(t *testing.T) {
	loader := &mockLoader{dataset: interfaces.Dataset{Conditions: validConditions(), Revision: "rev-1"}}
	s, dc := newTestScheduler(loader)

	outcome, err := s.updateData()
	if err != nil || outcome != ReloadUpdated {
		t.Fatalf("updateData() = %q, %v", outcome, err)
	}
	if len(dc.GetConditions()) != 2 || dc.GetRevision() != "rev-1" {
		t.Errorf("container not updated: %d conditions, revision %q", len(dc.GetConditions()), dc.GetRevision())
	}
	if dc.GetReport().ConditionsWithoutKeywords != 1 {
		t.Errorf("report not stored: %+v", dc.GetReport())
	}
	if dc.IsUpdating() {
		t.Error("update flag left set")
	}
	if s.LastCheck().IsZero() {
		t.Error("LastCheck not recorded")
	}
}

func TestUpdateDataSkipsUnchangedRevision(t *testing.T) {
	loader := &mockLoader{dataset: interfaces.Dataset{Conditions: validConditions(), Revision: "rev-1"}}
	s, dc := newTestScheduler(loader)

	if _, err := s.updateData(); err != nil {
		t.Fatal(err)
	}
	installed := dc.GetLastUpdated()

	outcome, err := s.updateData()
	if err != nil || outcome != ReloadUnchanged {
		t.Fatalf("second updateData() = %q, %v", outcome, err)
	}
	if !dc.GetLastUpdated().Equal(installed) {
		t.Error("snapshot replaced for an unchanged revision")
	}

	loader.dataset.Revision = "rev-2"
	if outcome, _ := s.updateData(); outcome != ReloadUpdated {
		t.Errorf("changed revision outcome = %q", outcome)
	}
}

func TestUpdateDataKeepsSnapshotOnFailure(t *testing.T) {
	loader := &mockLoader{dataset: interfaces.Dataset{Conditions: validConditions(), Revision: "rev-1"}}
	s, dc := newTestScheduler(loader)
	if _, err := s.updateData(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		dataset interfaces.Dataset
		err     error
	}{
		{"load error", interfaces.Dataset{}, errors.New("read failed")},
		{"empty dataset", interfaces.Dataset{Revision: "rev-2"}, nil},
		{"invalid condition", interfaces.Dataset{Revision: "rev-3", Conditions: []entities.Condition{{ID: 5}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader.dataset, loader.err = tt.dataset, tt.err
			outcome, err := s.updateData()
			if err == nil || outcome != ReloadFailed {
				t.Fatalf("updateData() = %q, %v", outcome, err)
			}
			if dc.GetRevision() != "rev-1" || len(dc.GetConditions()) != 2 {
				t.Errorf("snapshot replaced: revision %q", dc.GetRevision())
			}
			if dc.IsUpdating() {
				t.Error("update flag left set")
			}
		})
	}
}

func TestUpdateDataSkipsConcurrentUpdate(t *testing.T) {
	loader := &mockLoader{dataset: interfaces.Dataset{Conditions: validConditions(), Revision: "rev-1"}}
	s, dc := newTestScheduler(loader)

	dc.BeginUpdate()
	outcome, err := s.updateData()
	if err != nil || outcome != ReloadSkipped {
		t.Fatalf("updateData() = %q, %v", outcome, err)
	}
	if loader.calls != 0 {
		t.Errorf("loader called %d times during a running update", loader.calls)
	}
}

func TestStartFailsWhenInitialLoadFails(t *testing.T) {
	s, _ := newTestScheduler(&mockLoader{err: errors.New("missing file")})
	if err := s.Start(); err == nil {
		t.Fatal("Start() succeeded with a failing loader")
	}
}

func TestStartAndStop(t *testing.T) {
	loader := &mockLoader{dataset: interfaces.Dataset{Conditions: validConditions(), Revision: "rev-1"}}
	s, dc := newTestScheduler(loader)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(dc.GetConditions()) != 2 {
		t.Error("initial load did not install the dataset")
	}
	if next := s.NextReload(); !next.After(time.Now()) {
		t.Errorf("NextReload() = %v, want a future time", next)
	}
	s.Stop()
	s.Stop()
}

func TestStartWithoutInterval(t *testing.T) {
	loader := &mockLoader{dataset: interfaces.Dataset{Conditions: validConditions(), Revision: "rev-1"}}
	s := NewScheduler(data.NewDataContainer(), loader, validation.NewDataValidator(), 0)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.NextReload().IsZero() {
		t.Error("NextReload() set without an interval")
	}
	s.Stop()
}

func TestIsStale(t *testing.T) {
	s, _ := newTestScheduler(&mockLoader{})
	now := time.Now()
	if s.isStale(now) {
		t.Error("stale before any check")
	}
	s.lastCheck.Store(now.Add(-2 * time.Hour).UnixNano())
	if s.isStale(now) {
		t.Error("stale after two intervals")
	}
	s.lastCheck.Store(now.Add(-4 * time.Hour).UnixNano())
	if !s.isStale(now) {
		t.Error("not stale after four intervals")
	}
}
