package userstate

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestIDSetOperations(t *testing.T) {
	s := NewIDSet(3, 1, 3, 2)

	if got := s.IDs(); !slices.Equal(got, []int{3, 1, 2}) {
		t.Errorf("IDs = %v, want insertion order without repeats", got)
	}
	if got := s.Sorted(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Sorted = %v", got)
	}
	if s.Add(1) {
		t.Error("Add of existing id reported new")
	}
	if !s.Remove(1) || s.Has(1) || s.Len() != 2 {
		t.Error("Remove failed")
	}
	if s.Remove(1) {
		t.Error("second Remove reported present")
	}
	if !s.Toggle(9) || !s.Has(9) {
		t.Error("Toggle on absent id should add")
	}
	if s.Toggle(9) || s.Has(9) {
		t.Error("Toggle on present id should remove")
	}
}

func TestIDSetJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ordered", `[4,1,7]`, `[4,1,7]`},
		{"repeats collapse", `[4,1,4,1]`, `[4,1]`},
		{"empty", `[]`, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s IDSet
			if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			out, err := json.Marshal(&s)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("round trip = %s, want %s", out, tt.want)
			}

			// a second pass must not change anything
			var again IDSet
			if err := json.Unmarshal(out, &again); err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(again.IDs(), s.IDs()) {
				t.Errorf("round trip not idempotent: %v vs %v", again.IDs(), s.IDs())
			}
		})
	}

	var s IDSet
	if err := json.Unmarshal([]byte(`["a"]`), &s); err == nil {
		t.Error("expected error for non-numeric ids")
	}
}
