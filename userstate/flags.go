package userstate

import (
	"fmt"
	"sync"
	"time"
)

// Flag names an ephemeral per-condition UI flag. Flags are never persisted.
type Flag string

const (
	FlagExpandedNotes   Flag = "expandedNotes"
	FlagExpandedDetails Flag = "expandedDetails"
	FlagNotesSaving     Flag = "notesSaving"
)

// SavingIndicatorDuration is how long the saving flag stays up after an edit.
const SavingIndicatorDuration = time.Second

// ParseToggleFlag accepts the flags a client may toggle directly.
func ParseToggleFlag(s string) (Flag, error) {
	switch Flag(s) {
	case FlagExpandedNotes, FlagExpandedDetails:
		return Flag(s), nil
	}
	return "", fmt.Errorf("unknown flag %q: expected %s or %s", s, FlagExpandedNotes, FlagExpandedDetails)
}

// Flags holds the per-id UI flags. The saving flag clears itself.
type Flags struct {
	mu        sync.Mutex
	values    map[Flag]map[int]bool
	timers    map[int]*time.Timer
	savingFor time.Duration
}

// NewFlags creates an empty flag table whose saving flag lasts savingFor.
func NewFlags(savingFor time.Duration) *Flags {
	return &Flags{
		values:    make(map[Flag]map[int]bool),
		timers:    make(map[int]*time.Timer),
		savingFor: savingFor,
	}
}

// Get reports the flag for id.
func (f *Flags) Get(flag Flag, id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[flag][id]
}

// Toggle flips the flag for id and returns the new value.
func (f *Flags) Toggle(flag Flag, id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := !f.values[flag][id]
	f.set(flag, id, next)
	return next
}

// MarkSaving raises the saving flag for id and restarts its clear timer.
func (f *Flags) MarkSaving(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set(FlagNotesSaving, id, true)
	if t, ok := f.timers[id]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(f.savingFor, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.timers[id] != timer {
			return
		}
		f.set(FlagNotesSaving, id, false)
		delete(f.timers, id)
	})
	f.timers[id] = timer
}

// Snapshot returns every flag for id.
func (f *Flags) Snapshot(id int) map[Flag]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return map[Flag]bool{
		FlagExpandedNotes:   f.values[FlagExpandedNotes][id],
		FlagExpandedDetails: f.values[FlagExpandedDetails][id],
		FlagNotesSaving:     f.values[FlagNotesSaving][id],
	}
}

// Reset clears every flag and stops pending timers.
func (f *Flags) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.timers {
		t.Stop()
		delete(f.timers, id)
	}
	f.values = make(map[Flag]map[int]bool)
}

// set writes one flag. Caller holds mu.
func (f *Flags) set(flag Flag, id int, on bool) {
	if !on {
		delete(f.values[flag], id)
		return
	}
	if f.values[flag] == nil {
		f.values[flag] = make(map[int]bool)
	}
	f.values[flag][id] = true
}
