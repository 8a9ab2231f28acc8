// Package userstate owns the user's notes, favorites and recent searches,
// persists them through a key-value port and handles backup import/export.
package userstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/logging"
)

// Persisted keys
const (
	NotesKey          = "emergency-reference-notes"
	FavoritesKey      = "emergency-reference-favorites"
	RecentSearchesKey = "emergency-reference-recent-searches"
)

const (
	MaxRecentSearches = 10
	// queries of this many runes or fewer are not remembered
	minRecentSearchLength = 2
)

// State is the single-user application state. All methods are safe for
// concurrent use; mutations write the affected key back before returning.
type State struct {
	mu    sync.RWMutex
	store interfaces.KeyValueStore

	notes     map[int]string
	favorites *IDSet
	recent    []string

	// bumped on every note change so search results that matched a note
	// can be told apart from stale ones
	notesRevision uint64

	Flags *Flags
}

// New creates an empty state over store.
func New(store interfaces.KeyValueStore) *State {
	return &State{
		store:     store,
		notes:     make(map[int]string),
		favorites: NewIDSet(),
		recent:    []string{},
		Flags:     NewFlags(SavingIndicatorDuration),
	}
}

// Load reads the three keys. Missing or malformed entries leave the
// collection empty and are logged; store errors are returned joined after
// every key has been tried.
func (s *State) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	load := func(key string, dst any) bool {
		ok, err := s.loadKey(ctx, key, dst)
		if err != nil {
			errs = append(errs, err)
		}
		return ok
	}

	var notes map[int]string
	if !load(NotesKey, &notes) || notes == nil {
		notes = make(map[int]string)
	}

	favorites := NewIDSet()
	if !load(FavoritesKey, favorites) {
		favorites = NewIDSet()
	}

	var recent []string
	if !load(RecentSearchesKey, &recent) {
		recent = nil
	}

	s.notes = notes
	s.favorites = favorites
	s.recent = normalizeRecent(recent)
	s.notesRevision++

	logging.Info("User state loaded",
		"notes", countPresent(s.notes),
		"favorites", s.favorites.Len(),
		"recent_searches", len(s.recent),
	)
	return errors.Join(errs...)
}

// loadKey decodes key into dst and reports whether dst holds a usable
// value. A malformed value is logged, not returned.
func (s *State) loadKey(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		logging.Warn("Failed to read persisted user state", "key", key, "error", err)
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logging.Warn("Persisted user state is malformed, using defaults", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// persist writes one key. Caller holds mu. The in-memory value stays
// updated when the write fails.
func (s *State) persist(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, string(raw)); err != nil {
		logging.Error("Failed to persist user state", "key", key, "error", err)
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// Note returns the note text for id, or "".
func (s *State) Note(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes[id]
}

// HasNote reports whether id has a note with non-blank text.
func (s *State) HasNote(id int) bool {
	return strings.TrimSpace(s.Note(id)) != ""
}

// Notes returns a copy of every note.
func (s *State) Notes() map[int]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.notes)
}

// NotesRevision changes whenever any note changes.
func (s *State) NotesRevision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notesRevision
}

// SetNote stores text for id (an empty text is kept, not deleted) and raises
// the saving flag.
func (s *State) SetNote(ctx context.Context, id int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[id] = text
	s.notesRevision++
	s.Flags.MarkSaving(id)
	return s.persist(ctx, NotesKey, s.notes)
}

// IsFavorite reports membership of id.
func (s *State) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.Has(id)
}

// FavoriteIDs returns the favorites in insertion order.
func (s *State) FavoriteIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.IDs()
}

// ToggleFavorite flips id and returns whether it is now a favorite.
func (s *State) ToggleFavorite(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.favorites.Toggle(id)
	return on, s.persist(ctx, FavoritesKey, s.favorites)
}

// RecentSearches returns the history, most recent first.
func (s *State) RecentSearches() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.recent...)
}

// PushRecentSearch front-inserts the trimmed query, moving an existing entry
// instead of duplicating it and keeping at most MaxRecentSearches. Queries
// of two runes or fewer are ignored; pushed reports whether the list changed.
func (s *State) PushRecentSearch(ctx context.Context, query string) (pushed bool, err error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) <= minRecentSearchLength {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.recent) > 0 && s.recent[0] == q {
		return false, nil
	}
	s.recent = normalizeRecent(append([]string{q}, s.recent...))
	return true, s.persist(ctx, RecentSearchesKey, s.recent)
}

// ClearRecentSearches empties the history.
func (s *State) ClearRecentSearches(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = []string{}
	return s.persist(ctx, RecentSearchesKey, s.recent)
}

// ClearAll removes every persisted key and resets the three collections
// together.
func (s *State) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = make(map[int]string)
	s.favorites = NewIDSet()
	s.recent = []string{}
	s.notesRevision++
	s.Flags.Reset()

	var errs []error
	for _, key := range []string{NotesKey, FavoritesKey, RecentSearchesKey} {
		if err := s.store.Remove(ctx, key); err != nil {
			logging.Error("Failed to remove persisted user state", "key", key, "error", err)
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Stats counts the user's data.
type Stats struct {
	Notes          int `json:"notes"`
	Favorites      int `json:"favorites"`
	RecentSearches int `json:"recentSearches"`
}

// Stats returns present notes, favorites and recent searches.
func (s *State) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Notes:          countPresent(s.notes),
		Favorites:      s.favorites.Len(),
		RecentSearches: len(s.recent),
	}
}

func countPresent(notes map[int]string) int {
	n := 0
	for _, text := range notes {
		if strings.TrimSpace(text) != "" {
			n++
		}
	}
	return n
}

// normalizeRecent trims entries, drops blanks and repeats (first wins) and
// caps the list.
func normalizeRecent(in []string) []string {
	out := make([]string, 0, min(len(in), MaxRecentSearches))
	seen := make(map[string]bool, len(in))
	for _, q := range in {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		if len(out) == MaxRecentSearches {
			break
		}
	}
	return out
}
