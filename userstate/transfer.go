package userstate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"time"
)

// ErrInvalidImport is returned for a backup document that cannot be applied.
var ErrInvalidImport = errors.New("invalid import file")

// ExportVersion is written into every full backup.
const ExportVersion = "1.0"

// ExportDocument is the full backup format.
type ExportDocument struct {
	Notes          map[int]string `json:"notes"`
	Favorites      []int          `json:"favorites"`
	RecentSearches []string       `json:"recentSearches"`
	ExportDate     string         `json:"exportDate"`
	Version        string         `json:"version"`
}

// NotesExport is the notes-only backup format.
type NotesExport struct {
	Notes      map[int]string `json:"notes"`
	ExportDate string         `json:"exportDate"`
	TotalNotes int            `json:"totalNotes"`
}

// ImportSummary reports what an import installed.
type ImportSummary struct {
	Notes          int `json:"notes"`
	Favorites      int `json:"favorites"`
	RecentSearches int `json:"recentSearches"`
}

// Message is the human-readable confirmation of an import.
func (s ImportSummary) Message() string {
	return fmt.Sprintf("Successfully imported %d notes, %d favorites, and %d recent searches.",
		s.Notes, s.Favorites, s.RecentSearches)
}

// BackupFileName suggests a file name for a full backup taken at now.
func BackupFileName(now time.Time) string {
	return "emergency-reference-backup-" + now.Format(time.DateOnly) + ".json"
}

// NotesFileName suggests a file name for a notes export taken at now.
func NotesFileName(now time.Time) string {
	return "emergency-reference-notes-" + now.Format(time.DateOnly) + ".json"
}

// Export snapshots the whole state.
func (s *State) Export(now time.Time) ExportDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ExportDocument{
		Notes:          maps.Clone(s.notes),
		Favorites:      s.favorites.IDs(),
		RecentSearches: append([]string{}, s.recent...),
		ExportDate:     now.UTC().Format(time.RFC3339),
		Version:        ExportVersion,
	}
}

// ExportNotes snapshots the notes only.
func (s *State) ExportNotes(now time.Time) NotesExport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NotesExport{
		Notes:      maps.Clone(s.notes),
		ExportDate: now.UTC().Format(time.RFC3339),
		TotalNotes: countPresent(s.notes),
	}
}

// Import replaces notes, favorites and recent searches with the contents of
// raw. The document must carry all three keys with the right shapes;
// otherwise ErrInvalidImport is returned and the state is untouched.
func (s *State) Import(ctx context.Context, raw []byte) (ImportSummary, error) {
	notes, favorites, recent, err := decodeImport(raw)
	if err != nil {
		return ImportSummary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = notes
	s.favorites = favorites
	s.recent = recent
	s.notesRevision++

	summary := ImportSummary{Notes: len(notes), Favorites: favorites.Len(), RecentSearches: len(recent)}

	errs := []error{
		s.persist(ctx, NotesKey, s.notes),
		s.persist(ctx, FavoritesKey, s.favorites),
		s.persist(ctx, RecentSearchesKey, s.recent),
	}
	return summary, errors.Join(errs...)
}

func decodeImport(raw []byte) (map[int]string, *IDSet, []string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	var (
		rawNotes  map[string]string
		favorites []int
		recent    []string
	)
	fields := []struct {
		name string
		dst  any
	}{
		{"notes", &rawNotes},
		{"favorites", &favorites},
		{"recentSearches", &recent},
	}
	for _, f := range fields {
		value, ok := doc[f.name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return nil, nil, nil, fmt.Errorf("%w: missing %q", ErrInvalidImport, f.name)
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			return nil, nil, nil, fmt.Errorf("%w: malformed %q: %v", ErrInvalidImport, f.name, err)
		}
	}

	notes := make(map[int]string, len(rawNotes))
	for key, text := range rawNotes {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 {
			return nil, nil, nil, fmt.Errorf("%w: note key %q is not a condition id", ErrInvalidImport, key)
		}
		notes[id] = text
	}

	return notes, NewIDSet(favorites...), normalizeRecent(recent), nil
}
