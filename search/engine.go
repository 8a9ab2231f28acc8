package search

import (
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/metrics"
)

// Annotations is the user data the filter reads: notes for text matching and
// favorites for the favorites-only filter.
type Annotations interface {
	Note(id int) string
	IsFavorite(id int) bool
	FavoriteIDs() []int
	NotesRevision() uint64
}

// Filter returns the conditions matching every criterion, in dataset order.
func Filter(conditions []entities.Condition, crit Criteria, ann Annotations) []entities.Condition {
	result := make([]entities.Condition, 0)
	for i := range conditions {
		c := &conditions[i]
		if !crit.admits(c, ann.IsFavorite) {
			continue
		}
		if !MatchesSearch(c, crit.Query, ann.Note(c.ID)) {
			continue
		}
		result = append(result, *c)
	}
	return result
}

// Engine filters the current dataset snapshot through a ResultCache.
type Engine struct {
	store        interfaces.DataStore
	annotations  Annotations
	cache        *ResultCache
	computations atomic.Int64
}

// NewEngine creates an engine with a cache of the given capacity.
func NewEngine(store interfaces.DataStore, annotations Annotations, capacity int) *Engine {
	return &Engine{
		store:       store,
		annotations: annotations,
		cache:       NewResultCache(capacity),
	}
}

// Filter returns the filtered dataset, computing it only on a cache miss.
// The returned slice is shared with the cache and must not be modified.
func (e *Engine) Filter(crit Criteria) []entities.Condition {
	key := e.cacheKey(crit)
	if cached, ok := e.cache.Get(key); ok {
		metrics.FilterCacheLookups.WithLabelValues("hit").Inc()
		return cached
	}
	metrics.FilterCacheLookups.WithLabelValues("miss").Inc()

	result := Filter(e.store.GetConditions(), crit, e.annotations)
	e.computations.Add(1)
	metrics.FilterComputations.Inc()

	e.cache.Put(key, result)
	return result
}

// Computations counts filter passes actually run.
func (e *Engine) Computations() int64 {
	return e.computations.Load()
}

// CacheLen returns the number of cached results.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}

// cacheKey covers every input of a filter pass: the criteria, the favorites
// set, the dataset revision and the notes revision (notes take part in text
// matching). Fields are separated by a byte that cannot occur in a query
// that passed input validation.
func (e *Engine) cacheKey(crit Criteria) string {
	var b strings.Builder
	b.WriteString(crit.Query)
	b.WriteByte(0)
	b.WriteString(crit.Specialty)
	b.WriteByte(0)
	b.WriteString(crit.AgeGroup)
	b.WriteByte(0)
	b.WriteString(crit.Severity)
	b.WriteByte(0)
	b.WriteString(strconv.FormatBool(crit.FavoritesOnly))
	b.WriteByte(0)
	for i, id := range sortedIDs(e.annotations.FavoriteIDs()) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	b.WriteByte(0)
	b.WriteString(e.store.GetRevision())
	b.WriteByte(0)
	b.WriteString(strconv.FormatUint(e.annotations.NotesRevision(), 10))
	return b.String()
}

func sortedIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}
