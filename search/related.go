package search

import (
	"slices"
	"sort"
	"strings"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
)

const (
	// MaxRelated is how many related conditions are returned.
	MaxRelated = 6
	// QuickAccessMaxRank bounds the quick-access list.
	QuickAccessMaxRank = 10
)

// Related scores every other condition against target and returns the best
// MaxRelated with a positive score, highest first. Ties keep dataset order.
//
// Scoring: same specialty +3, each shared keyword +2, each shared name word
// longer than 3 letters +1, order rank within 5 +2 or within 10 +1.
func Related(conditions []entities.Condition, target *entities.Condition) []entities.Condition {
	type scored struct {
		condition entities.Condition
		score     int
	}

	targetWords := strings.Split(strings.ToLower(target.Condition), " ")
	var candidates []scored

	for _, c := range conditions {
		if c.ID == target.ID {
			continue
		}
		score := 0
		if c.Specialty == target.Specialty {
			score += 3
		}
		for _, k := range c.Keywords {
			if slices.Contains(target.Keywords, k) {
				score += 2
			}
		}
		words := strings.Split(strings.ToLower(c.Condition), " ")
		for _, w := range targetWords {
			if len([]rune(w)) > 3 && slices.Contains(words, w) {
				score++
			}
		}
		switch diff := abs(c.OrderRank - target.OrderRank); {
		case diff <= 5:
			score += 2
		case diff <= 10:
			score++
		}
		if score > 0 {
			candidates = append(candidates, scored{c, score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]entities.Condition, 0, MaxRelated)
	for i := 0; i < len(candidates) && i < MaxRelated; i++ {
		out = append(out, candidates[i].condition)
	}
	return out
}

// MostCritical returns the conditions ranked 1 to QuickAccessMaxRank, in
// dataset order.
func MostCritical(conditions []entities.Condition) []entities.Condition {
	out := make([]entities.Condition, 0, QuickAccessMaxRank)
	for _, c := range conditions {
		if c.OrderRank >= 1 && c.OrderRank <= QuickAccessMaxRank {
			out = append(out, c)
		}
	}
	return out
}

// Specialties returns All followed by each specialty in first-seen order.
func Specialties(conditions []entities.Condition) []string {
	out := []string{All}
	seen := make(map[entities.Specialty]bool)
	for _, c := range conditions {
		if !seen[c.Specialty] {
			seen[c.Specialty] = true
			out = append(out, string(c.Specialty))
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
