// Package model defines the scheduling records persisted by the store.
package model

import (
	"fmt"
	"math"
	"strings"
)

// AlgorithmFSRS tags records scheduled by the forgetting-curve model.
const AlgorithmFSRS = "fsrs"

// ValidAlgorithms are the algorithm tags a store may contain.
var ValidAlgorithms = map[string]bool{
	AlgorithmFSRS: true,
}

// Bounds shared by the model and load-time validation.
const (
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
	MinStability  = 0.1
)

// MemoryState is the per-item memory model. A state with ReviewCount 0 has
// never been graded and carries zero model values.
type MemoryState struct {
	Difficulty     float64 `json:"difficulty"`
	Stability      float64 `json:"stability"`
	Retrievability float64 `json:"retrievability"`
	Interval       int     `json:"interval"`
	ReviewCount    int     `json:"review_count"`
	LastReview     *Date   `json:"last_review"`
	NextReview     Date    `json:"next_review"`
}

// NewState returns a never-reviewed state due on the given day.
func NewState(due Date) MemoryState {
	return MemoryState{NextReview: due}
}

// IsNew reports whether the item has never been graded.
func (s MemoryState) IsNew() bool {
	return s.ReviewCount == 0
}

// Validate checks the state invariants.
func (s MemoryState) Validate() error {
	if s.ReviewCount < 0 {
		return fmt.Errorf("%w: review_count %d is negative", ErrInvalidState, s.ReviewCount)
	}
	if s.NextReview.IsZero() {
		return fmt.Errorf("%w: next_review is required", ErrInvalidState)
	}
	if s.ReviewCount == 0 {
		if s.LastReview != nil {
			return fmt.Errorf("%w: last_review set on a never-reviewed item", ErrInvalidState)
		}
		return nil
	}
	if s.LastReview == nil || s.LastReview.IsZero() {
		return fmt.Errorf("%w: last_review missing with review_count %d", ErrInvalidState, s.ReviewCount)
	}
	if !finite(s.Difficulty) || s.Difficulty < MinDifficulty || s.Difficulty > MaxDifficulty {
		return fmt.Errorf("%w: difficulty %v outside [1, 10]", ErrInvalidState, s.Difficulty)
	}
	if !finite(s.Stability) || s.Stability < MinStability {
		return fmt.Errorf("%w: stability %v below %v", ErrInvalidState, s.Stability, MinStability)
	}
	if !finite(s.Retrievability) || s.Retrievability < 0 || s.Retrievability > 1 {
		return fmt.Errorf("%w: retrievability %v outside [0, 1]", ErrInvalidState, s.Retrievability)
	}
	if s.Interval < 1 {
		return fmt.Errorf("%w: interval %d below 1", ErrInvalidState, s.Interval)
	}
	return nil
}

// OverdueDays returns how many days past next_review today is; zero when the
// item is due today and negative when it is not due yet.
func (s MemoryState) OverdueDays(today Date) int {
	return today.DaysSince(s.NextReview)
}

// IsDue reports whether next_review is today or earlier.
func (s MemoryState) IsDue(today Date) bool {
	return !s.NextReview.After(today)
}

// Record is one scheduled item. The memory state is flattened into the
// record's JSON object.
type Record struct {
	ItemID    string `json:"item_id"`
	DomainTag string `json:"domain_tag"`
	Title     string `json:"title"`
	MemoryState
	Algorithm string `json:"algorithm_tag"`
}

// Validate checks the id, the algorithm tag and the memory state.
func (r Record) Validate() error {
	if err := ValidateItemID(r.ItemID); err != nil {
		return err
	}
	if !ValidAlgorithms[r.Algorithm] {
		return fmt.Errorf("%w: %s: unknown algorithm_tag %q", ErrInvalidState, r.ItemID, r.Algorithm)
	}
	if err := r.MemoryState.Validate(); err != nil {
		return fmt.Errorf("%s: %w", r.ItemID, err)
	}
	return nil
}

// ValidateItemID rejects empty or padded identifiers.
func ValidateItemID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidItemID)
	}
	if strings.TrimSpace(id) != id {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidItemID, id)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
