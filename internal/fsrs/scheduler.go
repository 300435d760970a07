package fsrs

import (
	"fmt"
	"math"
	"time"

	"github.com/rcliao/recall/internal/model"
)

// Scheduler applies grading events to memory states.
type Scheduler struct {
	*Model
}

// NewScheduler creates a Scheduler. Zero-value fields of p take defaults.
func NewScheduler(p Parameters) (*Scheduler, error) {
	m, err := NewModel(p)
	if err != nil {
		return nil, err
	}
	return &Scheduler{Model: m}, nil
}

// GradingEvent is one review outcome.
type GradingEvent struct {
	ItemID    string       `json:"item_id"`
	Rating    model.Rating `json:"rating"`
	Timestamp time.Time    `json:"timestamp"`
}

// Review returns the state after grading current with rating on reviewDate.
// The input is not mutated. Invalid ratings and malformed reviewed states are
// returned as errors and never coerced.
func (s *Scheduler) Review(current model.MemoryState, rating model.Rating, reviewDate model.Date) (model.MemoryState, error) {
	if !rating.IsValid() {
		return model.MemoryState{}, fmt.Errorf("%w: %d", model.ErrInvalidRating, int(rating))
	}
	if reviewDate.IsZero() {
		return model.MemoryState{}, fmt.Errorf("%w: review date is required", model.ErrInvalidState)
	}

	next := model.MemoryState{ReviewCount: current.ReviewCount}

	if current.IsNew() {
		next.Difficulty = s.InitialDifficulty(rating)
		next.Stability = s.InitialStability(rating)
		next.Retrievability = 1.0
	} else {
		if err := checkReviewed(current); err != nil {
			return model.MemoryState{}, err
		}
		elapsed := reviewDate.DaysSince(*current.LastReview)
		if elapsed < 0 {
			elapsed = 0
		}
		r := s.Retrievability(float64(elapsed), current.Stability)
		next.Retrievability = r
		next.Difficulty = s.NextDifficulty(current.Difficulty, rating)
		next.Stability = s.NextStability(current.Difficulty, current.Stability, r, rating)
	}

	next.Interval = s.Interval(next.Stability)
	last := reviewDate
	next.LastReview = &last
	next.NextReview = reviewDate.AddDays(next.Interval)
	next.ReviewCount++
	return next, nil
}

// Preview returns the state each rating would produce. Nothing is mutated.
func (s *Scheduler) Preview(current model.MemoryState, reviewDate model.Date) (map[model.Rating]model.MemoryState, error) {
	out := make(map[model.Rating]model.MemoryState, len(model.Ratings))
	for _, r := range model.Ratings {
		st, err := s.Review(current, r, reviewDate)
		if err != nil {
			return nil, err
		}
		out[r] = st
	}
	return out, nil
}

// Replay folds events over a fresh state, using each event's local calendar
// day as the review date.
func (s *Scheduler) Replay(events []GradingEvent) (model.MemoryState, error) {
	var st model.MemoryState
	for i, ev := range events {
		next, err := s.Review(st, ev.Rating, model.DateOf(ev.Timestamp))
		if err != nil {
			return model.MemoryState{}, fmt.Errorf("event %d (%s): %w", i, ev.ItemID, err)
		}
		st = next
	}
	return st, nil
}

// checkReviewed guards the subsequent-review branch.
func checkReviewed(st model.MemoryState) error {
	if st.LastReview == nil || st.LastReview.IsZero() {
		return fmt.Errorf("%w: last_review missing with review_count %d", model.ErrInvalidState, st.ReviewCount)
	}
	if math.IsNaN(st.Difficulty) || math.IsInf(st.Difficulty, 0) ||
		st.Difficulty < model.MinDifficulty || st.Difficulty > model.MaxDifficulty {
		return fmt.Errorf("%w: difficulty %v", model.ErrInvalidState, st.Difficulty)
	}
	if math.IsNaN(st.Stability) || math.IsInf(st.Stability, 0) || st.Stability <= 0 {
		return fmt.Errorf("%w: stability %v", model.ErrInvalidState, st.Stability)
	}
	return nil
}
