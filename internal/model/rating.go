package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rating is the learner's grade for one review.
type Rating int

const (
	Again Rating = iota + 1 // forgot
	Hard
	Good
	Easy
)

// Ratings lists every valid rating in ascending order.
var Ratings = []Rating{Again, Hard, Good, Easy}

var ratingNames = [...]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

// IsValid reports whether r is one of Again through Easy.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ParseRating accepts "1".."4" or a rating name in any case.
func ParseRating(s string) (Rating, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		r := Rating(n)
		if !r.IsValid() {
			return 0, fmt.Errorf("%w: %d (valid: 1-4)", ErrInvalidRating, n)
		}
		return r, nil
	}
	lower := strings.ToLower(s)
	for r := Again; r <= Easy; r++ {
		if ratingNames[r] == lower {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (valid: again, hard, good, easy)", ErrInvalidRating, s)
}

// UnmarshalJSON accepts either the integer or the name.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		v := Rating(n)
		if !v.IsValid() {
			return fmt.Errorf("%w: %d", ErrInvalidRating, n)
		}
		*r = v
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRating, data)
	}
	v, err := ParseRating(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
