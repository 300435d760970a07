package model

import (
	"fmt"
	"sort"
	"time"
)

// Metadata summarizes the schedule file.
type Metadata struct {
	LastModified string `json:"last_modified"`
	TotalItems   int    `json:"total_items"`
}

// Schedule is the whole store file.
type Schedule struct {
	Metadata Metadata          `json:"metadata"`
	Items    map[string]Record `json:"items"`
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{Items: map[string]Record{}}
}

// Validate checks every record and that each key matches its record's id.
func (s *Schedule) Validate() error {
	for key, rec := range s.Items {
		if key != rec.ItemID {
			return fmt.Errorf("%w: key %q holds record for %q", ErrInvalidState, key, rec.ItemID)
		}
		if err := rec.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Touch refreshes the metadata after a mutation.
func (s *Schedule) Touch(now time.Time) {
	s.Metadata.LastModified = now.UTC().Format(time.RFC3339)
	s.Metadata.TotalItems = len(s.Items)
}

// IDs returns the item ids in ascending order.
func (s *Schedule) IDs() []string {
	ids := make([]string, 0, len(s.Items))
	for id := range s.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Records returns the records ordered by item id.
func (s *Schedule) Records() []Record {
	out := make([]Record, 0, len(s.Items))
	for _, id := range s.IDs() {
		out = append(out, s.Items[id])
	}
	return out
}
