package store

import (
	"context"
	"os"
	"sort"

	"github.com/rcliao/recall/internal/model"
)

// Stats holds schedule statistics.
type Stats struct {
	Path          string        `json:"path"`
	SizeBytes     int64         `json:"size_bytes"`
	LastModified  string        `json:"last_modified,omitempty"`
	TotalItems    int           `json:"total_items"`
	NewItems      int           `json:"new_items"`
	ReviewedItems int           `json:"reviewed_items"`
	DueToday      int           `json:"due_today"`
	Overdue       int           `json:"overdue"`
	TotalReviews  int           `json:"total_reviews"`
	MeanRetention float64       `json:"mean_retention"`
	Backups       int           `json:"backups"`
	Domains       []DomainStats `json:"domains"`
}

// DomainStats holds per-domain counts.
type DomainStats struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
	Due    int    `json:"due"`
}

// Stats returns schedule statistics as of today. Mean retention is the
// predicted retrievability today averaged over reviewed items.
func (s *FileStore) Stats(ctx context.Context, today model.Date) (*Stats, error) {
	sched, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Path:         s.path,
		LastModified: sched.Metadata.LastModified,
		TotalItems:   len(sched.Items),
	}
	if info, err := os.Stat(s.path); err == nil {
		st.SizeBytes = info.Size()
	}
	if list, err := s.Backups(); err == nil {
		st.Backups = len(list)
	}

	domains := map[string]*DomainStats{}
	var retentionSum float64
	for _, rec := range sched.Items {
		ds, ok := domains[rec.DomainTag]
		if !ok {
			ds = &DomainStats{Domain: rec.DomainTag}
			domains[rec.DomainTag] = ds
		}
		ds.Count++

		st.TotalReviews += rec.ReviewCount
		if rec.IsNew() {
			st.NewItems++
		} else {
			st.ReviewedItems++
			retentionSum += s.scheduler.PredictRetention(rec.MemoryState, today.DaysSince(*rec.LastReview))
		}
		if rec.IsDue(today) {
			ds.Due++
			if rec.OverdueDays(today) > 0 {
				st.Overdue++
			} else {
				st.DueToday++
			}
		}
	}
	if st.ReviewedItems > 0 {
		st.MeanRetention = retentionSum / float64(st.ReviewedItems)
	}

	for _, ds := range domains {
		st.Domains = append(st.Domains, *ds)
	}
	sort.Slice(st.Domains, func(i, j int) bool {
		if st.Domains[i].Count != st.Domains[j].Count {
			return st.Domains[i].Count > st.Domains[j].Count
		}
		return st.Domains[i].Domain < st.Domains[j].Domain
	})
	return st, nil
}
