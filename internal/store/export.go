package store

import (
	"context"
	"fmt"

	"github.com/rcliao/recall/internal/model"
)

// ExportAll returns all records ordered by id, optionally filtered by domain.
func (s *FileStore) ExportAll(ctx context.Context, domain string) ([]model.Record, error) {
	sched, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Record{}
	for _, rec := range sched.Records() {
		if domain != "" && rec.DomainTag != domain {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Import stores records from an export. Existing ids are skipped unless
// overwrite is set. Every record is validated before anything is written.
func (s *FileStore) Import(ctx context.Context, records []model.Record, overwrite bool) (int, error) {
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if rec.Algorithm == "" {
			rec.Algorithm = model.AlgorithmFSRS
			records[i] = rec
		}
		if err := rec.Validate(); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		if seen[rec.ItemID] {
			return 0, fmt.Errorf("record %d: %w: duplicate id %s", i, model.ErrInvalidItemID, rec.ItemID)
		}
		seen[rec.ItemID] = true
	}

	imported := 0
	err := s.Update(ctx, func(sched *model.Schedule) error {
		imported = 0
		for _, rec := range records {
			if _, ok := sched.Items[rec.ItemID]; ok && !overwrite {
				continue
			}
			sched.Items[rec.ItemID] = rec
			imported++
		}
		return nil
	})
	return imported, err
}
