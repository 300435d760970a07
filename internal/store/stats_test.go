//go:build unix

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rcliao/recall/internal/model"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})
	day := model.MustParseDate("2025-01-01")
	register(t, s, day, "a", "b", "c")
	s.Register(ctx, day.AddDays(10), NewItem{ItemID: "d", DomainTag: "math"})
	if _, err := s.UpdateAndSave(ctx, "a", model.Good, day); err != nil {
		t.Fatal(err)
	}

	st, err := s.Stats(ctx, day.AddDays(1))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalItems != 4 || st.NewItems != 3 || st.ReviewedItems != 1 {
		t.Errorf("unexpected counts %+v", st)
	}
	// b and c were due on day 0 and are overdue; a is due on day 3; d on day 10.
	if st.Overdue != 2 || st.DueToday != 0 {
		t.Errorf("expected 2 overdue and 0 due today, got %d/%d", st.Overdue, st.DueToday)
	}
	if st.MeanRetention <= 0 || st.MeanRetention >= 1 {
		t.Errorf("expected mean retention in (0,1), got %v", st.MeanRetention)
	}
	if len(st.Domains) != 2 || st.Domains[0].Domain != "go" || st.Domains[0].Count != 3 {
		t.Errorf("unexpected domains %+v", st.Domains)
	}
	if st.SizeBytes == 0 {
		t.Error("expected non-zero file size")
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t, Options{})
	day := model.MustParseDate("2025-01-01")
	register(t, src, day, "a", "b")
	src.Register(ctx, day, NewItem{ItemID: "m", DomainTag: "math"})
	src.UpdateAndSave(ctx, "a", model.Hard, day)

	all, err := src.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(all) != 3 || all[0].ItemID != "a" {
		t.Fatalf("unexpected export %+v", all)
	}
	math, _ := src.ExportAll(ctx, "math")
	if len(math) != 1 {
		t.Errorf("expected 1 math record, got %d", len(math))
	}

	dst := newTestStore(t, Options{})
	register(t, dst, day, "b")
	n, err := dst.Import(ctx, all, false)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported (b skipped), got %d", n)
	}
	got, _ := dst.Get(ctx, "a")
	if got.ReviewCount != 1 {
		t.Errorf("expected imported review state, got %+v", got.MemoryState)
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	s := newTestStore(t, Options{})
	bad := []model.Record{{ItemID: "x", MemoryState: model.MemoryState{ReviewCount: 1, NextReview: model.MustParseDate("2025-01-01")}}}
	_, err := s.Import(context.Background(), bad, false)
	if !errors.Is(err, model.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
