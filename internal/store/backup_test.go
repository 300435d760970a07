//go:build unix

package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/recall/internal/model"
)

func TestBackupsRotated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{BackupKeep: 3, Clock: time.Now})
	register(t, s, model.MustParseDate("2025-01-01"), "a")

	var lastPre []byte
	for i := 0; i < 6; i++ {
		lastPre, _ = os.ReadFile(s.Path())
		if _, err := s.UpdateAndSave(ctx, "a", model.Good, model.MustParseDate("2025-01-01").AddDays(i)); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	list, err := s.Backups()
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(list))
	}
	newest, _ := os.ReadFile(list[0].Path)
	if !bytes.Equal(newest, lastPre) {
		t.Error("newest backup is not the pre-update file")
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name <= list[i].Name {
			t.Errorf("backups not newest first: %s before %s", list[i-1].Name, list[i].Name)
		}
	}
}

func TestFirstWriteMakesNoBackup(t *testing.T) {
	s := newTestStore(t, Options{})
	register(t, s, model.MustParseDate("2025-01-01"), "a")
	list, _ := s.Backups()
	if len(list) != 0 {
		t.Errorf("expected no backups for a new file, got %d", len(list))
	}
}

func TestBackupsDisabled(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{BackupKeep: -1})
	register(t, s, model.MustParseDate("2025-01-01"), "a")
	s.UpdateAndSave(ctx, "a", model.Good, model.MustParseDate("2025-01-01"))

	if _, err := os.Stat(s.opts.BackupDir); !os.IsNotExist(err) {
		t.Errorf("expected no backup dir, got %v", err)
	}
}

func TestBackupFailureDoesNotBlockUpdate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(filepath.Join(dir, "schedule.json"), Options{BackupDir: filepath.Join(blocker, "backups")})
	if err != nil {
		t.Fatal(err)
	}
	register(t, s, model.MustParseDate("2025-01-01"), "a")

	rec, err := s.UpdateAndSave(ctx, "a", model.Good, model.MustParseDate("2025-01-01"))
	if err != nil {
		t.Fatalf("update should succeed without backups: %v", err)
	}
	if rec.ReviewCount != 1 {
		t.Errorf("expected review applied, got %d", rec.ReviewCount)
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{Clock: time.Now})
	register(t, s, model.MustParseDate("2025-01-01"), "a")
	if _, err := s.UpdateAndSave(ctx, "a", model.Good, model.MustParseDate("2025-01-01")); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, _ := s.Backups()
	if len(list) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(list))
	}
	if _, err := s.Restore(ctx, list[0].Name); err != nil {
		t.Fatalf("restore: %v", err)
	}

	rec, _ := s.Get(ctx, "a")
	if rec.ReviewCount != 0 {
		t.Errorf("expected restored never-reviewed state, got review_count %d", rec.ReviewCount)
	}
	list, _ = s.Backups()
	if len(list) != 2 {
		t.Errorf("expected restore to back up the replaced file, got %d backups", len(list))
	}
}

func TestRestoreRejectsPath(t *testing.T) {
	s := newTestStore(t, Options{})
	if _, err := s.Restore(context.Background(), "../schedule.json"); err == nil {
		t.Error("expected error for path-like backup name")
	}
}

func TestNoOpUpdatesKeepBackupHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{BackupKeep: 3, Clock: time.Now})
	register(t, s, model.MustParseDate("2025-01-01"), "a")
	preReview, _ := os.ReadFile(s.Path())
	if _, err := s.UpdateAndSave(ctx, "a", model.Good, model.MustParseDate("2025-01-01")); err != nil {
		t.Fatalf("update: %v", err)
	}
	postReview, _ := os.ReadFile(s.Path())

	for i := 0; i < 5; i++ {
		n, err := s.Register(ctx, model.MustParseDate("2025-01-02"), NewItem{ItemID: "a"})
		if err != nil || n != 0 {
			t.Fatalf("re-register: n=%d err=%v", n, err)
		}
		removed, err := s.Remove(ctx, "missing")
		if err != nil || len(removed) != 0 {
			t.Fatalf("remove missing: %v %v", removed, err)
		}
	}

	list, err := s.Backups()
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected only the pre-review backup, got %d", len(list))
	}
	got, _ := os.ReadFile(list[0].Path)
	if !bytes.Equal(got, preReview) {
		t.Error("pre-review snapshot lost")
	}
	current, _ := os.ReadFile(s.Path())
	if !bytes.Equal(current, postReview) {
		t.Error("no-op updates rewrote the schedule")
	}
}
