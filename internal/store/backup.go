package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/recall/internal/model"
)

// Backup describes one snapshot in the backup directory.
type Backup struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Created time.Time `json:"created"`
	Size    int64     `json:"size"`
}

// backupSet names snapshots <stem>-<ULID><ext>. ULIDs sort by creation
// time, so lexical order of names is chronological order.
type backupSet struct {
	dir    string
	prefix string
	ext    string
	keep   int
	clock  func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newBackupSet(dir, schedulePath string, keep int, clock func() time.Time) *backupSet {
	base := filepath.Base(schedulePath)
	ext := filepath.Ext(base)
	return &backupSet{
		dir:     dir,
		prefix:  strings.TrimSuffix(base, ext) + "-",
		ext:     ext,
		keep:    keep,
		clock:   clock,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (b *backupSet) newID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(b.clock()), b.entropy).String()
}

// save writes raw as a new snapshot and prunes old ones. It returns "" when
// backups are disabled.
func (b *backupSet) save(raw []byte) (string, error) {
	if b.keep < 0 {
		return "", nil
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := b.prefix + b.newID() + b.ext
	if err := writeFileAtomic(filepath.Join(b.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := b.prune(); err != nil {
		return name, err
	}
	return name, nil
}

// prune keeps the newest b.keep snapshots.
func (b *backupSet) prune() error {
	list, err := b.list()
	if err != nil {
		return err
	}
	var errs []error
	for i := b.keep; i < len(list); i++ {
		if err := os.Remove(list[i].Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// list returns snapshots newest first.
func (b *backupSet) list() ([]Backup, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var out []Backup
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, b.prefix) || !strings.HasSuffix(name, b.ext) {
			continue
		}
		id, err := ulid.ParseStrict(strings.TrimSuffix(strings.TrimPrefix(name, b.prefix), b.ext))
		if err != nil {
			continue
		}
		bk := Backup{Name: name, Path: filepath.Join(b.dir, name), Created: ulid.Time(id.Time())}
		if info, err := e.Info(); err == nil {
			bk.Size = info.Size()
		}
		out = append(out, bk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Backups lists snapshots newest first.
func (s *FileStore) Backups() ([]Backup, error) {
	return s.backups.list()
}

// Restore replaces the live schedule with the named snapshot. The current
// file is itself backed up first, so a restore can be undone.
func (s *FileStore) Restore(ctx context.Context, name string) (*model.Schedule, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: invalid backup name %q", ErrNotFound, name)
	}
	raw, err := os.ReadFile(filepath.Join(s.opts.BackupDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: backup %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	restored, err := decodeSchedule(raw)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", name, err)
	}

	err = s.Update(ctx, func(sched *model.Schedule) error {
		sched.Items = restored.Items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}
