package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rcliao/recall/internal/fsrs"
	"github.com/rcliao/recall/internal/model"
)

// Defaults for Options.
const (
	DefaultLockTimeout   = 30 * time.Second
	DefaultRetryInterval = 100 * time.Millisecond
	DefaultBackupKeep    = 10
)

// Options configures a FileStore. Zero values take defaults.
type Options struct {
	LockTimeout   time.Duration
	RetryInterval time.Duration
	BackupDir     string // default: <dir of path>/backups
	BackupKeep    int    // default 10; negative disables backups
	Scheduler     *fsrs.Scheduler
	Clock         func() time.Time
}

// FileStore implements Store on a single JSON file guarded by an advisory
// lock on a sibling sentinel file.
type FileStore struct {
	path      string
	lockPath  string
	opts      Options
	scheduler *fsrs.Scheduler
	backups   *backupSet
}

var _ Store = (*FileStore)(nil)

// Open returns a FileStore for the schedule at path, creating its directory.
// The file itself is created by the first write.
func Open(path string, opts Options) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("schedule path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	if opts.LockTimeout <= 0 {
		opts.LockTimeout = DefaultLockTimeout
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.BackupKeep == 0 {
		opts.BackupKeep = DefaultBackupKeep
	}
	if opts.BackupDir == "" {
		opts.BackupDir = filepath.Join(dir, "backups")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	sched := opts.Scheduler
	if sched == nil {
		var err error
		sched, err = fsrs.NewScheduler(fsrs.Parameters{})
		if err != nil {
			return nil, err
		}
	}

	return &FileStore{
		path:      path,
		lockPath:  path + ".lock",
		opts:      opts,
		scheduler: sched,
		backups:   newBackupSet(opts.BackupDir, path, opts.BackupKeep, opts.Clock),
	}, nil
}

// Path returns the schedule file path.
func (s *FileStore) Path() string { return s.path }

// Scheduler returns the scheduler used for grading events.
func (s *FileStore) Scheduler() *fsrs.Scheduler { return s.scheduler }

// Load reads and validates the whole schedule. A missing file is an empty
// schedule.
func (s *FileStore) Load(ctx context.Context) (*model.Schedule, error) {
	sched, _, err := s.read()
	return sched, err
}

// read returns the decoded schedule and the raw bytes it came from (nil when
// the file does not exist yet).
func (s *FileStore) read() (*model.Schedule, []byte, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewSchedule(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read schedule: %w", err)
	}
	sched, err := decodeSchedule(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return sched, raw, nil
}

func decodeSchedule(raw []byte) (*model.Schedule, error) {
	sched := model.NewSchedule()
	if len(bytes.TrimSpace(raw)) == 0 {
		return sched, nil
	}
	if err := json.Unmarshal(raw, sched); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if sched.Items == nil {
		sched.Items = map[string]model.Record{}
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return sched, nil
}

func encodeSchedule(sched *model.Schedule) ([]byte, error) {
	b, err := json.MarshalIndent(sched, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	return append(b, '\n'), nil
}

// Update locks, reads, applies fn, backs up the previous file and writes
// the result atomically. When fn leaves the items unchanged an existing file
// is not rewritten and no backup is taken.
func (s *FileStore) Update(ctx context.Context, fn func(*model.Schedule) error) error {
	lock, err := acquireLock(ctx, s.lockPath, s.opts.LockTimeout, s.opts.RetryInterval)
	if err != nil {
		return err
	}
	defer lock.release()

	sched, raw, err := s.read()
	if err != nil {
		return err
	}
	before, err := json.Marshal(sched.Items)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	if err := fn(sched); err != nil {
		return err
	}
	if raw != nil {
		after, err := json.Marshal(sched.Items)
		if err != nil {
			return fmt.Errorf("encode schedule: %w", err)
		}
		// Unchanged items: no write, so no backup rotates out.
		if bytes.Equal(before, after) {
			log.Debug().Str("path", s.path).Msg("schedule unchanged, skipping write")
			return nil
		}
	}
	if err := sched.Validate(); err != nil {
		return fmt.Errorf("refusing to write: %w", err)
	}
	sched.Touch(s.opts.Clock())

	data, err := encodeSchedule(sched)
	if err != nil {
		return err
	}

	if raw != nil {
		if name, err := s.backups.save(raw); err != nil {
			log.Warn().Err(err).Str("path", s.path).Msg("schedule backup failed, continuing")
		} else if name != "" {
			log.Debug().Str("backup", name).Msg("schedule backed up")
		}
	}

	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	log.Debug().Str("path", s.path).Int("items", sched.Metadata.TotalItems).Msg("schedule saved")
	return nil
}

// UpdateAndSave grades itemID with rating on the given day and persists the
// new state.
func (s *FileStore) UpdateAndSave(ctx context.Context, itemID string, rating model.Rating, at model.Date) (*model.Record, error) {
	if err := model.ValidateItemID(itemID); err != nil {
		return nil, err
	}
	if !rating.IsValid() {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidRating, int(rating))
	}

	var updated model.Record
	err := s.Update(ctx, func(sched *model.Schedule) error {
		rec, ok := sched.Items[itemID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, itemID)
		}
		next, err := s.scheduler.Review(rec.MemoryState, rating, at)
		if err != nil {
			return fmt.Errorf("review %s: %w", itemID, err)
		}
		rec.MemoryState = next
		rec.Algorithm = model.AlgorithmFSRS
		sched.Items[itemID] = rec
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// NewItem describes an item being added to the schedule.
type NewItem struct {
	ItemID    string `json:"item_id"`
	DomainTag string `json:"domain_tag"`
	Title     string `json:"title"`
}

// Register adds never-reviewed records due on the given day. Items already
// in the schedule are left untouched. Returns the number added.
func (s *FileStore) Register(ctx context.Context, due model.Date, items ...NewItem) (int, error) {
	for _, it := range items {
		if err := model.ValidateItemID(it.ItemID); err != nil {
			return 0, err
		}
	}
	added := 0
	err := s.Update(ctx, func(sched *model.Schedule) error {
		added = 0
		for _, it := range items {
			if _, ok := sched.Items[it.ItemID]; ok {
				continue
			}
			sched.Items[it.ItemID] = model.Record{
				ItemID:      it.ItemID,
				DomainTag:   it.DomainTag,
				Title:       it.Title,
				MemoryState: model.NewState(due),
				Algorithm:   model.AlgorithmFSRS,
			}
			added++
		}
		return nil
	})
	return added, err
}

// Remove deletes the given records. Missing ids are ignored. Returns the ids
// actually removed.
func (s *FileStore) Remove(ctx context.Context, ids ...string) ([]string, error) {
	var removed []string
	err := s.Update(ctx, func(sched *model.Schedule) error {
		removed = removed[:0]
		for _, id := range ids {
			if _, ok := sched.Items[id]; ok {
				delete(sched.Items, id)
				removed = append(removed, id)
			}
		}
		return nil
	})
	return removed, err
}

// Get returns one record.
func (s *FileStore) Get(ctx context.Context, itemID string) (*model.Record, error) {
	sched, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := sched.Items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}
	return &rec, nil
}

// Close is a no-op; locks are held only inside Update.
func (s *FileStore) Close() error {
	return nil
}
