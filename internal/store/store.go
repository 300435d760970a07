// Package store provides the schedule storage interface and its file-backed
// implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/recall/internal/fsrs"
	"github.com/rcliao/recall/internal/model"
)

var (
	// ErrNotFound means the item id is not in the schedule.
	ErrNotFound = errors.New("item not found")
	// ErrLocked means another process held the schedule lock until the
	// timeout expired. Callers may retry or queue.
	ErrLocked = errors.New("schedule locked by another process")
	// ErrCorrupt means the schedule file failed to decode or validate.
	ErrCorrupt = errors.New("schedule file corrupt")
)

// ErrorKind groups errors for callers deciding whether to retry.
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindPrecondition
	KindContention
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindContention:
		return "contention"
	default:
		return "io"
	}
}

// Classify maps an error returned by this package to its kind. Anything not
// recognized as a precondition or contention failure is an I/O error.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrLocked):
		return KindContention
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrCorrupt),
		errors.Is(err, model.ErrInvalidRating),
		errors.Is(err, model.ErrInvalidState),
		errors.Is(err, model.ErrInvalidItemID),
		errors.Is(err, fsrs.ErrInvalidParameters):
		return KindPrecondition
	default:
		return KindIO
	}
}

// Store defines the schedule storage interface.
type Store interface {
	// Load reads the whole schedule. It takes no lock; the result is a
	// complete snapshot that may already be stale.
	Load(ctx context.Context) (*model.Schedule, error)

	// Update runs fn on the current schedule under the exclusive lock and
	// atomically replaces the file with the result. When fn returns an
	// error nothing is written.
	Update(ctx context.Context, fn func(*model.Schedule) error) error

	// UpdateAndSave applies one grading event to an existing item.
	UpdateAndSave(ctx context.Context, itemID string, rating model.Rating, at model.Date) (*model.Record, error)

	// Close releases the store.
	Close() error
}
