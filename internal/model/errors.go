package model

import "errors"

// Precondition errors. Check with errors.Is.
var (
	ErrInvalidRating = errors.New("invalid rating")
	ErrInvalidState  = errors.New("invalid memory state")
	ErrInvalidItemID = errors.New("invalid item id")
)
