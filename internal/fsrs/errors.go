package fsrs

import "errors"

// ErrInvalidParameters reports an unusable weight vector or scheduler setting.
var ErrInvalidParameters = errors.New("fsrs: parameters out of bounds")
