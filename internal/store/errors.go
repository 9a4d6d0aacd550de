package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("topic not found")
	ErrSourceUnreadable = errors.New("source unreadable")
)

// PersistenceError reports a failed write of the backing file. The in-memory
// document is left untouched when it is returned.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
