package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when a keyed row does not exist.
	// A missing row is a normal state, not a storage failure.
	ErrNotFound = errors.New("not found")

	ErrInvalidIndex     = errors.New("top3 index out of range")
	ErrEmptySlot        = errors.New("cannot complete an empty item")
	ErrNegativeMinutes  = errors.New("study minutes must not be negative")
	ErrInvalidRunPlan   = errors.New("invalid run plan")
	ErrInvalidTimeOfDay = errors.New("invalid time of day (expected HH:MM)")
	ErrInvalidDate      = errors.New("invalid date (expected YYYY-MM-DD)")
)

// StorageError reports that the persistence layer rejected a read or write.
// Callers surface it as a transient "save/load failed" condition.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError. nil and ErrNotFound pass through
// untouched so "missing" stays distinguishable from "broken".
func Storage(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageFailure reports whether err (or anything it wraps) is a StorageError.
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// MalformedBackupError is returned when an import payload does not have the
// expected shape. Nothing is written when it is returned.
type MalformedBackupError struct {
	Reason string
	Err    error
}

func (e *MalformedBackupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed backup: %s: %v", e.Reason, e.Err)
	}
	return "malformed backup: " + e.Reason
}

func (e *MalformedBackupError) Unwrap() error { return e.Err }

// MalformedBackup builds a MalformedBackupError from a format string.
func MalformedBackup(format string, args ...interface{}) error {
	return &MalformedBackupError{Reason: fmt.Sprintf(format, args...)}
}

// IsMalformedBackup reports whether err is a MalformedBackupError.
func IsMalformedBackup(err error) bool {
	var me *MalformedBackupError
	return errors.As(err, &me)
}

// InvariantError reports a day record whose completion flags disagree with
// its text fields.
type InvariantError struct {
	Date   string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("day record %s violates invariant: %s", e.Date, e.Detail)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
