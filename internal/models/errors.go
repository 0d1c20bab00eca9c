package models

import "errors"

var (
	ErrInvalidRunStatus = errors.New("invalid run status")
	ErrNegativeCounter  = errors.New("run counters cannot be negative")
	ErrMissingRunID     = errors.New("cached entry requires a run id")
	ErrMissingTitle     = errors.New("cached entry requires a title")
)
