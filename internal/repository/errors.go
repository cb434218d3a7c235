package repository

import "errors"

// Shared repository errors. Callers match with errors.Is.
var (
	// ErrNotFound reports that the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry reports a unique-constraint violation.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Per-resource aliases, kept distinct in name so call sites read naturally.
var (
	ErrUserNotFound       = ErrNotFound
	ErrVideoNotFound      = ErrNotFound
	ErrSeriesNotFound     = ErrNotFound
	ErrEpisodeNotFound    = ErrNotFound
	ErrVaultEntryNotFound = ErrNotFound
	ErrSelectionNotFound  = ErrNotFound
)
