package repository

import (
	"context"

	"homestream/internal/domain"
)

// PartyRegistry is the authoritative record of active watch parties.
//
// All methods are safe for concurrent use, and absence is a normal result,
// not an error: lookups return a second boolean instead of ErrNotFound
// because "no such room" is a branch every caller takes deliberately.
type PartyRegistry interface {
	// FindByCode returns the party registered under code, if any.
	FindByCode(code string) (*domain.Party, bool)

	// CreateIfAbsent registers candidate unless a party already holds its
	// code. It is an atomic check-and-set: of two concurrent calls with the
	// same fresh code, exactly one observes created == true. The returned
	// party is the candidate when created, the prior occupant otherwise.
	CreateIfAbsent(candidate *domain.Party) (party *domain.Party, created bool)

	// FindByLeaderConn returns the party whose leader owns the given
	// connection id, if any. Used on disconnect to decide teardown.
	FindByLeaderConn(connID string) (*domain.Party, bool)

	// Delete removes the party registered under code, if present.
	Delete(code string)

	// List returns a snapshot of all active parties, for the lobby.
	List() []domain.Party
}

// SelectionStore keeps each user's pending selection between the HTTP
// create/join request and the websocket arrival that consumes it.
type SelectionStore interface {
	// Put stashes the selection for userID, replacing any previous one.
	Put(ctx context.Context, userID uint, sel *domain.PendingSelection) error
	// Get returns ErrSelectionNotFound when nothing is stashed (or the
	// stash expired).
	Get(ctx context.Context, userID uint) (*domain.PendingSelection, error)
	// Delete discards the stashed selection, if any.
	Delete(ctx context.Context, userID uint) error
}
