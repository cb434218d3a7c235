package service

import "errors"

// Business errors returned by the services. Handlers map these to HTTP
// status codes; anything else is treated as ErrInternalServer.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username already exists")
	ErrReservedUsername     = errors.New("this username is reserved")
	ErrVideoNotFound        = errors.New("could not find the selected video")
	ErrSeriesNotFound       = errors.New("anime series not found")
	ErrInvalidSelection     = errors.New("invalid video selection")
	ErrInvalidPartyCode     = errors.New("invalid party code")
	ErrNoPendingSelection   = errors.New("no pending party selection")
	ErrDuplicateName        = errors.New("an entry with that name already exists")
	ErrEntryNotFound        = errors.New("entry not found")
	ErrInternalServer       = errors.New("internal server error")
)
