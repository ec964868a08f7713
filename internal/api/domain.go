package api

import "errors"

// Domain errors shared across feature packages. Repositories and services
// wrap these with fmt.Errorf("...: %w", Err...) so handlers can map them to
// HTTP statuses with errors.Is without seeing storage-engine error text.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrBadRequest      = errors.New("invalid request input")
	ErrInternal        = errors.New("internal server error")
)
