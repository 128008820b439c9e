// Package store persists teams and their lineups.
package store

import "errors"

// ErrNotFound is returned when a team or lineup does not exist.
var ErrNotFound = errors.New("not found")
