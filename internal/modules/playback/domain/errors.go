package domain

import "errors"

// ErrMalformedQueue is returned when a decoded queue list is structurally
// invalid: a track references a context that does not exist, or the shuffle
// order is not a permutation of the track indices. Updates failing this check
// are dropped without touching previously accepted state.
var ErrMalformedQueue = errors.New("malformed queue")
