package repository

import "errors"

// ErrUnknownSource is returned when a sentiment aggregation is requested
// for a source outside the fixed tweet|reddit|news set.
var ErrUnknownSource = errors.New("unknown sentiment source")
