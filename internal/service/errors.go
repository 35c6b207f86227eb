package service

import "errors"

// ErrTickerNotFound means neither the local store nor the upstream
// autocomplete knows the queried symbol. It is the only ingestion failure
// surfaced to callers; adapter errors are absorbed per stage.
var ErrTickerNotFound = errors.New("ticker not found")
