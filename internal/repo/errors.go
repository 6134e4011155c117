package repo

import "errors"

var (
	ErrNotFound      = errors.New("order not found")
	ErrStoreNotFound = errors.New("store not found")
	ErrBadKey        = errors.New("bad order key")
	ErrInconsistent  = errors.New("inconsistent data")

	// ErrStorageUnavailable wraps every infrastructure-level failure so
	// callers can tell "the row is not there" from "the database is down".
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const maxIDLen = 100
