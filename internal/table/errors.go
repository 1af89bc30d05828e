package table

import "errors"

var (
	// ErrKeyNotFound is returned by Get when key is present in neither the
	// staged nor committed map.
	ErrKeyNotFound = errors.New("key not found")

	// ErrTableExists is returned by Registry.Create for a name already
	// present.
	ErrTableExists = errors.New("table already exists")

	// ErrTableNotFound names the failure of looking up a table that is not
	// registered. Registry.Find itself reports a missing table by returning
	// nil, not this error.
	ErrTableNotFound = errors.New("table not found")
)
