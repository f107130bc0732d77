package dialect

import "errors"

var (
	// ErrInvalidPrimaryKey the table's primary key does not fit the requested command
	ErrInvalidPrimaryKey = errors.New("invalid primary key")
	// ErrUnsafeDelete a range delete without a filter
	ErrUnsafeDelete = errors.New("unsafe delete, conditions must contain a WHERE clause")
	// ErrInvalidPage invalid paging request
	ErrInvalidPage = errors.New("invalid page")
	// ErrInvalidTempTable the table cannot be created as a temporary table
	ErrInvalidTempTable = errors.New("invalid temporary table")
	// ErrEmptyUpdate the table has no updatable column
	ErrEmptyUpdate = errors.New("no updatable columns")
)
