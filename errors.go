package peregrine

import (
	"github.com/peregrinedb/peregrine/dialect"
	"github.com/peregrinedb/peregrine/errtranslator"
	"github.com/peregrinedb/peregrine/schema"
)

var (
	// ErrInvalidPrimaryKey the primary key of a table does not fit the command, e.g. returning an identity of a composite key
	ErrInvalidPrimaryKey = dialect.ErrInvalidPrimaryKey
	// ErrInvalidConditions conditions are not a string, raw SQL or a struct matching the table's columns
	ErrInvalidConditions = schema.ErrInvalidConditions
	// ErrUnsafeDelete range delete without a WHERE clause
	ErrUnsafeDelete = dialect.ErrUnsafeDelete
	// ErrInvalidPage paging without order by, or with a bad page size
	ErrInvalidPage = dialect.ErrInvalidPage
	// ErrInvalidTempTable temporary table without columns or, for SQL Server, without a # name
	ErrInvalidTempTable = dialect.ErrInvalidTempTable
	// ErrUnmappableType a property type has no column type
	ErrUnmappableType = schema.ErrUnmappableType
	// ErrUnsupportedModel models must be structs
	ErrUnsupportedModel = schema.ErrUnsupportedModel
	// ErrEmptyUpdate update of a table without updatable columns
	ErrEmptyUpdate = dialect.ErrEmptyUpdate
	// ErrDuplicatedKey a unique constraint violation, returned by Exec and Query with TranslateError
	ErrDuplicatedKey = errtranslator.ErrDuplicatedKey
)
