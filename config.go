package peregrine

import (
	"github.com/peregrinedb/peregrine/dialect"
	"github.com/peregrinedb/peregrine/logger"
	"github.com/peregrinedb/peregrine/schema"
)

// Config peregrine config
type Config struct {
	// Dialect renders the commands
	Dialect dialect.Dialect
	// NamingStrategy tables, columns naming strategy, defaults to the dialect's escaping with pluralized type names
	NamingStrategy schema.Namer
	// Logger traces every built command
	Logger logger.Interface
	// TypeMapper maps property types to column types
	TypeMapper schema.TypeMapper
	// Metadata lists the properties of models
	Metadata schema.MetadataProvider
	// TranslateError translates driver errors of Exec and Query when the dialect implements ErrorTranslator
	TranslateError bool
}
