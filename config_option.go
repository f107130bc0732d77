package peregrine

import (
	"github.com/peregrinedb/peregrine/logger"
	"github.com/peregrinedb/peregrine/schema"
)

// ConfigOption use functional option for peregrine Config.
type ConfigOption func(c *Config)

// WithNamingStrategy set schema namer.
func WithNamingStrategy(namer schema.Namer) ConfigOption {
	return func(c *Config) {
		c.NamingStrategy = namer
	}
}

// WithTableConvention keep the dialect's escaping, derive table names with convention.
func WithTableConvention(convention schema.TableConvention) ConfigOption {
	return func(c *Config) {
		c.NamingStrategy = schema.NamingStrategy{Escaper: c.Dialect.Escaper(), TableConvention: convention}
	}
}

// WithLogger set logger.
func WithLogger(logger logger.Interface) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTypeMapper set type mapper.
func WithTypeMapper(mapper schema.TypeMapper) ConfigOption {
	return func(c *Config) {
		c.TypeMapper = mapper
	}
}

// WithMetadataProvider set metadata provider.
func WithMetadataProvider(provider schema.MetadataProvider) ConfigOption {
	return func(c *Config) {
		c.Metadata = provider
	}
}

// WithTranslateError translate driver errors, e.g. unique violations to ErrDuplicatedKey.
func WithTranslateError() ConfigOption {
	return func(c *Config) {
		c.TranslateError = true
	}
}
