package schema

import (
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/lib/pq"
)

// Namer resolves escaped table and column names
type Namer interface {
	TableName(modelType reflect.Type) string
	ColumnName(p PropertyMetadata) string
	Escape(identifier string) string
}

// Escaper escapes identifiers for a SQL dialect
type Escaper interface {
	Escape(identifier string) string
}

// EscaperFunc adapts a function to Escaper
type EscaperFunc func(string) string

// Escape implements Escaper
func (f EscaperFunc) Escape(identifier string) string { return f(identifier) }

var (
	// NoEscaping leaves identifiers untouched
	NoEscaping = EscaperFunc(func(s string) string { return s })
	// SquareBrackets wraps identifiers in brackets, doubling closing brackets
	SquareBrackets = EscaperFunc(func(s string) string {
		return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
	})
	// QuotedIdentifiers wraps identifiers in double quotes
	QuotedIdentifiers = EscaperFunc(pq.QuoteIdentifier)
)

// Tabler overrides the table name of a model
type Tabler interface {
	TableName() string
}

// SchemaTabler qualifies the table name of a model with a schema
type SchemaTabler interface {
	TableSchema() string
}

// TableConvention derives a table name from a type name
type TableConvention func(typeName string) string

// AppendS pluralizes by appending "s"
func AppendS(typeName string) string {
	return typeName + "s"
}

// AsIs uses the type name unchanged
func AsIs(typeName string) string {
	return typeName
}

// Inflect pluralizes with english inflection rules
func Inflect(typeName string) string {
	return inflection.Plural(typeName)
}

// TrimSuffix removes suffix from type names, then appends "s"
func TrimSuffix(suffix string) TableConvention {
	return func(typeName string) string {
		if name := strings.TrimSuffix(typeName, suffix); name != "" {
			typeName = name
		}
		return AppendS(typeName)
	}
}

// NamingStrategy tables, columns naming strategy
type NamingStrategy struct {
	Escaper Escaper
	// TableConvention defaults to AppendS
	TableConvention TableConvention
}

// Escape escapes identifier with the strategy's Escaper
func (ns NamingStrategy) Escape(identifier string) string {
	if ns.Escaper == nil {
		return identifier
	}
	return ns.Escaper.Escape(identifier)
}

// TableName escaped table name of modelType
func (ns NamingStrategy) TableName(modelType reflect.Type) string {
	model := reflect.New(modelType).Interface()
	if tabler, ok := model.(Tabler); ok {
		if schemaTabler, ok := model.(SchemaTabler); ok && schemaTabler.TableSchema() != "" {
			return ns.Escape(schemaTabler.TableSchema()) + "." + ns.Escape(tabler.TableName())
		}
		return ns.Escape(tabler.TableName())
	}

	convention := ns.TableConvention
	if convention == nil {
		convention = AppendS
	}
	return ns.Escape(convention(modelType.Name()))
}

// ColumnName escaped column name of a property
func (ns NamingStrategy) ColumnName(p PropertyMetadata) string {
	if name := p.ColumnOverride(); name != "" {
		return ns.Escape(name)
	}
	return ns.Escape(p.Name)
}
