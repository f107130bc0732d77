package builder

import (
	"strconv"
	"strings"

	"github.com/peregrinedb/peregrine/schema"
)

// LineBreak separates clauses of a command
const LineBreak = "\n"

// ColumnFilter selects the columns a fragment is rendered for
type ColumnFilter func(*schema.ColumnSchema) bool

var (
	// AllColumns includes every column
	AllColumns ColumnFilter = func(*schema.ColumnSchema) bool { return true }
	// Insertable includes columns written by INSERT statements
	Insertable ColumnFilter = func(c *schema.ColumnSchema) bool { return c.Usage.IncludeInInsertStatements }
	// Updatable includes columns written by UPDATE statements
	Updatable ColumnFilter = func(c *schema.ColumnSchema) bool { return c.Usage.IncludeInUpdateStatements }
)

// Builder accumulates the text and parameters of a single command
type Builder struct {
	sql    strings.Builder
	params []interface{}
}

// New returns an empty Builder
func New() *Builder {
	return &Builder{}
}

// Append writes text as is
func (b *Builder) Append(text ...string) *Builder {
	for _, t := range text {
		b.sql.WriteString(t)
	}
	return b
}

// AppendClause writes a line break then text, empty text is skipped
func (b *Builder) AppendClause(text string) *Builder {
	if text == "" {
		return b
	}

	b.sql.WriteString(LineBreak)
	b.sql.WriteString(text)
	return b
}

// AppendRaw appends raw as a clause, its placeholders are shifted after the parameters already added
func (b *Builder) AppendRaw(raw Raw) *Builder {
	if raw.IsEmpty() {
		return b
	}

	offset := len(b.params)
	b.AppendClause(raw.shift(offset))
	b.params = append(b.params, raw.Args...)
	return b
}

// AppendSelectColumns writes `col, col AS alias, ...`
func (b *Builder) AppendSelectColumns(columns []*schema.ColumnSchema) *Builder {
	for idx, column := range columns {
		if idx > 0 {
			b.sql.WriteString(", ")
		}

		b.sql.WriteString(column.ColumnName)
		if column.ColumnName != column.SelectName {
			b.sql.WriteString(" AS ")
			b.sql.WriteString(column.SelectName)
		}
	}
	return b
}

// AppendColumnsEqualPlaceholders writes `col = {index}` for the included columns, joined by separator.
// The placeholder is the column's own index.
func (b *Builder) AppendColumnsEqualPlaceholders(columns []*schema.ColumnSchema, separator string, include ColumnFilter) *Builder {
	first := true
	for _, column := range columns {
		if !include(column) {
			continue
		}

		if !first {
			b.sql.WriteString(separator)
		}
		first = false

		b.sql.WriteString(column.ColumnName)
		b.sql.WriteString(" = ")
		b.AppendPlaceholder(column.Index)
	}
	return b
}

// AppendPlaceholders writes `{index}, {index}, ...` for the included columns
func (b *Builder) AppendPlaceholders(columns []*schema.ColumnSchema, include ColumnFilter) *Builder {
	first := true
	for _, column := range columns {
		if !include(column) {
			continue
		}

		if !first {
			b.sql.WriteString(", ")
		}
		first = false
		b.AppendPlaceholder(column.Index)
	}
	return b
}

// AppendColumnNames writes `col, col, ...` for the included columns
func (b *Builder) AppendColumnNames(columns []*schema.ColumnSchema, include ColumnFilter) *Builder {
	first := true
	for _, column := range columns {
		if !include(column) {
			continue
		}

		if !first {
			b.sql.WriteString(", ")
		}
		first = false
		b.sql.WriteString(column.ColumnName)
	}
	return b
}

// AppendWherePrimaryKey appends the clause `WHERE pk1 = {i1} AND pk2 = {i2}`
func (b *Builder) AppendWherePrimaryKey(primaryKeyColumns []*schema.ColumnSchema) *Builder {
	b.sql.WriteString(LineBreak)
	b.sql.WriteString("WHERE ")
	return b.AppendColumnsEqualPlaceholders(primaryKeyColumns, " AND ", AllColumns)
}

// AppendPlaceholder writes `{index}`
func (b *Builder) AppendPlaceholder(index int) *Builder {
	b.sql.WriteByte('{')
	b.sql.WriteString(strconv.Itoa(index))
	b.sql.WriteByte('}')
	return b
}

// SetParameter stores value at index, growing the parameters with nil gaps
func (b *Builder) SetParameter(index int, value interface{}) *Builder {
	if index >= len(b.params) {
		params := make([]interface{}, index+1)
		copy(params, b.params)
		b.params = params
	}

	b.params[index] = value
	return b
}

// SetParameters replaces the parameters, params[N] is referenced by {N}
func (b *Builder) SetParameters(params []interface{}) *Builder {
	b.params = params
	return b
}

// AddParameters appends values after the current parameters
func (b *Builder) AddParameters(values ...interface{}) *Builder {
	b.params = append(b.params, values...)
	return b
}

// ParameterCount number of parameters added so far
func (b *Builder) ParameterCount() int {
	return len(b.params)
}

// Build returns the command, the builder should not be used afterwards
func (b *Builder) Build() Command {
	params := b.params
	if params == nil {
		params = []interface{}{}
	}
	return Command{Text: b.sql.String(), Parameters: params}
}
