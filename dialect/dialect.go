package dialect

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/peregrinedb/peregrine/builder"
	"github.com/peregrinedb/peregrine/schema"
	"github.com/peregrinedb/peregrine/utils"
)

// Dialect renders commands for a database vendor
type Dialect interface {
	Name() string
	// Escaper escapes identifiers, used by the default naming strategy
	Escaper() schema.Escaper
	// BindVar returns the vendor bind variable of the i-th (0-based) argument
	BindVar(i int) string
	// ColumnType returns the vendor type of a column, without nullability
	ColumnType(schema.ColumnType) (string, error)

	MakeCount(table *schema.TableSchema, where builder.Raw) builder.Command
	MakeFind(table *schema.TableSchema, key interface{}) (builder.Command, error)
	MakeTop(table *schema.TableSchema, take int, where builder.Raw, orderBy string) (builder.Command, error)
	MakeRange(table *schema.TableSchema, where builder.Raw, orderBy string) builder.Command
	MakePage(table *schema.TableSchema, page Page, where builder.Raw, orderBy string) (builder.Command, error)
	MakeInsert(table *schema.TableSchema, entity reflect.Value) builder.Command
	MakeInsertReturningIdentity(table *schema.TableSchema, entity reflect.Value) (builder.Command, error)
	MakeUpdate(table *schema.TableSchema, entity reflect.Value) (builder.Command, error)
	MakeDeleteByKey(table *schema.TableSchema, key interface{}) (builder.Command, error)
	MakeDeleteRange(table *schema.TableSchema, where builder.Raw) (builder.Command, error)
	MakeDeleteAll(table *schema.TableSchema) builder.Command
	MakeWhereClause(conditions []*schema.ConditionColumnSchema, value reflect.Value) builder.Raw
	MakeCreateTempTable(table *schema.TableSchema) (builder.Command, error)
	MakeDropTempTable(table *schema.TableSchema) (builder.Command, error)
}

var whereRegexp = regexp.MustCompile(`(?i)\bWHERE\b`)

// common renders the statements every vendor shares
type common struct {
	name    string
	escaper schema.Escaper
}

func (d common) Name() string {
	return d.name
}

func (d common) Escaper() schema.Escaper {
	return d.escaper
}

func (d common) MakeCount(table *schema.TableSchema, where builder.Raw) builder.Command {
	return builder.New().
		Append("SELECT COUNT(*)").
		AppendClause("FROM " + table.Name).
		AppendRaw(where).
		Build()
}

func (d common) MakeFind(table *schema.TableSchema, key interface{}) (builder.Command, error) {
	params, err := keyParameters(table, key)
	if err != nil {
		return builder.Command{}, err
	}

	return builder.New().
		Append("SELECT ").
		AppendSelectColumns(table.Columns).
		AppendClause("FROM " + table.Name).
		AppendWherePrimaryKey(table.PrimaryKeyColumns).
		SetParameters(params).
		Build(), nil
}

func (d common) MakeRange(table *schema.TableSchema, where builder.Raw, orderBy string) builder.Command {
	return d.selectFrom("", table, where, orderBy).Build()
}

// selectFrom starts `SELECT [modifier] columns FROM table [where] [ORDER BY orderBy]`
func (d common) selectFrom(modifier string, table *schema.TableSchema, where builder.Raw, orderBy string) *builder.Builder {
	b := builder.New().Append("SELECT ")
	if modifier != "" {
		b.Append(modifier, " ")
	}

	b.AppendSelectColumns(table.Columns).
		AppendClause("FROM " + table.Name).
		AppendRaw(where)

	if !utils.IsBlank(orderBy) {
		b.AppendClause("ORDER BY " + orderBy)
	}
	return b
}

func (d common) MakeInsert(table *schema.TableSchema, entity reflect.Value) builder.Command {
	b := builder.New().Append("INSERT INTO ", table.Name)

	if !hasColumn(table.Columns, builder.Insertable) {
		return b.Append(" DEFAULT VALUES").Build()
	}

	return b.Append(" (").
		AppendColumnNames(table.Columns, builder.Insertable).
		Append(") VALUES (").
		AppendPlaceholders(table.Columns, builder.Insertable).
		Append(")").
		SetParameters(table.Parameters(entity)).
		Build()
}

func (d common) MakeUpdate(table *schema.TableSchema, entity reflect.Value) (builder.Command, error) {
	if len(table.PrimaryKeyColumns) == 0 {
		return builder.Command{}, fmt.Errorf("%w: %v has no primary key to update by", ErrInvalidPrimaryKey, table)
	}
	if !hasColumn(table.Columns, builder.Updatable) {
		return builder.Command{}, fmt.Errorf("%w: %v", ErrEmptyUpdate, table)
	}

	return builder.New().
		Append("UPDATE ", table.Name).
		AppendClause("SET ").
		AppendColumnsEqualPlaceholders(table.Columns, ", ", builder.Updatable).
		AppendWherePrimaryKey(table.PrimaryKeyColumns).
		SetParameters(table.Parameters(entity)).
		Build(), nil
}

func (d common) MakeDeleteByKey(table *schema.TableSchema, key interface{}) (builder.Command, error) {
	params, err := keyParameters(table, key)
	if err != nil {
		return builder.Command{}, err
	}

	return builder.New().
		Append("DELETE FROM ", table.Name).
		AppendWherePrimaryKey(table.PrimaryKeyColumns).
		SetParameters(params).
		Build(), nil
}

func (d common) MakeDeleteRange(table *schema.TableSchema, where builder.Raw) (builder.Command, error) {
	if !whereRegexp.MatchString(where.SQL) {
		return builder.Command{}, fmt.Errorf("%w: %q, use DeleteAll to delete every row of %v", ErrUnsafeDelete, where.SQL, table)
	}

	return builder.New().
		Append("DELETE FROM ", table.Name).
		AppendRaw(where).
		Build(), nil
}

func (d common) MakeDeleteAll(table *schema.TableSchema) builder.Command {
	return builder.New().Append("DELETE FROM ", table.Name).Build()
}

// MakeWhereClause renders `WHERE a = {0} AND b = {1}`, {N} is the N-th condition.
// Null values render `IS NULL` and leave their argument unreferenced.
func (d common) MakeWhereClause(conditions []*schema.ConditionColumnSchema, value reflect.Value) builder.Raw {
	if len(conditions) == 0 {
		return builder.Raw{}
	}

	var sql strings.Builder
	args := make([]interface{}, len(conditions))
	sql.WriteString("WHERE ")
	for idx, condition := range conditions {
		if idx > 0 {
			sql.WriteString(" AND ")
		}

		arg := condition.ValueOf(value)
		sql.WriteString(condition.Column.ColumnName)
		if isNull(arg) {
			sql.WriteString(" IS NULL")
			continue
		}

		args[idx] = arg
		sql.WriteString(" = {")
		sql.WriteString(strconv.Itoa(idx))
		sql.WriteByte('}')
	}

	return builder.Raw{SQL: sql.String(), Args: args}
}

// columnDefinitions renders `col TYPE NULL|NOT NULL` lines of a temporary table
func (d common) columnDefinitions(table *schema.TableSchema, columnType func(schema.ColumnType) (string, error)) (string, error) {
	if len(table.Columns) == 0 {
		return "", fmt.Errorf("%w: %v has no columns", ErrInvalidTempTable, table)
	}

	lines := make([]string, 0, len(table.Columns))
	for _, column := range table.Columns {
		typ, err := columnType(column.ColumnType)
		if err != nil {
			return "", fmt.Errorf("%v.%s: %w", table, column.PropertyName, err)
		}

		nullability := " NOT NULL"
		if column.ColumnType.AllowNull {
			nullability = " NULL"
		}
		lines = append(lines, "    "+column.ColumnName+" "+typ+nullability)
	}

	return "(" + builder.LineBreak + strings.Join(lines, ","+builder.LineBreak) + builder.LineBreak + ")", nil
}

// identityColumn returns the single integer primary key column of table
func identityColumn(table *schema.TableSchema) (*schema.ColumnSchema, error) {
	if len(table.PrimaryKeyColumns) != 1 {
		return nil, fmt.Errorf("%w: %v must have exactly one primary key column to return an identity, got %d",
			ErrInvalidPrimaryKey, table, len(table.PrimaryKeyColumns))
	}

	column := table.PrimaryKeyColumns[0]
	switch column.ColumnType.Type {
	case schema.Int32, schema.Int64:
		return column, nil
	default:
		return nil, fmt.Errorf("%w: %v.%s of type %v cannot be an identity, it must be a 32 or 64 bit integer",
			ErrInvalidPrimaryKey, table, column.PropertyName, column.ColumnType.Type)
	}
}

// keyParameters places the key values at the index of their primary key column.
// key is either the value of a single column key, or a struct or map with a
// field per primary key property.
func keyParameters(table *schema.TableSchema, key interface{}) ([]interface{}, error) {
	primaryKeys := table.PrimaryKeyColumns
	if len(primaryKeys) == 0 {
		return nil, fmt.Errorf("%w: %v has no primary key", ErrInvalidPrimaryKey, table)
	}

	keyValue := reflect.Indirect(reflect.ValueOf(key))
	if !keyValue.IsValid() {
		return nil, fmt.Errorf("%w: nil key for %v", ErrInvalidPrimaryKey, table)
	}

	size := 0
	for _, column := range primaryKeys {
		if column.Index >= size {
			size = column.Index + 1
		}
	}
	params := make([]interface{}, size)

	switch {
	case keyValue.Kind() == reflect.Map && keyValue.Type().Key().Kind() == reflect.String:
		for _, column := range primaryKeys {
			v := keyValue.MapIndex(reflect.ValueOf(column.PropertyName).Convert(keyValue.Type().Key()))
			if !v.IsValid() {
				return nil, fmt.Errorf("%w: key of %v is missing %s", ErrInvalidPrimaryKey, table, column.PropertyName)
			}
			params[column.Index] = v.Interface()
		}
	case keyValue.Kind() == reflect.Struct && hasKeyFields(keyValue.Type(), primaryKeys):
		for _, column := range primaryKeys {
			params[column.Index] = keyValue.FieldByName(column.PropertyName).Interface()
		}
	case len(primaryKeys) == 1:
		params[primaryKeys[0].Index] = keyValue.Interface()
	default:
		return nil, fmt.Errorf("%w: %v has a composite key, %T must have a field per key column", ErrInvalidPrimaryKey, table, key)
	}

	return params, nil
}

func hasKeyFields(t reflect.Type, primaryKeys []*schema.ColumnSchema) bool {
	for _, column := range primaryKeys {
		if _, ok := t.FieldByName(column.PropertyName); !ok {
			return false
		}
	}
	return true
}

func hasColumn(columns []*schema.ColumnSchema, include builder.ColumnFilter) bool {
	for _, column := range columns {
		if include(column) {
			return true
		}
	}
	return false
}

func isNull(v interface{}) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return true
		}
	}

	if valuer, ok := v.(driver.Valuer); ok {
		value, err := valuer.Value()
		return err == nil && value == nil
	}
	return false
}
