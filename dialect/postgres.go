package dialect

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/peregrinedb/peregrine/builder"
	"github.com/peregrinedb/peregrine/errtranslator"
	"github.com/peregrinedb/peregrine/schema"
)

type postgres struct {
	common
	errtranslator.PostgresErrTranslator
}

// PostgreSQL leaves identifiers unescaped and pages with LIMIT/OFFSET
func PostgreSQL() Dialect {
	return &postgres{common: common{name: "postgres", escaper: schema.NoEscaping}}
}

func (postgres) BindVar(i int) string {
	return "$" + strconv.Itoa(i+1)
}

func (d postgres) MakeTop(table *schema.TableSchema, take int, where builder.Raw, orderBy string) (builder.Command, error) {
	if err := checkTake(table, take); err != nil {
		return builder.Command{}, err
	}
	return d.selectFrom("", table, where, orderBy).
		AppendClause("LIMIT " + strconv.Itoa(take)).
		Build(), nil
}

func (d postgres) MakePage(table *schema.TableSchema, page Page, where builder.Raw, orderBy string) (builder.Command, error) {
	if err := checkPage(table, page, orderBy); err != nil {
		return builder.Command{}, err
	}

	return d.selectFrom("", table, where, orderBy).
		AppendClause(fmt.Sprintf("LIMIT %d OFFSET %d", page.PageSize, page.FirstItemIndex)).
		Build(), nil
}

func (d postgres) MakeInsertReturningIdentity(table *schema.TableSchema, entity reflect.Value) (builder.Command, error) {
	column, err := identityColumn(table)
	if err != nil {
		return builder.Command{}, err
	}

	cmd := d.MakeInsert(table, entity)
	cmd.Text += builder.LineBreak + "RETURNING " + column.ColumnName
	return cmd, nil
}

func (d postgres) MakeCreateTempTable(table *schema.TableSchema) (builder.Command, error) {
	columns, err := d.columnDefinitions(table, d.ColumnType)
	if err != nil {
		return builder.Command{}, err
	}

	return builder.New().Append("CREATE TEMP TABLE ", table.Name).AppendClause(columns).Build(), nil
}

func (d postgres) MakeDropTempTable(table *schema.TableSchema) (builder.Command, error) {
	return builder.New().Append("DROP TABLE ", table.Name).Build(), nil
}

func (d postgres) ColumnType(ct schema.ColumnType) (string, error) {
	switch ct.Type {
	case schema.Boolean:
		return "BOOLEAN", nil
	case schema.Byte, schema.SByte, schema.Int16:
		return "SMALLINT", nil
	case schema.Int32, schema.UInt16:
		return "INTEGER", nil
	case schema.Int64, schema.UInt32:
		return "BIGINT", nil
	case schema.UInt64:
		return "NUMERIC(20)", nil
	case schema.Single:
		return "REAL", nil
	case schema.Double:
		return "DOUBLE PRECISION", nil
	case schema.Decimal:
		return "NUMERIC", nil
	case schema.String:
		return "TEXT", nil
	case schema.DateTime:
		return "TIMESTAMP", nil
	case schema.DateTimeOffset:
		return "TIMESTAMP WITH TIME ZONE", nil
	case schema.Time:
		return "INTERVAL", nil
	case schema.Guid:
		return "UUID", nil
	case schema.Binary:
		return "BYTEA", nil
	}
	return "", fmt.Errorf("%w: %v has no postgres type", schema.ErrUnmappableType, ct.Type)
}
