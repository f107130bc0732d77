package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/peregrinedb/peregrine/builder"
	"github.com/peregrinedb/peregrine/errtranslator"
	"github.com/peregrinedb/peregrine/schema"
)

type sqlServer struct {
	common
	errtranslator.MssqlErrTranslator
}

// SQLServer escapes identifiers with square brackets and pages with OFFSET/FETCH
func SQLServer() Dialect {
	return &sqlServer{common: common{name: "sqlserver", escaper: schema.SquareBrackets}}
}

func (sqlServer) BindVar(i int) string {
	return "@p" + strconv.Itoa(i+1)
}

func (d sqlServer) MakeTop(table *schema.TableSchema, take int, where builder.Raw, orderBy string) (builder.Command, error) {
	if err := checkTake(table, take); err != nil {
		return builder.Command{}, err
	}
	return d.selectFrom("TOP "+strconv.Itoa(take), table, where, orderBy).Build(), nil
}

func (d sqlServer) MakePage(table *schema.TableSchema, page Page, where builder.Raw, orderBy string) (builder.Command, error) {
	if err := checkPage(table, page, orderBy); err != nil {
		return builder.Command{}, err
	}

	return d.selectFrom("", table, where, orderBy).
		AppendClause(fmt.Sprintf("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", page.FirstItemIndex, page.PageSize)).
		Build(), nil
}

func (d sqlServer) MakeInsertReturningIdentity(table *schema.TableSchema, entity reflect.Value) (builder.Command, error) {
	if _, err := identityColumn(table); err != nil {
		return builder.Command{}, err
	}

	cmd := d.MakeInsert(table, entity)
	cmd.Text += ";" + builder.LineBreak + "SELECT CAST(SCOPE_IDENTITY() AS BIGINT) AS [id]"
	return cmd, nil
}

func (d sqlServer) MakeCreateTempTable(table *schema.TableSchema) (builder.Command, error) {
	if err := checkTempTableName(table); err != nil {
		return builder.Command{}, err
	}

	columns, err := d.columnDefinitions(table, d.ColumnType)
	if err != nil {
		return builder.Command{}, err
	}

	return builder.New().Append("CREATE TABLE ", table.Name).AppendClause(columns).Build(), nil
}

func (d sqlServer) MakeDropTempTable(table *schema.TableSchema) (builder.Command, error) {
	if err := checkTempTableName(table); err != nil {
		return builder.Command{}, err
	}
	return builder.New().Append("DROP TABLE ", table.Name).Build(), nil
}

func checkTempTableName(table *schema.TableSchema) error {
	if !strings.HasPrefix(table.Name, "#") && !strings.HasPrefix(table.Name, "[#") {
		return fmt.Errorf("%w: %s must start with #", ErrInvalidTempTable, table.Name)
	}
	return nil
}

func (d sqlServer) ColumnType(ct schema.ColumnType) (string, error) {
	switch ct.Type {
	case schema.Boolean:
		return "BIT", nil
	case schema.Byte:
		return "TINYINT", nil
	case schema.SByte, schema.Int16:
		return "SMALLINT", nil
	case schema.Int32, schema.UInt16:
		return "INT", nil
	case schema.Int64, schema.UInt32:
		return "BIGINT", nil
	case schema.UInt64:
		return "NUMERIC(20)", nil
	case schema.Single:
		return "REAL", nil
	case schema.Double:
		return "FLOAT", nil
	case schema.Decimal:
		return "NUMERIC(28, 8)", nil
	case schema.String:
		if ct.MaxLength > 0 && ct.MaxLength <= 4000 {
			return fmt.Sprintf("NVARCHAR(%d)", ct.MaxLength), nil
		}
		return "NVARCHAR(MAX)", nil
	case schema.DateTime:
		return "DATETIME2(7)", nil
	case schema.DateTimeOffset:
		return "DATETIMEOFFSET", nil
	case schema.Time:
		return "TIME", nil
	case schema.Guid:
		return "UNIQUEIDENTIFIER", nil
	case schema.Binary:
		if ct.MaxLength > 0 && ct.MaxLength <= 8000 {
			return fmt.Sprintf("VARBINARY(%d)", ct.MaxLength), nil
		}
		return "VARBINARY(MAX)", nil
	}
	return "", fmt.Errorf("%w: %v has no sqlserver type", schema.ErrUnmappableType, ct.Type)
}
