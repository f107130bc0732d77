package dialect_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/peregrinedb/peregrine/dialect"
	"github.com/peregrinedb/peregrine/schema"
)

type User struct {
	Id   int `db:"generated:identity"`
	Name string
	Age  int
}

type Membership struct {
	GroupId int32  `db:"primaryKey"`
	UserId  int32  `db:"primaryKey"`
	Role    string `db:"column:role_name"`
}

type Token struct {
	Id    uuid.UUID
	Owner string
}

type TempUser struct {
	Id        int64
	Name      string  `db:"size:50"`
	Nickname  *string `db:"size:9000"`
	Score     float64
	Avatar    []byte `db:"size:256"`
	Joined    time.Time
	Reference uuid.UUID
}

func (TempUser) TableName() string { return "#Users" }

type Counter struct {
	Id    int64 `db:"generated:identity"`
	Total int   `db:"->"`
}

func tableSchema(t *testing.T, d dialect.Dialect, model interface{}) *schema.TableSchema {
	t.Helper()
	f := schema.NewFactory(schema.NamingStrategy{Escaper: d.Escaper()})
	table, err := f.GetTableSchema(reflect.TypeOf(model))
	require.NoError(t, err)
	return table
}

func conditionsFor(t *testing.T, table *schema.TableSchema, conditions interface{}) []*schema.ConditionColumnSchema {
	t.Helper()
	f := schema.NewFactory(schema.NamingStrategy{})
	columns, err := f.GetConditionsSchema(table.ModelType, table, reflect.TypeOf(conditions))
	require.NoError(t, err)
	return columns
}
