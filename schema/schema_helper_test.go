package schema_test

import (
	"database/sql"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/peregrinedb/peregrine/schema"
)

type User struct {
	Id   int `db:"generated:identity"`
	Name string
	Age  int
}

type OrderLine struct {
	OrderID  int64 `db:"primaryKey"`
	LineNo   int32 `db:"primaryKey"`
	Id       int
	Quantity int
	Total    decimal.Decimal `db:"generated:computed"`
}

type status int8

type Audit struct {
	CreatedAt time.Time
	CreatedBy string `db:"size:64"`
}

type Note struct {
	*Audit
	Id   int
	Text string
}

type Document struct {
	Audit
	Key      uuid.UUID `db:"key"`
	Title    string    `db:"column:DocTitle;maxLength:200"`
	Status   status
	Body     []byte
	Archived *time.Time
	Revision sql.NullInt64
	Deleted  uuid.NullUUID
	Version  int64 `db:"->"`
	Cache    string `db:"-"`
	secret   string
}

func (Document) TableName() string { return "docs" }

func (Document) TableSchema() string { return "archive" }

type countingMetadata struct {
	calls int64
	inner schema.MetadataProvider
}

func (m *countingMetadata) Properties(t reflect.Type) ([]schema.PropertyMetadata, error) {
	atomic.AddInt64(&m.calls, 1)
	return m.inner.Properties(t)
}

func (m *countingMetadata) Calls() int64 {
	return atomic.LoadInt64(&m.calls)
}

var bracketNaming = schema.NamingStrategy{Escaper: schema.SquareBrackets}

func columnNames(columns []*schema.ColumnSchema) []string {
	names := make([]string, 0, len(columns))
	for _, column := range columns {
		names = append(names, column.ColumnName)
	}
	return names
}

func mustTableSchema(t *testing.T, f *schema.Factory, model interface{}) *schema.TableSchema {
	t.Helper()
	modelType, err := schema.ModelType(model)
	if err != nil {
		t.Fatalf("failed to resolve model type of %T: %v", model, err)
	}

	table, err := f.GetTableSchema(modelType)
	if err != nil {
		t.Fatalf("failed to build schema of %v: %v", modelType, err)
	}
	return table
}
