package schema

import (
	"fmt"
	"reflect"
)

// ColumnSchema a mapped column of a table
type ColumnSchema struct {
	// Index position within the table, also the placeholder index of the column
	Index         int
	PropertyName  string
	ColumnName    string // escaped
	SelectName    string // escaped property name, used as alias when it differs from ColumnName
	ParameterName string
	Usage         ColumnUsage
	ColumnType    ColumnType
	FieldIndex    []int
}

// ValueOf reads the column's property from a struct value, nil when an embedded pointer on the path is nil
func (c *ColumnSchema) ValueOf(value reflect.Value) interface{} {
	return fieldValue(value, c.FieldIndex)
}

func fieldValue(value reflect.Value, index []int) interface{} {
	field, err := reflect.Indirect(value).FieldByIndexErr(index)
	if err != nil {
		return nil
	}
	return field.Interface()
}

// TableSchema immutable description of a table, shared between goroutines
type TableSchema struct {
	ModelType         reflect.Type
	Name              string // escaped
	Columns           []*ColumnSchema
	PrimaryKeyColumns []*ColumnSchema
}

func (schema TableSchema) String() string {
	return fmt.Sprintf("%v.%v", schema.ModelType.PkgPath(), schema.ModelType.Name())
}

// LookUpColumn finds a column by property name
func (schema TableSchema) LookUpColumn(propertyName string) *ColumnSchema {
	for _, column := range schema.Columns {
		if column.PropertyName == propertyName {
			return column
		}
	}
	return nil
}

// ParameterCount length of a parameter array able to hold every column index
func (schema TableSchema) ParameterCount() int {
	max := -1
	for _, column := range schema.Columns {
		if column.Index > max {
			max = column.Index
		}
	}
	return max + 1
}

// Parameters reads every column value of entity into an array indexed by column index
func (schema TableSchema) Parameters(entity reflect.Value) []interface{} {
	params := make([]interface{}, schema.ParameterCount())
	for _, column := range schema.Columns {
		params[column.Index] = column.ValueOf(entity)
	}
	return params
}
