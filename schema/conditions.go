package schema

import (
	"reflect"

	"golang.org/x/text/cases"
)

// ConditionColumnSchema binds a column of the target table to a property of a conditions type
type ConditionColumnSchema struct {
	Column   *ColumnSchema
	Property PropertyMetadata
}

// ValueOf reads the condition's property from a conditions value
func (c *ConditionColumnSchema) ValueOf(conditions reflect.Value) interface{} {
	return fieldValue(conditions, c.Property.Index)
}

type conditionsKey struct {
	conditionsType reflect.Type
	entityType     reflect.Type
}

// GetConditionsSchema matches every property of conditionsType with a column of table.
// The result keeps the declaration order of conditionsType.
func (f *Factory) GetConditionsSchema(entityType reflect.Type, table *TableSchema, conditionsType reflect.Type) ([]*ConditionColumnSchema, error) {
	key := conditionsKey{conditionsType: conditionsType, entityType: entityType}
	if v, ok := f.conditionsSets.Load(key); ok {
		return v.([]*ConditionColumnSchema), nil
	}

	props, err := f.metadata.Properties(conditionsType)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	conditions := make([]*ConditionColumnSchema, 0, len(props))
	for _, p := range props {
		if p.IsNotMapped() {
			continue
		}

		folded := fold.String(p.Name)
		var matches []*ColumnSchema
		for _, column := range table.Columns {
			if fold.String(column.PropertyName) == folded {
				matches = append(matches, column)
			}
		}

		if len(matches) > 1 {
			caseSensitive := matches[:0:0]
			for _, column := range matches {
				if column.PropertyName == p.Name {
					caseSensitive = append(caseSensitive, column)
				}
			}
			matches = caseSensitive
		}

		if len(matches) != 1 {
			return nil, &ConditionsError{
				ConditionsType: conditionsType,
				EntityType:     entityType,
				Property:       p.Name,
				Matches:        len(matches),
			}
		}

		conditions = append(conditions, &ConditionColumnSchema{Column: matches[0], Property: p})
	}

	f.conditionsSets.Store(key, conditions)
	return conditions, nil
}
