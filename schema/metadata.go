package schema

import (
	"database/sql/driver"
	"fmt"
	"go/ast"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/peregrinedb/peregrine/utils"
)

// TagName struct tag key read by ReflectMetadata
const TagName = "db"

// PropertyMetadata describes one mapped property of a struct type
type PropertyMetadata struct {
	Name           string
	Type           reflect.Type // declared type
	UnderlyingType reflect.Type // Type without pointers and sql.Null wrappers
	Nullable       bool
	Writable       bool
	Tag            reflect.StructTag
	TagSettings    map[string]string
	Index          []int // path for reflect.Value.FieldByIndex
}

// MetadataProvider lists the public data properties of a struct type
type MetadataProvider interface {
	Properties(reflect.Type) ([]PropertyMetadata, error)
}

// ReflectMetadata reads properties through reflection and the `db` struct tag
type ReflectMetadata struct {
	// TagName overrides the struct tag key, defaults to "db"
	TagName string
}

// Properties implements MetadataProvider
func (rm ReflectMetadata) Properties(modelType reflect.Type) ([]PropertyMetadata, error) {
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct", ErrUnsupportedModel, modelType)
	}

	tagName := rm.TagName
	if tagName == "" {
		tagName = TagName
	}
	return rm.appendProperties(nil, []reflect.Type{modelType}, nil, false, tagName), nil
}

// appendProperties walks the last type of path, path holds the embedding chain.
// Fields reached through an embedded pointer are nullable.
func (rm ReflectMetadata) appendProperties(props []PropertyMetadata, path []reflect.Type, parent []int, viaPointer bool, tagName string) []PropertyMetadata {
	modelType := path[len(path)-1]
	for i := 0; i < modelType.NumField(); i++ {
		fieldStruct := modelType.Field(i)
		index := make([]int, 0, len(parent)+1)
		index = append(append(index, parent...), i)
		tagSettings := ParseTagSetting(fieldStruct.Tag.Get(tagName), ";")

		if fieldStruct.Anonymous {
			embedded, isPointer := fieldStruct.Type, fieldStruct.Type.Kind() == reflect.Ptr
			if isPointer {
				embedded = embedded.Elem()
			}

			if isEmbeddable(embedded) && !containsType(path, embedded) {
				if _, ignored := tagSettings["-"]; !ignored {
					props = rm.appendProperties(props, append(path[:len(path):len(path)], embedded), index, viaPointer || isPointer, tagName)
				}
				continue
			}
		}

		if !ast.IsExported(fieldStruct.Name) {
			continue
		}

		underlying, nullable := unwrapNullable(fieldStruct.Type)
		nullable = nullable || viaPointer
		_, readOnly := tagSettings["->"]
		props = append(props, PropertyMetadata{
			Name:           fieldStruct.Name,
			Type:           fieldStruct.Type,
			UnderlyingType: underlying,
			Nullable:       nullable,
			Writable:       !readOnly,
			Tag:            fieldStruct.Tag,
			TagSettings:    tagSettings,
			Index:          index,
		})
	}
	return props
}

var valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()

// embedded structs are flattened unless they are scalar values themselves
func isEmbeddable(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	return !t.Implements(valuerType) && !reflect.PointerTo(t).Implements(valuerType)
}

func containsType(types []reflect.Type, t reflect.Type) bool {
	for _, typ := range types {
		if typ == t {
			return true
		}
	}
	return false
}

// unwrapNullable strips pointers and sql.Null style wrappers
func unwrapNullable(t reflect.Type) (reflect.Type, bool) {
	nullable := false
	for t.Kind() == reflect.Ptr {
		nullable = true
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct && t.NumField() == 2 && t.Field(1).Name == "Valid" &&
		t.Field(1).Type.Kind() == reflect.Bool && (t.Implements(valuerType) || reflect.PointerTo(t).Implements(valuerType)) {
		return utils.Indirect(t.Field(0).Type), true
	}

	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		nullable = true
	}
	return t, nullable
}

var timeType = reflect.TypeOf(time.Time{})

// IsNotMapped reports whether the property is excluded from the table
func (p PropertyMetadata) IsNotMapped() bool {
	_, ok := p.TagSettings["-"]
	return ok
}

// IsExplicitKey reports whether the property carries a primary key marker
func (p PropertyMetadata) IsExplicitKey() bool {
	for _, key := range []string{"PRIMARYKEY", "PRIMARY_KEY", "KEY"} {
		if val, ok := p.TagSettings[key]; ok && utils.CheckTruth(val) {
			return true
		}
	}
	return false
}

// Generated returns the generated option, ok is false when the property has no marker
func (p PropertyMetadata) Generated() (option GeneratedOption, ok bool) {
	val, ok := p.TagSettings["GENERATED"]
	if !ok {
		return GeneratedNone, false
	}

	switch strings.ToUpper(strings.TrimSpace(val)) {
	case "IDENTITY":
		return GeneratedIdentity, true
	case "COMPUTED":
		return GeneratedComputed, true
	default:
		return GeneratedNone, true
	}
}

// ColumnOverride returns the `column:` tag value
func (p PropertyMetadata) ColumnOverride() string {
	return strings.TrimSpace(p.TagSettings["COLUMN"])
}

// MaxLength returns the `size:` or `maxLength:` tag value, zero when unset
func (p PropertyMetadata) MaxLength() int {
	for _, key := range []string{"SIZE", "MAXLENGTH"} {
		if val, ok := p.TagSettings[key]; ok {
			if size, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && size > 0 {
				return size
			}
		}
	}
	return 0
}

// ParseTagSetting splits a struct tag value into upper-cased keys and values
func ParseTagSetting(str string, sep string) map[string]string {
	settings := map[string]string{}
	names := strings.Split(str, sep)

	for i := 0; i < len(names); i++ {
		j := i
		if len(names[j]) > 0 {
			for {
				if names[j][len(names[j])-1] == '\\' {
					i++
					names[j] = names[j][0:len(names[j])-1] + sep + names[i]
					names[i] = ""
				} else {
					break
				}
			}
		}

		values := strings.Split(names[j], ":")
		k := strings.TrimSpace(strings.ToUpper(values[0]))

		if len(values) >= 2 {
			settings[k] = strings.Join(values[1:], ":")
		} else if k != "" {
			settings[k] = k
		}
	}

	return settings
}
