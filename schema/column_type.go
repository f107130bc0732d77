package schema

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DbType canonical scalar kind of a column
type DbType int

const (
	Unknown DbType = iota
	Boolean
	Byte
	SByte
	Int16
	Int32
	Int64
	UInt16
	UInt32
	UInt64
	Single
	Double
	Decimal
	String
	DateTime
	DateTimeOffset
	Time
	Guid
	Binary
)

var dbTypeNames = [...]string{
	Unknown:        "Unknown",
	Boolean:        "Boolean",
	Byte:           "Byte",
	SByte:          "SByte",
	Int16:          "Int16",
	Int32:          "Int32",
	Int64:          "Int64",
	UInt16:         "UInt16",
	UInt32:         "UInt32",
	UInt64:         "UInt64",
	Single:         "Single",
	Double:         "Double",
	Decimal:        "Decimal",
	String:         "String",
	DateTime:       "DateTime",
	DateTimeOffset: "DateTimeOffset",
	Time:           "Time",
	Guid:           "Guid",
	Binary:         "Binary",
}

func (t DbType) String() string {
	if t >= 0 && int(t) < len(dbTypeNames) {
		return dbTypeNames[t]
	}
	return fmt.Sprintf("DbType(%d)", int(t))
}

// ColumnType describes a column for DDL generation
type ColumnType struct {
	Type      DbType
	AllowNull bool
	MaxLength int
}

// TypeMapper maps scalar Go types to DbType
type TypeMapper interface {
	DbType(reflect.Type) (DbType, bool)
}

// TypeMap default TypeMapper, extensible with Register
type TypeMap struct {
	types sync.Map
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
)

// NewTypeMap returns a TypeMap with the well known non-primitive types registered
func NewTypeMap() *TypeMap {
	tm := &TypeMap{}
	tm.Register(timeType, DateTime)
	tm.Register(durationType, Time)
	tm.Register(uuidType, Guid)
	tm.Register(decimalType, Decimal)
	return tm
}

// Register maps t to dbType, taking priority over the kind based rules
func (tm *TypeMap) Register(t reflect.Type, dbType DbType) {
	tm.types.Store(t, dbType)
}

// DbType implements TypeMapper. Named types without a registration, such as
// enums declared as `type Status int`, map through their kind.
func (tm *TypeMap) DbType(t reflect.Type) (DbType, bool) {
	if v, ok := tm.types.Load(t); ok {
		return v.(DbType), true
	}

	switch t.Kind() {
	case reflect.Bool:
		return Boolean, true
	case reflect.Int8:
		return SByte, true
	case reflect.Uint8:
		return Byte, true
	case reflect.Int16:
		return Int16, true
	case reflect.Int32:
		return Int32, true
	case reflect.Int, reflect.Int64:
		return Int64, true
	case reflect.Uint16:
		return UInt16, true
	case reflect.Uint32:
		return UInt32, true
	case reflect.Uint, reflect.Uint64:
		return UInt64, true
	case reflect.Float32:
		return Single, true
	case reflect.Float64:
		return Double, true
	case reflect.String:
		return String, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Binary, true
		}
	case reflect.Struct:
		if t.ConvertibleTo(timeType) {
			return DateTime, true
		}
	}
	return Unknown, false
}

// columnType builds the DDL descriptor of a property
func columnType(mapper TypeMapper, p PropertyMetadata) (ColumnType, error) {
	dbType, ok := mapper.DbType(p.UnderlyingType)
	if !ok {
		return ColumnType{}, &UnmappableTypeError{Type: p.UnderlyingType, Property: p.Name}
	}

	return ColumnType{Type: dbType, AllowNull: p.Nullable, MaxLength: p.MaxLength()}, nil
}
