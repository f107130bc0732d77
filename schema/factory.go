package schema

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/peregrinedb/peregrine/logger"
)

// Factory builds and caches table and conditions schemas
type Factory struct {
	namer          Namer
	typeMapper     TypeMapper
	metadata       MetadataProvider
	logger         logger.Interface
	tables         sync.Map // reflect.Type -> *TableSchema
	conditionsSets sync.Map // conditionsKey -> []*ConditionColumnSchema
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithTypeMapper replaces the default TypeMap
func WithTypeMapper(mapper TypeMapper) FactoryOption {
	return func(f *Factory) {
		f.typeMapper = mapper
	}
}

// WithMetadataProvider replaces ReflectMetadata
func WithMetadataProvider(provider MetadataProvider) FactoryOption {
	return func(f *Factory) {
		f.metadata = provider
	}
}

// WithLogger logs schema builds
func WithLogger(l logger.Interface) FactoryOption {
	return func(f *Factory) {
		f.logger = l
	}
}

// NewFactory returns a Factory naming tables and columns with namer
func NewFactory(namer Namer, opts ...FactoryOption) *Factory {
	f := &Factory{namer: namer}
	for _, opt := range opts {
		opt(f)
	}

	if f.typeMapper == nil {
		f.typeMapper = NewTypeMap()
	}
	if f.metadata == nil {
		f.metadata = ReflectMetadata{}
	}
	if f.logger == nil {
		f.logger = logger.Discard
	}
	return f
}

// Namer returns the naming strategy of the factory
func (f *Factory) Namer() Namer {
	return f.namer
}

// ModelType resolves the struct type of a model given as a value, pointer, slice or reflect.Type
func ModelType(model interface{}) (reflect.Type, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", ErrUnsupportedModel)
	}

	modelType, ok := model.(reflect.Type)
	if !ok {
		modelType = reflect.TypeOf(model)
	}

	for modelType.Kind() == reflect.Slice || modelType.Kind() == reflect.Array || modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	if modelType.Kind() != reflect.Struct {
		if modelType.PkgPath() == "" {
			return nil, fmt.Errorf("%w: %+v", ErrUnsupportedModel, model)
		}
		return nil, fmt.Errorf("%w: %v.%v", ErrUnsupportedModel, modelType.PkgPath(), modelType.Name())
	}
	return modelType, nil
}

// GetTableSchema returns the cached schema of modelType, building it on first use
func (f *Factory) GetTableSchema(modelType reflect.Type) (*TableSchema, error) {
	return f.GetTableSchemaContext(context.Background(), modelType)
}

// GetTableSchemaContext is GetTableSchema logging the build with ctx
func (f *Factory) GetTableSchemaContext(ctx context.Context, modelType reflect.Type) (*TableSchema, error) {
	if v, ok := f.tables.Load(modelType); ok {
		return v.(*TableSchema), nil
	}

	schema, err := f.buildTableSchema(modelType)
	if err != nil {
		f.logger.Error(ctx, "failed to build schema of %v: %v", modelType, err)
		return nil, err
	}

	// concurrent builds of the same type produce identical schemas, last store wins
	f.tables.Store(modelType, schema)
	f.logger.Info(ctx, "built schema %v for table %s with %d columns", schema, schema.Name, len(schema.Columns))
	return schema, nil
}

func (f *Factory) buildTableSchema(modelType reflect.Type) (*TableSchema, error) {
	props, err := f.metadata.Properties(modelType)
	if err != nil {
		return nil, err
	}

	mapped := props[:0:0]
	for _, p := range props {
		if !p.IsNotMapped() {
			mapped = append(mapped, p)
		}
	}

	explicitKey := HasExplicitKey(mapped)
	schema := &TableSchema{
		ModelType: modelType,
		Name:      f.namer.TableName(modelType),
		Columns:   make([]*ColumnSchema, 0, len(mapped)),
	}

	for idx, p := range mapped {
		ct, err := columnType(f.typeMapper, p)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", modelType, err)
		}

		column := &ColumnSchema{
			Index:         idx,
			PropertyName:  p.Name,
			ColumnName:    f.namer.ColumnName(p),
			SelectName:    f.namer.Escape(p.Name),
			ParameterName: p.Name,
			Usage:         ClassifyColumn(explicitKey, p),
			ColumnType:    ct,
			FieldIndex:    p.Index,
		}

		schema.Columns = append(schema.Columns, column)
		if column.Usage.IsPrimaryKey {
			schema.PrimaryKeyColumns = append(schema.PrimaryKeyColumns, column)
		}
	}

	return schema, nil
}
