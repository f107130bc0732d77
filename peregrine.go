package peregrine

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/peregrinedb/peregrine/builder"
	"github.com/peregrinedb/peregrine/dialect"
	"github.com/peregrinedb/peregrine/logger"
	"github.com/peregrinedb/peregrine/schema"
)

// Command a built SQL statement, placeholder {N} refers to Parameters[N]
type Command = builder.Command

// Raw returns raw conditions, {N} placeholders in sql refer to args[N]
func Raw(sql string, args ...interface{}) builder.Raw {
	return builder.Raw{SQL: sql, Args: args}
}

// CommandFactory builds commands of models for a dialect
type CommandFactory struct {
	*Config
	schemas *schema.Factory
	ctx     context.Context
}

// New returns a CommandFactory rendering commands with d
func New(d dialect.Dialect, opts ...ConfigOption) *CommandFactory {
	config := &Config{Dialect: d}
	for _, opt := range opts {
		opt(config)
	}

	if config.NamingStrategy == nil {
		config.NamingStrategy = schema.NamingStrategy{Escaper: d.Escaper()}
	}
	if config.Logger == nil {
		config.Logger = logger.Default
	}

	schemaOpts := []schema.FactoryOption{schema.WithLogger(config.Logger)}
	if config.TypeMapper != nil {
		schemaOpts = append(schemaOpts, schema.WithTypeMapper(config.TypeMapper))
	}
	if config.Metadata != nil {
		schemaOpts = append(schemaOpts, schema.WithMetadataProvider(config.Metadata))
	}

	return &CommandFactory{
		Config:  config,
		schemas: schema.NewFactory(config.NamingStrategy, schemaOpts...),
		ctx:     context.Background(),
	}
}

// WithContext returns a copy of the factory tracing and executing with ctx
func (f *CommandFactory) WithContext(ctx context.Context) *CommandFactory {
	tx := *f
	tx.ctx = ctx
	return &tx
}

// TableSchema returns the cached schema of model, a struct value, pointer, slice or reflect.Type
func (f *CommandFactory) TableSchema(model interface{}) (*schema.TableSchema, error) {
	modelType, err := schema.ModelType(model)
	if err != nil {
		return nil, err
	}
	return f.schemas.GetTableSchemaContext(f.ctx, modelType)
}

// ConditionsSchema matches the properties of conditions with the columns of model
func (f *CommandFactory) ConditionsSchema(model interface{}, conditions interface{}) ([]*schema.ConditionColumnSchema, error) {
	table, err := f.TableSchema(model)
	if err != nil {
		return nil, err
	}

	conditionsType, err := conditionsStructType(conditions)
	if err != nil {
		return nil, err
	}
	return f.schemas.GetConditionsSchema(table.ModelType, table, conditionsType)
}

// Count counts the rows of model matching conditions
func (f *CommandFactory) Count(model interface{}, conditions interface{}) (Command, error) {
	return f.build("count", model, func(table *schema.TableSchema) (Command, error) {
		where, err := f.where(table, conditions)
		if err != nil {
			return Command{}, err
		}
		return f.Dialect.MakeCount(table, where), nil
	})
}

// Find selects the row of model with the primary key key.
// key is the key value itself, or a struct or map holding every key property for composite keys.
func (f *CommandFactory) Find(model interface{}, key interface{}) (Command, error) {
	return f.build("find", model, func(table *schema.TableSchema) (Command, error) {
		return f.Dialect.MakeFind(table, key)
	})
}

// GetTop selects at most take rows of model matching conditions, ordered by orderBy when it is not blank.
// take must be at least 1.
func (f *CommandFactory) GetTop(model interface{}, take int, conditions interface{}, orderBy string) (Command, error) {
	return f.build("get top", model, func(table *schema.TableSchema) (Command, error) {
		where, err := f.where(table, conditions)
		if err != nil {
			return Command{}, err
		}
		return f.Dialect.MakeTop(table, take, where, orderBy)
	})
}

// GetRange selects the rows of model matching conditions
func (f *CommandFactory) GetRange(model interface{}, conditions interface{}, orderBy string) (Command, error) {
	return f.build("get range", model, func(table *schema.TableSchema) (Command, error) {
		where, err := f.where(table, conditions)
		if err != nil {
			return Command{}, err
		}
		return f.Dialect.MakeRange(table, where, orderBy), nil
	})
}

// GetPage selects a page of the rows of model matching conditions, orderBy is required
func (f *CommandFactory) GetPage(model interface{}, pageBuilder dialect.PageBuilder, conditions interface{}, orderBy string) (Command, error) {
	return f.build("get page", model, func(table *schema.TableSchema) (Command, error) {
		page, err := pageBuilder.Page()
		if err != nil {
			return Command{}, err
		}

		where, err := f.where(table, conditions)
		if err != nil {
			return Command{}, err
		}
		return f.Dialect.MakePage(table, page, where, orderBy)
	})
}

// Insert inserts entity, columns generated by the database are skipped.
// Placeholders refer to the column index, {N} is Parameters[N] for the N-th column of the table:
// parameters of skipped columns are present but unreferenced, e.g.
// `INSERT INTO Users (Name, Age) VALUES ({1}, {2})` with [0, "Foo", 10].
// Bind compacts them for database/sql.
func (f *CommandFactory) Insert(entity interface{}) (Command, error) {
	return f.buildEntity("insert", entity, func(table *schema.TableSchema, value reflect.Value) (Command, error) {
		return f.Dialect.MakeInsert(table, value), nil
	})
}

// InsertReturningIdentity inserts entity and selects its generated integer primary key
func (f *CommandFactory) InsertReturningIdentity(entity interface{}) (Command, error) {
	return f.buildEntity("insert returning identity", entity, f.Dialect.MakeInsertReturningIdentity)
}

// Update updates the updatable columns of entity by primary key
func (f *CommandFactory) Update(entity interface{}) (Command, error) {
	return f.buildEntity("update", entity, f.Dialect.MakeUpdate)
}

// Delete deletes entity by primary key
func (f *CommandFactory) Delete(entity interface{}) (Command, error) {
	return f.buildEntity("delete", entity, func(table *schema.TableSchema, value reflect.Value) (Command, error) {
		return f.Dialect.MakeDeleteByKey(table, value.Interface())
	})
}

// DeleteByKey deletes the row of model with the primary key key, see Find
func (f *CommandFactory) DeleteByKey(model interface{}, key interface{}) (Command, error) {
	return f.build("delete by key", model, func(table *schema.TableSchema) (Command, error) {
		return f.Dialect.MakeDeleteByKey(table, key)
	})
}

// DeleteRange deletes the rows of model matching conditions.
// Raw conditions must contain a WHERE clause and structured conditions at least one property.
func (f *CommandFactory) DeleteRange(model interface{}, conditions interface{}) (Command, error) {
	return f.build("delete range", model, func(table *schema.TableSchema) (Command, error) {
		where, err := f.where(table, conditions)
		if err != nil {
			return Command{}, err
		}
		return f.Dialect.MakeDeleteRange(table, where)
	})
}

// DeleteAll deletes every row of model
func (f *CommandFactory) DeleteAll(model interface{}) (Command, error) {
	return f.build("delete all", model, func(table *schema.TableSchema) (Command, error) {
		return f.Dialect.MakeDeleteAll(table), nil
	})
}

// CreateTempTable creates a temporary table with the columns of model
func (f *CommandFactory) CreateTempTable(model interface{}) (Command, error) {
	return f.build("create temp table", model, f.Dialect.MakeCreateTempTable)
}

// DropTempTable drops the temporary table of model
func (f *CommandFactory) DropTempTable(model interface{}) (Command, error) {
	return f.build("drop temp table", model, f.Dialect.MakeDropTempTable)
}

// where resolves conditions: nil, a SQL string, Raw, or a struct whose properties name columns
func (f *CommandFactory) where(table *schema.TableSchema, conditions interface{}) (builder.Raw, error) {
	switch c := conditions.(type) {
	case nil:
		return builder.Raw{}, nil
	case string:
		return builder.Raw{SQL: c}, nil
	case builder.Raw:
		return c, nil
	case *builder.Raw:
		if c == nil {
			return builder.Raw{}, nil
		}
		return *c, nil
	}

	conditionsType, err := conditionsStructType(conditions)
	if err != nil {
		return builder.Raw{}, err
	}

	columns, err := f.schemas.GetConditionsSchema(table.ModelType, table, conditionsType)
	if err != nil {
		return builder.Raw{}, err
	}
	return f.Dialect.MakeWhereClause(columns, reflect.Indirect(reflect.ValueOf(conditions))), nil
}

func conditionsStructType(conditions interface{}) (reflect.Type, error) {
	value := reflect.Indirect(reflect.ValueOf(conditions))
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T must be a string, Raw or a struct", ErrInvalidConditions, conditions)
	}
	return value.Type(), nil
}

func (f *CommandFactory) build(operation string, model interface{}, fc func(*schema.TableSchema) (Command, error)) (Command, error) {
	begin := time.Now()
	table, err := f.TableSchema(model)

	event := logger.Event{Stage: logger.Built, Operation: operation, Model: fmt.Sprintf("%T", model), RowsAffected: -1}
	var cmd Command
	if err == nil {
		event.Table = table.Name
		if cmd, err = fc(table); err == nil {
			cmd.Table = table.Name
		}
	}

	f.trace(begin, event, cmd, err)
	return cmd, err
}

func (f *CommandFactory) buildEntity(operation string, entity interface{}, fc func(*schema.TableSchema, reflect.Value) (Command, error)) (Command, error) {
	return f.build(operation, entity, func(table *schema.TableSchema) (Command, error) {
		value := reflect.Indirect(reflect.ValueOf(entity))
		if value.Kind() != reflect.Struct {
			return Command{}, fmt.Errorf("%w: %s requires a struct, got %T", ErrUnsupportedModel, operation, entity)
		}
		return fc(table, value)
	})
}

// trace completes event with the command text and parameter count
func (f *CommandFactory) trace(begin time.Time, event logger.Event, cmd Command, err error) {
	f.Logger.Trace(f.ctx, begin, func() logger.Event {
		if event.Table == "" {
			event.Table = cmd.Table
		}
		event.Params = -1
		if cmd.Text != "" {
			event.SQL = f.explain(cmd)
			event.Params = int64(len(cmd.Parameters))
		}
		return event
	}, err)
}

// explain inlines the parameters unless the logger filters them out
func (f *CommandFactory) explain(cmd Command) string {
	text, params := cmd.Text, cmd.Parameters
	if filter, ok := f.Logger.(logger.ParamsFilter); ok {
		text, params = filter.ParamsFilter(f.ctx, text, params...)
	}
	return logger.ExplainSQL(text, "'", params...)
}
