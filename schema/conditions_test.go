package schema_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peregrinedb/peregrine/schema"
)

type Contact struct {
	Id    int
	Email string
	EMAIL string `db:"column:EmailUpper"`
	Phone string
}

func TestGetConditionsSchema(t *testing.T) {
	f := schema.NewFactory(schema.NamingStrategy{})
	userType := reflect.TypeOf(User{})
	users := mustTableSchema(t, f, User{})

	type byNameAndAge struct {
		AGE  int
		name string
		Name string
	}

	conditions, err := f.GetConditionsSchema(userType, users, reflect.TypeOf(byNameAndAge{}))
	require.NoError(t, err)
	require.Len(t, conditions, 2)
	assert.Same(t, users.LookUpColumn("Age"), conditions[0].Column)
	assert.Same(t, users.LookUpColumn("Name"), conditions[1].Column)
	assert.Equal(t, "AGE", conditions[0].Property.Name)

	values := reflect.ValueOf(byNameAndAge{AGE: 30, Name: "Foo"})
	assert.Equal(t, 30, conditions[0].ValueOf(values))
	assert.Equal(t, "Foo", conditions[1].ValueOf(values))

	empty, err := f.GetConditionsSchema(userType, users, reflect.TypeOf(struct{}{}))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetConditionsSchemaEmbeddedPointer(t *testing.T) {
	f := schema.NewFactory(schema.NamingStrategy{})
	noteType := reflect.TypeOf(Note{})
	notes := mustTableSchema(t, f, Note{})

	type byAuthor struct {
		*Audit
	}

	conditions, err := f.GetConditionsSchema(noteType, notes, reflect.TypeOf(byAuthor{}))
	require.NoError(t, err)
	require.Len(t, conditions, 2)
	assert.Same(t, notes.LookUpColumn("CreatedBy"), conditions[1].Column)

	assert.Nil(t, conditions[1].ValueOf(reflect.ValueOf(byAuthor{})))
	assert.Equal(t, "ann", conditions[1].ValueOf(reflect.ValueOf(byAuthor{Audit: &Audit{CreatedBy: "ann"}})))
}

func TestGetConditionsSchemaCaseSensitiveFallback(t *testing.T) {
	f := schema.NewFactory(schema.NamingStrategy{})
	contactType := reflect.TypeOf(Contact{})
	contacts := mustTableSchema(t, f, Contact{})

	type exact struct {
		EMAIL string
		Phone string
	}
	conditions, err := f.GetConditionsSchema(contactType, contacts, reflect.TypeOf(exact{}))
	require.NoError(t, err)
	require.Len(t, conditions, 2)
	assert.Equal(t, "EmailUpper", conditions[0].Column.ColumnName)

	type ambiguous struct {
		EMail string
	}
	_, err = f.GetConditionsSchema(contactType, contacts, reflect.TypeOf(ambiguous{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrInvalidConditions))

	var conditionsErr *schema.ConditionsError
	require.True(t, errors.As(err, &conditionsErr))
	assert.Equal(t, "EMail", conditionsErr.Property)
	assert.Equal(t, 0, conditionsErr.Matches)
}

func TestGetConditionsSchemaErrors(t *testing.T) {
	f := schema.NewFactory(schema.NamingStrategy{})
	userType := reflect.TypeOf(User{})
	users := mustTableSchema(t, f, User{})

	type unknown struct {
		Name     string
		Nickname string
	}
	_, err := f.GetConditionsSchema(userType, users, reflect.TypeOf(unknown{}))
	assert.ErrorIs(t, err, schema.ErrInvalidConditions)
	assert.Contains(t, err.Error(), "Nickname does not match any column")

	type ignored struct {
		Name     string
		Nickname string `db:"-"`
	}
	conditions, err := f.GetConditionsSchema(userType, users, reflect.TypeOf(ignored{}))
	require.NoError(t, err)
	assert.Len(t, conditions, 1)
}

func TestGetConditionsSchemaCache(t *testing.T) {
	metadata := &countingMetadata{inner: schema.ReflectMetadata{}}
	f := schema.NewFactory(schema.NamingStrategy{}, schema.WithMetadataProvider(metadata))
	users := mustTableSchema(t, f, User{})

	type byName struct{ Name string }
	for i := 0; i < 3; i++ {
		_, err := f.GetConditionsSchema(reflect.TypeOf(User{}), users, reflect.TypeOf(byName{}))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), metadata.Calls())
}
