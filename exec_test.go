package peregrine_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peregrinedb/peregrine"
	"github.com/peregrinedb/peregrine/dialect"
	"github.com/peregrinedb/peregrine/logger"
)

func TestBind(t *testing.T) {
	tests := []struct {
		name    string
		dialect dialect.Dialect
		cmd     peregrine.Command
		query   string
		args    []interface{}
	}{
		{
			name:    "postgres sparse insert",
			dialect: dialect.PostgreSQL(),
			cmd:     peregrine.Command{Text: "INSERT INTO Users (Name, Age) VALUES ({1}, {2})", Parameters: []interface{}{nil, "Foo", 10}},
			query:   "INSERT INTO Users (Name, Age) VALUES ($1, $2)",
			args:    []interface{}{"Foo", 10},
		},
		{
			name:    "sqlserver update",
			dialect: dialect.SQLServer(),
			cmd:     peregrine.Command{Text: "UPDATE [Users]\nSET [Name] = {1}, [Age] = {2}\nWHERE [Id] = {0}", Parameters: []interface{}{5, "Foo", 10}},
			query:   "UPDATE [Users]\nSET [Name] = @p1, [Age] = @p2\nWHERE [Id] = @p3",
			args:    []interface{}{"Foo", 10, 5},
		},
		{
			name:    "repeated placeholder",
			dialect: dialect.PostgreSQL(),
			cmd:     peregrine.Command{Text: "WHERE Name = {0} OR Nickname = {0}", Parameters: []interface{}{"Foo"}},
			query:   "WHERE Name = $1 OR Nickname = $1",
			args:    []interface{}{"Foo"},
		},
		{
			name:    "no placeholders",
			dialect: dialect.PostgreSQL(),
			cmd:     peregrine.Command{Text: "DELETE FROM Users"},
			query:   "DELETE FROM Users",
			args:    []interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := newFactory(tt.dialect).Bind(tt.cmd)
			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestExec(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	f := newFactory(dialect.PostgreSQL()).WithContext(context.Background())

	cmd, err := f.Update(User{Id: 5, Name: "Foo", Age: 10})
	require.NoError(t, err)

	mock.ExpectExec("UPDATE Users\nSET Name = $1, Age = $2\nWHERE Id = $3").
		WithArgs("Foo", 10, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := f.Exec(db, cmd)
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	cmd, err = f.DeleteRange(User{}, peregrine.Raw("WHERE Age < {0}", 18))
	require.NoError(t, err)

	mock.ExpectExec("DELETE FROM Users\nWHERE Age < $1").
		WithArgs(18).
		WillReturnError(assert.AnError)

	_, err = f.Exec(db, cmd)
	assert.ErrorIs(t, err, assert.AnError)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	f := newFactory(dialect.PostgreSQL())

	cmd, err := f.GetRange(User{}, struct{ Age int }{30}, "Name")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT Id, Name, Age\nFROM Users\nWHERE Age = $1\nORDER BY Name").
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"Id", "Name", "Age"}).
			AddRow(1, "Foo", 30).
			AddRow(2, "Bar", 30))

	rows, err := f.Query(db, cmd)
	require.NoError(t, err)
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		require.NoError(t, rows.Scan(&user.Id, &user.Name, &user.Age))
		users = append(users, user)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []User{{1, "Foo", 30}, {2, "Bar", 30}}, users)

	cmd, err = f.InsertReturningIdentity(User{Name: "Baz", Age: 40})
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO Users (Name, Age) VALUES ($1, $2)\nRETURNING Id").
		WithArgs("Baz", 40).
		WillReturnRows(sqlmock.NewRows([]string{"Id"}).AddRow(3))

	var id int64
	require.NoError(t, f.QueryRow(db, cmd).Scan(&id))
	assert.Equal(t, int64(3), id)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecTranslateError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	unique := &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "users_pkey"`}

	cmd, err := newFactory(dialect.PostgreSQL()).Insert(User{Name: "Foo", Age: 10})
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO Users (Name, Age) VALUES ($1, $2)").
		WithArgs("Foo", 10).
		WillReturnError(unique)
	_, err = newFactory(dialect.PostgreSQL()).Exec(db, cmd)
	assert.NotErrorIs(t, err, peregrine.ErrDuplicatedKey)

	f := newFactory(dialect.PostgreSQL(), peregrine.WithTranslateError())
	mock.ExpectExec("INSERT INTO Users (Name, Age) VALUES ($1, $2)").
		WithArgs("Foo", 10).
		WillReturnError(unique)
	_, err = f.Exec(db, cmd)
	assert.ErrorIs(t, err, peregrine.ErrDuplicatedKey)
	assert.ErrorIs(t, err, unique)

	mock.ExpectQuery("INSERT INTO Users (Name, Age) VALUES ($1, $2)\nRETURNING Id").
		WithArgs("Foo", 10).
		WillReturnError(&pq.Error{Code: "23502"})
	cmd, err = f.InsertReturningIdentity(User{Name: "Foo", Age: 10})
	require.NoError(t, err)
	_, err = f.Query(db, cmd)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, peregrine.ErrDuplicatedKey)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecTrace(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	out := &capture{}
	f := peregrine.New(dialect.PostgreSQL(), peregrine.WithLogger(logger.New(out, logger.Config{LogLevel: logger.Info})))

	cmd, err := f.DeleteRange(User{}, peregrine.Raw("WHERE Age < {0}", 18))
	require.NoError(t, err)
	assert.Equal(t, "Users", cmd.Table)
	assert.Contains(t, out.String(), "[delete range Users built] [params:1] DELETE FROM Users\nWHERE Age < 18")

	mock.ExpectExec("DELETE FROM Users\nWHERE Age < $1").
		WithArgs(18).
		WillReturnResult(sqlmock.NewResult(0, 4))

	out.lines = nil
	_, err = f.Exec(db, cmd)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[exec Users executed] [params:1] [rows:4]")

	mock.ExpectQuery("SELECT COUNT(*)\nFROM Users").
		WillReturnError(assert.AnError)
	cmd, err = f.Count(User{}, nil)
	require.NoError(t, err)

	out.lines = nil
	_, err = f.Query(db, cmd)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, out.String(), assert.AnError.Error())
	assert.Contains(t, out.String(), "[query Users executed] [params:0] [rows:-]")

	require.NoError(t, mock.ExpectationsWereMet())
}
