package peregrine

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/peregrinedb/peregrine/builder"
	"github.com/peregrinedb/peregrine/logger"
)

// Conn executes bound SQL, satisfied by *sql.DB, *sql.Conn and *sql.Tx
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ErrorTranslator is implemented by dialects translating driver errors
type ErrorTranslator interface {
	Translate(err error) error
}

// Bind rewrites the {N} placeholders of cmd to the dialect's bind variables,
// numbered by first appearance. Parameters not referenced by the text are dropped.
func (f *CommandFactory) Bind(cmd Command) (string, []interface{}) {
	ordinals := map[int]int{}
	args := make([]interface{}, 0, len(cmd.Parameters))

	query := builder.PlaceholderRegexp.ReplaceAllStringFunc(cmd.Text, func(placeholder string) string {
		idx, err := strconv.Atoi(placeholder[1 : len(placeholder)-1])
		if err != nil {
			return placeholder
		}

		ordinal, ok := ordinals[idx]
		if !ok {
			ordinal = len(args)
			ordinals[idx] = ordinal

			var arg interface{}
			if idx < len(cmd.Parameters) {
				arg = cmd.Parameters[idx]
			}
			args = append(args, arg)
		}
		return f.Dialect.BindVar(ordinal)
	})

	return query, args
}

// Exec executes cmd on conn
func (f *CommandFactory) Exec(conn Conn, cmd Command) (sql.Result, error) {
	begin := time.Now()
	query, args := f.Bind(cmd)
	result, err := conn.ExecContext(f.ctx, query, args...)
	err = f.translate(err)

	rows := int64(-1)
	if err == nil {
		if affected, rowsErr := result.RowsAffected(); rowsErr == nil {
			rows = affected
		}
	}
	f.trace(begin, logger.Event{Stage: logger.Executed, Operation: "exec", RowsAffected: rows}, cmd, err)
	return result, err
}

// Query executes cmd on conn and returns the rows
func (f *CommandFactory) Query(conn Conn, cmd Command) (*sql.Rows, error) {
	begin := time.Now()
	query, args := f.Bind(cmd)
	rows, err := conn.QueryContext(f.ctx, query, args...)
	err = f.translate(err)
	f.trace(begin, logger.Event{Stage: logger.Executed, Operation: "query", RowsAffected: -1}, cmd, err)
	return rows, err
}

// QueryRow executes cmd on conn and returns at most one row, errors are deferred to Scan and not translated
func (f *CommandFactory) QueryRow(conn Conn, cmd Command) *sql.Row {
	begin := time.Now()
	query, args := f.Bind(cmd)
	row := conn.QueryRowContext(f.ctx, query, args...)
	f.trace(begin, logger.Event{Stage: logger.Executed, Operation: "query row", RowsAffected: -1}, cmd, row.Err())
	return row
}

func (f *CommandFactory) translate(err error) error {
	if err == nil || !f.TranslateError {
		return err
	}
	if translator, ok := f.Dialect.(ErrorTranslator); ok {
		return translator.Translate(err)
	}
	return err
}
