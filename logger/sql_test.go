package logger_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/peregrinedb/peregrine/logger"
	"github.com/stretchr/testify/assert"
)

func TestExplainSQL(t *testing.T) {
	type status int
	var (
		tt   = time.Date(2020, 2, 23, 11, 10, 10, 0, time.UTC)
		name = "jinzhu"
		id   = uuid.MustParse("7c3a5fd6-2f4c-4f0b-9a1e-6d4f5c7a8b90")
	)

	results := []struct {
		SQL    string
		Vars   []interface{}
		Result string
	}{
		{
			SQL:    "INSERT INTO Users (Name, Age, Height, Active, Bytes, CreatedAt, DeletedAt) VALUES ({1}, {2}, {3}, {4}, {5}, {6}, {7})",
			Vars:   []interface{}{nil, "jinzhu", 1, 999.99, true, []byte("12345"), tt, nil},
			Result: `INSERT INTO Users (Name, Age, Height, Active, Bytes, CreatedAt, DeletedAt) VALUES ('jinzhu', 1, 999.99, true, '12345', '2020-02-23 11:10:10', NULL)`,
		},
		{
			SQL:    "UPDATE Users\nSET Name = {1}, Status = {2}\nWHERE Id = {0}",
			Vars:   []interface{}{5, "O'Brien", status(2)},
			Result: "UPDATE Users\nSET Name = 'O''Brien', Status = 2\nWHERE Id = 5",
		},
		{
			SQL:    "SELECT Id\nFROM Users\nWHERE Name = {0} AND Nick = {1} AND Token = {2}",
			Vars:   []interface{}{&name, sql.NullString{}, id},
			Result: "SELECT Id\nFROM Users\nWHERE Name = 'jinzhu' AND Nick = NULL AND Token = '7c3a5fd6-2f4c-4f0b-9a1e-6d4f5c7a8b90'",
		},
		{
			SQL:    "DELETE FROM Users\nWHERE Id = {0} OR Id = {3}",
			Vars:   []interface{}{1},
			Result: "DELETE FROM Users\nWHERE Id = 1 OR Id = {3}",
		},
	}

	for idx, r := range results {
		if result := logger.ExplainSQL(r.SQL, "'", r.Vars...); result != r.Result {
			t.Errorf("Explain SQL #%v expects %v, but got %v", idx, r.Result, result)
		}
	}

	assert.Equal(t, "SELECT 1", logger.ExplainSQL("SELECT 1", "'"))
}
