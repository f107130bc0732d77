package errtranslator

import (
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

var postgresErrCodes = map[string]pq.ErrorCode{
	"uniqueConstraint": "23505",
}

type PostgresErrTranslator struct{}

type PostgresErr struct {
	Code     string `json:"Code"`
	Severity string `json:"Severity"`
	Message  string `json:"Message"`
}

// Translate recognizes *pq.Error, and errors of other drivers exposing the same fields
func (p *PostgresErrTranslator) Translate(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == postgresErrCodes["uniqueConstraint"] {
			return &DuplicatedKeyError{Code: string(pqErr.Code), Message: pqErr.Message, Err: err}
		}
		return err
	}

	parsedErr, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		return err
	}

	var postgresErr PostgresErr
	if unmarshalErr := json.Unmarshal(parsedErr, &postgresErr); unmarshalErr != nil {
		return err
	}

	if postgresErr.Code == string(postgresErrCodes["uniqueConstraint"]) {
		return &DuplicatedKeyError{Code: postgresErr.Code, Message: postgresErr.Message, Err: err}
	}
	return err
}
