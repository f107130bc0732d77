package errtranslator

import "encoding/json"

// unique constraint and unique index violations
var mssqlErrCodes = map[string]int{
	"uniqueConstraint": 2627,
	"uniqueIndex":      2601,
}

type MssqlErrTranslator struct{}

type MssqlErr struct {
	Number  int    `json:"Number"`
	Message string `json:"Message"`
}

func (m *MssqlErrTranslator) Translate(err error) error {
	if err == nil {
		return nil
	}

	parsedErr, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		return err
	}

	var mssqlErr MssqlErr
	if unmarshalErr := json.Unmarshal(parsedErr, &mssqlErr); unmarshalErr != nil {
		return err
	}

	if mssqlErr.Number == mssqlErrCodes["uniqueConstraint"] || mssqlErr.Number == mssqlErrCodes["uniqueIndex"] {
		return &DuplicatedKeyError{Code: mssqlErr.Number, Message: mssqlErr.Message, Err: err}
	}
	return err
}
