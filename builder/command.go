package builder

import (
	"regexp"
	"strconv"
)

// PlaceholderRegexp matches {N} placeholders
var PlaceholderRegexp = regexp.MustCompile(`\{(\d+)\}`)

// Command a built SQL statement, placeholder {N} refers to Parameters[N]
type Command struct {
	Text       string
	Parameters []interface{}
	// Table is the escaped name of the table the command targets, set by the command factory
	Table string
}

func (cmd Command) String() string {
	return cmd.Text
}

// Placeholders returns the parameter indexes referenced by Text, in order of appearance
func (cmd Command) Placeholders() []int {
	matches := PlaceholderRegexp.FindAllStringSubmatch(cmd.Text, -1)
	indexes := make([]int, 0, len(matches))
	for _, match := range matches {
		if idx, err := strconv.Atoi(match[1]); err == nil {
			indexes = append(indexes, idx)
		}
	}
	return indexes
}

// Raw a SQL fragment with its own parameters, {N} refers to Args[N]
type Raw struct {
	SQL  string
	Args []interface{}
}

// IsEmpty reports whether the fragment has no text
func (raw Raw) IsEmpty() bool {
	return raw.SQL == ""
}

// shift renumbers the placeholders of SQL by offset
func (raw Raw) shift(offset int) string {
	if offset == 0 {
		return raw.SQL
	}

	return PlaceholderRegexp.ReplaceAllStringFunc(raw.SQL, func(placeholder string) string {
		idx, err := strconv.Atoi(placeholder[1 : len(placeholder)-1])
		if err != nil {
			return placeholder
		}
		return "{" + strconv.Itoa(idx+offset) + "}"
	})
}
