package logger

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	tmFmtWithMS = "2006-01-02 15:04:05.999"
	tmFmtZero   = "0000-00-00 00:00:00"
	nullStr     = "NULL"
)

var placeholderRegexp = regexp.MustCompile(`\{(\d+)\}`)

func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// ExplainSQL replaces {N} placeholders of a command with the literal form of vars[N]
func ExplainSQL(sql string, escaper string, vars ...interface{}) string {
	formatted := make([]string, len(vars))

	var convertParams func(interface{}, int)
	convertParams = func(v interface{}, idx int) {
		switch v := v.(type) {
		case bool:
			formatted[idx] = strconv.FormatBool(v)
		case time.Time:
			if v.IsZero() {
				formatted[idx] = escaper + tmFmtZero + escaper
			} else {
				formatted[idx] = escaper + v.Format(tmFmtWithMS) + escaper
			}
		case *time.Time:
			if v != nil {
				convertParams(*v, idx)
			} else {
				formatted[idx] = nullStr
			}
		case driver.Valuer:
			reflectValue := reflect.ValueOf(v)
			if v != nil && reflectValue.IsValid() && ((reflectValue.Kind() == reflect.Ptr && !reflectValue.IsNil()) || reflectValue.Kind() != reflect.Ptr) {
				r, _ := v.Value()
				convertParams(r, idx)
			} else {
				formatted[idx] = nullStr
			}
		case fmt.Stringer:
			reflectValue := reflect.ValueOf(v)
			if v != nil && reflectValue.IsValid() && ((reflectValue.Kind() == reflect.Ptr && !reflectValue.IsNil()) || reflectValue.Kind() != reflect.Ptr) {
				formatted[idx] = escaper + strings.ReplaceAll(v.String(), escaper, escaper+escaper) + escaper
			} else {
				formatted[idx] = nullStr
			}
		case []byte:
			if s := string(v); isPrintable(s) {
				formatted[idx] = escaper + strings.ReplaceAll(s, escaper, escaper+escaper) + escaper
			} else {
				formatted[idx] = escaper + "<binary>" + escaper
			}
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			formatted[idx] = fmt.Sprintf("%d", v)
		case float32:
			formatted[idx] = strconv.FormatFloat(float64(v), 'f', -1, 32)
		case float64:
			formatted[idx] = strconv.FormatFloat(v, 'f', -1, 64)
		case string:
			formatted[idx] = escaper + strings.ReplaceAll(v, escaper, escaper+escaper) + escaper
		default:
			rv := reflect.ValueOf(v)
			if v == nil || !rv.IsValid() || rv.Kind() == reflect.Ptr && rv.IsNil() {
				formatted[idx] = nullStr
			} else if rv.Kind() == reflect.Ptr && !rv.IsZero() {
				convertParams(reflect.Indirect(rv).Interface(), idx)
			} else if rv.CanInt() {
				formatted[idx] = strconv.FormatInt(rv.Int(), 10)
			} else if rv.CanUint() {
				formatted[idx] = strconv.FormatUint(rv.Uint(), 10)
			} else {
				formatted[idx] = escaper + strings.ReplaceAll(fmt.Sprint(v), escaper, escaper+escaper) + escaper
			}
		}
	}

	for idx, v := range vars {
		convertParams(v, idx)
	}

	return placeholderRegexp.ReplaceAllStringFunc(sql, func(placeholder string) string {
		idx, err := strconv.Atoi(placeholder[1 : len(placeholder)-1])
		if err != nil || idx >= len(formatted) {
			return placeholder
		}
		return formatted[idx]
	})
}
