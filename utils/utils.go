package utils

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

var peregrineSourceDir string

func init() {
	_, file, _, _ := runtime.Caller(0)
	// compatible solution to get peregrine source directory with various operating systems
	peregrineSourceDir = sourceDir(file)
}

func sourceDir(file string) string {
	dir := filepath.Dir(file)
	dir = filepath.Dir(dir)

	s := filepath.Dir(dir)
	if filepath.Base(s) != "peregrinedb" {
		s = dir
	}
	return filepath.ToSlash(s) + "/"
}

// CallerFrame retrieves the first relevant stack frame outside of peregrine's internal implementation files.
// It skips:
//   - peregrine's core source files (identified by peregrineSourceDir prefix)
//   - Exclude test files (*_test.go)
func CallerFrame() runtime.Frame {
	pcs := [13]uintptr{}
	// the third caller usually from peregrine internal
	len := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:len])
	for i := 0; i < len; i++ {
		// second return value is "more", not "ok"
		frame, _ := frames.Next()
		if (!strings.HasPrefix(frame.File, peregrineSourceDir) ||
			strings.HasSuffix(frame.File, "_test.go")) && !strings.HasSuffix(frame.File, ".gen.go") {
			return frame
		}
	}

	return runtime.Frame{}
}

// FileWithLineNum return the file name and line number of the current file
func FileWithLineNum() string {
	frame := CallerFrame()
	if frame.PC != 0 {
		return string(strconv.AppendInt(append([]byte(frame.File), ':'), int64(frame.Line), 10))
	}

	return ""
}

// CheckTruth check string true or not
func CheckTruth(vals ...string) bool {
	for _, val := range vals {
		if val != "" && !strings.EqualFold(val, "false") {
			return true
		}
	}
	return false
}

// Indirect unwraps pointers until a non-pointer type is reached
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IsBlank reports whether s is empty or whitespace only
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
