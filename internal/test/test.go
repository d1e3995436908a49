// Package test contains assertion helpers reporting the location of the failed check in the calling test.
package test

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/ava12/playlang"
)

func fatalf(t testing.TB, message string, params ...any) {
	t.Helper()
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

func Assert(t testing.TB, cond bool, message string, params ...any) {
	if !cond {
		fatalf(t, message, params...)
	}
}

func Expect(t testing.TB, cond bool, expected, got any) {
	if !cond {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

func ExpectInt(t testing.TB, expected, got int) {
	Expect(t, expected == got, expected, got)
}

func ExpectString(t testing.TB, expected, got string) {
	if expected != got {
		fatalf(t, "expecting %q, got %q", expected, got)
	}
}

func ExpectNoError(t testing.TB, e error) {
	if e != nil {
		fatalf(t, "unexpected error: %s", e)
	}
}

// ExpectErrorCode fails unless e is or wraps *playlang.Error with given code.
func ExpectErrorCode(t testing.TB, expected int, e error) *playlang.Error {
	var ee *playlang.Error
	if errors.As(e, &ee) && ee.Code == expected {
		return ee
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
	return nil
}

// ExpectErrorPos fails unless e is *playlang.Error with given code at given 1-based line and column.
func ExpectErrorPos(t testing.TB, code, line, col int, e error) {
	ee := ExpectErrorCode(t, code, e)
	if ee.Line != line || ee.Col != col {
		fatalf(t, "expecting error at line %d col %d, got %d, %d (%s)", line, col, ee.Line, ee.Col, ee.Message)
	}
}
