package testutil

import (
	"reflect"
	"testing"

	"github.com/dshills/quantagraph/internal/errors"
)

// AssertEqual fails the test when expected and actual differ.
func AssertEqual(t testing.TB, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("not equal:\n  expected: %#v\n  actual:   %#v", expected, actual)
	}
}

// AssertNoError stops the test on a non-nil error.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrorCode stops the test unless err carries code. Wrapped errors
// are unwrapped.
func AssertErrorCode(t testing.TB, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !errors.IsError(err, code) {
		t.Fatalf("expected error code %s, got %s (%v)", code, errors.GetError(err).Code, err)
	}
}

// AssertTrue fails the test with msg when condition does not hold.
func AssertTrue(t testing.TB, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}

// AssertFalse is the negation of AssertTrue.
func AssertFalse(t testing.TB, condition bool, msg string) {
	t.Helper()
	AssertTrue(t, !condition, msg)
}
