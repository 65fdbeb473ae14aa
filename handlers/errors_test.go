package handlers

import (
	"testing"

	"github.com/pkg/errors"
)

func TestRecoverableError(t *testing.T) {
	var err error
	err = NewRecoverableError("unable to read preferences for %s", "sarahr")

	// Verify that we go the expected error message.
	if err.Error() != "unable to read preferences for sarahr" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	// Verify that a RecoverableError was actually returned.
	_, ok := err.(RecoverableError)
	if !ok {
		t.Errorf("The error doesn't appear to be a RecoverableError")
	}

	// The type must be distinct from an uncrecoverable error.
	_, ok = err.(UnrecoverableError)
	if ok {
		t.Errorf("The error appears to be an UnrecoverableError")
	}

	if !IsRecoverable(err) {
		t.Errorf("IsRecoverable returned false for a RecoverableError")
	}
	if !IsRecoverable(errors.Wrap(err, "wrapped")) {
		t.Errorf("IsRecoverable returned false for a wrapped RecoverableError")
	}
}

func TestUnrecoverableError(t *testing.T) {
	var err error
	err = NewUnrecoverableError("unknown category: %s", "parking")

	// Verify that w get the expected error message.
	if err.Error() != "unknown category: parking" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	// Verify that an UnrecoverableError was actually returned.
	_, ok := err.(UnrecoverableError)
	if !ok {
		t.Errorf("The error doesn't appear to be an UnrecoverableError")
	}

	// The type must be distinct from a RecoverableError
	_, ok = err.(RecoverableError)
	if ok {
		t.Errorf("The error appears to be a RecoverableError")
	}

	if IsRecoverable(err) {
		t.Errorf("IsRecoverable returned true for an UnrecoverableError")
	}
}
