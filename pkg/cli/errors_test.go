package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("profiles")
	if err.Error() != `no stored record for limiter "profiles"` {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewCommandError("status", inner)

	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to match with errors.Is")
	}
	if err.Error() != fmt.Sprintf("command status failed: %v", inner) {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
