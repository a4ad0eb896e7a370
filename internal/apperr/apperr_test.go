package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(New(Forbidden, "nope")); got != Forbidden {
		t.Fatalf("got %v", got)
	}
	// wrapped kinded errors keep their kind
	wrapped := fmt.Errorf("outer: %w", New(NotFound, "missing"))
	if got := KindOf(wrapped); got != NotFound {
		t.Fatalf("got %v", got)
	}
	// unclassified errors are Internal
	if got := KindOf(errors.New("boom")); got != Internal {
		t.Fatalf("got %v", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap("query failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if KindOf(err) != Internal {
		t.Fatal("wrap should be Internal")
	}
}
