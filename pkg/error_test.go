package pkg

import (
	"errors"
	"testing"
)

func TestErrorWrapKeepsSentinel(t *testing.T) {
	err := ErrDump.Wrapf("exit status %d", 1)

	if !errors.Is(err, ErrDump) {
		t.Errorf("errors.Is(%v, ErrDump) = false, want true", err)
	}

	want := "stack dump failed: exit status 1"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Wrapping must not mutate the sentinel's backing array.
	if len(ErrDump) != 1 {
		t.Errorf("len(ErrDump) = %d after Wrap, want 1", len(ErrDump))
	}
}

func TestErrorIsDistinguishesSentinels(t *testing.T) {
	err := ErrProcessEnded.Wrapf("pid %d", 42)

	if errors.Is(err, ErrDump) {
		t.Error("process-ended chain matched ErrDump")
	}

	if !errors.Is(err, ErrProcessEnded) {
		t.Error("process-ended chain did not match ErrProcessEnded")
	}
}

func TestMakeErrorSkipsNil(t *testing.T) {
	e := MakeError(nil, errors.New("a"), nil)
	if len(e) != 1 {
		t.Fatalf("len = %d, want 1", len(e))
	}

	if MakeError() != nil {
		t.Error("MakeError() should be nil")
	}
}

func TestUnwrapErrorsFlattens(t *testing.T) {
	inner := errors.New("inner")
	outer := MakeError(inner).Wrapf("outer")

	chain := UnwrapErrors(outer)
	if len(chain) < 2 {
		t.Fatalf("chain too short: %v", chain)
	}

	if chain[0] != inner {
		t.Errorf("chain[0] = %v, want %v", chain[0], inner)
	}
}
