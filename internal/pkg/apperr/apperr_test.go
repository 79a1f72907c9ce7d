package apperr

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
)

func TestErrorStringAndUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	e := Computation("recalculation failed", inner)
	if e.Error() != "recalculation failed: disk full" {
		t.Fatalf("Error() = %q", e.Error())
	}
	if !errors.Is(e, inner) {
		t.Fatalf("wrapped cause not reachable via errors.Is")
	}

	bare := Validationf("name is required")
	if bare.Error() != "name is required" {
		t.Fatalf("Error() = %q", bare.Error())
	}
	if bare.Unwrap() != nil {
		t.Fatalf("Unwrap() = %v, want nil", bare.Unwrap())
	}
}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel *Error
	}{
		{name: "validation", err: Validationf("bad input"), sentinel: ErrValidation},
		{name: "not_found", err: NotFoundf("habit %s", "x"), sentinel: ErrNotFound},
		{name: "conflict", err: Conflictf("duplicate"), sentinel: ErrConflict},
		{name: "computation", err: Computation("boom", io.EOF), sentinel: ErrComputation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.sentinel) {
				t.Fatalf("errors.Is(%v, sentinel) = false", tc.err)
			}
			for _, other := range []*Error{ErrValidation, ErrNotFound, ErrConflict, ErrComputation} {
				if other == tc.sentinel {
					continue
				}
				if errors.Is(tc.err, other) {
					t.Fatalf("errors.Is(%v, %v) = true, want false", tc.err, other.Kind)
				}
			}
		})
	}
}

func TestSentinelMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading habit: %w", NotFoundf("habit not found"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrapped not_found did not match sentinel")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("KindOf = %v, want not_found", KindOf(err))
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindComputation, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		e := &Error{Kind: tc.kind, Msg: "x"}
		if got := e.HTTPStatusCode(); got != tc.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(io.EOF); got != 0 {
		t.Fatalf("KindOf(io.EOF) = %v, want 0", got)
	}
	if got := KindOf(nil); got != 0 {
		t.Fatalf("KindOf(nil) = %v, want 0", got)
	}
}

func TestKindString(t *testing.T) {
	if KindValidation.String() != "validation" || Kind(0).String() != "unknown" {
		t.Fatalf("unexpected Kind strings: %s %s", KindValidation, Kind(0))
	}
}
