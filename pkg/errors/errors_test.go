package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrStrategyConflict, "conflicting content")

	if err.Code != ErrStrategyConflict {
		t.Errorf("New() code = %v, want %v", err.Code, ErrStrategyConflict)
	}
	if err.Message != "conflicting content" {
		t.Errorf("New() message = %q, want %q", err.Message, "conflicting content")
	}
	if err.Wrapped != nil {
		t.Errorf("New() wrapped = %v, want nil", err.Wrapped)
	}
}

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *FatpackError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(ErrFileRead, "cannot read source"),
			want: "[FILE_READ] cannot read source",
		},
		{
			name: "with wrapped error",
			err:  Wrap(fmt.Errorf("boom"), ErrExtract, "extraction failed"),
			want: "[EXTRACT] extraction failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, ErrInternal, "should vanish"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := Wrapf(nil, ErrInternal, "should vanish %d", 1); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("io failure")
	err := Wrap(inner, ErrFileWrite, "writing merged file")

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
	if errors.Unwrap(err) != inner {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), inner)
	}
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrStrategyConflict, "found %d different contents", 2)

	if !IsErrorCode(err, ErrStrategyConflict) {
		t.Error("IsErrorCode should match the error's own code")
	}
	if IsErrorCode(err, ErrInvariant) {
		t.Error("IsErrorCode should not match a different code")
	}
	if IsErrorCode(errors.New("plain"), ErrStrategyConflict) {
		t.Error("IsErrorCode should not match a plain error")
	}

	// Wrapped FatpackErrors are still matchable through the chain
	outer := Wrap(err, ErrMergeFailed, "merge aborted")
	if !IsErrorCode(outer, ErrMergeFailed) {
		t.Error("IsErrorCode should match the outermost code")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(New(ErrWorkspace, "x")); got != ErrWorkspace {
		t.Errorf("GetErrorCode() = %v, want %v", got, ErrWorkspace)
	}
	if got := GetErrorCode(errors.New("plain")); got != ErrUnknown {
		t.Errorf("GetErrorCode(plain) = %v, want %v", got, ErrUnknown)
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrStrategyConflict, "conflict").
		WithDetail("strategy", "deduplicate").
		WithDetails(map[string]interface{}{"path": "META-INF/foo", "sources": 3})

	details := GetErrorDetails(err)
	if details["strategy"] != "deduplicate" {
		t.Errorf("detail strategy = %v, want deduplicate", details["strategy"])
	}
	if details["sources"] != 3 {
		t.Errorf("detail sources = %v, want 3", details["sources"])
	}
}
