package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidManifest, "malformed line %d", 7)

	if err.Code != ErrCodeInvalidManifest {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidManifest)
	}
	if err.Message != "malformed line 7" {
		t.Errorf("Message = %q, want %q", err.Message, "malformed line 7")
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}

	want := "INVALID_MANIFEST: malformed line 7"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := Wrap(ErrCodeScanFailed, cause, "cannot read %s", "/proj")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}

	want := "SCAN_FAILED: cannot read /proj: permission denied"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInstallFailed, "pip exited nonzero")

	if !Is(err, ErrCodeInstallFailed) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeScanFailed) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInstallFailed) {
		t.Error("Is should not match a non-structured error")
	}

	// Code matching survives wrapping with fmt.Errorf.
	wrapped := fmt.Errorf("check: %w", err)
	if !Is(wrapped, ErrCodeInstallFailed) {
		t.Error("Is should unwrap fmt.Errorf chains")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeRegistryQuery, "pip list failed")); got != ErrCodeRegistryQuery {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeRegistryQuery)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode of plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodePackageNotFound, "no such package: flask")
	if got := UserMessage(err); got != "no such package: flask" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage of plain error = %q", got)
	}
}
