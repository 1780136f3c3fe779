package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidManifest, "test message: %s", "value")

	if err.Code != ErrCodeInvalidManifest {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidManifest)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_MANIFEST: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeWriteFailed, cause, "failed to write")

	if err.Code != ErrCodeWriteFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeWriteFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidManifest, "test"),
			code:     ErrCodeInvalidManifest,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidManifest, "test"),
			code:     ErrCodeBackupFailed,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      Wrap(ErrCodeBackupFailed, New(ErrCodeFileNotFound, "inner"), "outer"),
			code:     ErrCodeBackupFailed,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeConfig, "x")); got != ErrCodeConfig {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeConfig)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeWriteFailed, "disk full")); got != "disk full" {
		t.Errorf("UserMessage = %q, want %q", got, "disk full")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage = %q, want %q", got, "plain error")
	}
}
