package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnsupportedEnergy, "energy not recognized: %g", 7.0)

	if err.Code != ErrCodeUnsupportedEnergy {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnsupportedEnergy)
	}

	if err.Message != "energy not recognized: 7" {
		t.Errorf("Message = %v, want %v", err.Message, "energy not recognized: 7")
	}

	expected := "UNSUPPORTED_ENERGY: energy not recognized: 7"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrap(ErrCodeLogoNotFound, cause, "logo lookup failed")

	if err.Code != ErrCodeLogoNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLogoNotFound)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

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
			err:      New(ErrCodeStyleNotSet, "test"),
			code:     ErrCodeStyleNotSet,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeStyleNotSet, "test"),
			code:     ErrCodeStatsMissing,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("context: %w", New(ErrCodeNotACanvas, "pad")),
			code:     ErrCodeNotACanvas,
			expected: true,
		},
		{
			name:     "joined second entry",
			err:      Join(New(ErrCodeUnsupportedObject, "a"), New(ErrCodeStatsMissing, "b")),
			code:     ErrCodeStatsMissing,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
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
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidFormat, "test"), ErrCodeInvalidFormat},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestJoinDropsNil(t *testing.T) {
	if err := Join(nil, nil); err != nil {
		t.Errorf("Join(nil, nil) = %v, want nil", err)
	}
}
