package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeParseFailed, cause, "parse states.cpp")

	if err.Code != ErrCodeParseFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeParseFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
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
			err:      New(ErrCodeUsage, "test"),
			code:     ErrCodeUsage,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeUsage, "test"),
			code:     ErrCodeParseFailed,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeParseFailed, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeParseFailed,
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
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidConfig, "test"),
			expected: ErrCodeInvalidConfig,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
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
		{
			name:     "Error type",
			err:      New(ErrCodeUsage, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "Error with cause",
			err:      Wrap(ErrCodeParseFailed, errors.New("syntax error at 3:1"), "parse a.cpp"),
			expected: "parse a.cpp: syntax error at 3:1",
		},
		{
			name:     "nested Error",
			err:      Wrap(ErrCodeUnclassifiable, Unclassifiable("MakeJump"), "state app::On (a.cpp:12)"),
			expected: `state app::On (a.cpp:12): classify transition: unclassifiable transition factory "MakeJump"`,
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUnclassifiable(t *testing.T) {
	err := Unclassifiable("MakeJump")

	if !Is(err, ErrCodeUnclassifiable) {
		t.Errorf("Is(err, %v) = false, want true", ErrCodeUnclassifiable)
	}

	var ue *UnclassifiableError
	if !errors.As(err, &ue) {
		t.Fatal("errors.As(err, *UnclassifiableError) = false, want true")
	}
	if ue.Name != "MakeJump" {
		t.Errorf("Name = %q, want %q", ue.Name, "MakeJump")
	}
	if ue.Code() != ErrCodeUnclassifiable {
		t.Errorf("Code() = %v, want %v", ue.Code(), ErrCodeUnclassifiable)
	}

	expected := `UNCLASSIFIABLE_TRANSITION: classify transition: unclassifiable transition factory "MakeJump"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestErrorNestedCodeOnce(t *testing.T) {
	err := Wrap(ErrCodeUnclassifiable, Unclassifiable("MakeJump"), "state app::On")

	expected := `UNCLASSIFIABLE_TRANSITION: state app::On: classify transition: unclassifiable transition factory "MakeJump"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeUsage,
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeFileNotFound,
		ErrCodeParseFailed,
		ErrCodeUnclassifiable,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
