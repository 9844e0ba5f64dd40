package rtsignal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_ErrorCode(t *testing.T) {
	testCases := []ErrorCode{
		ErrCodeNone,
		ErrCodeInvalidLine,
		ErrCodeUnknownTerminus,
		ErrCodeUnknownDeviation,
		ErrCodeMalformedFrame,
		ErrCodeInvalidConfiguration,
		ErrCodeLogicFault,
		ErrCodeDriverFailure,
	}

	for i, code := range testCases {
		if int(code) != i {
			t.Errorf("Expected error code %d to have value %d", i, int(code))
		}
	}
}

func TestLineError_MatchesSentinels(t *testing.T) {
	testCases := []struct {
		name      string
		err       *LineError
		invalid   bool
		malformed bool
		code      ErrorCode
	}{
		{"route", NewInvalidLineError(99), true, false, ErrCodeInvalidLine},
		{"terminus", NewUnknownTerminusError("Nowhere"), true, false, ErrCodeUnknownTerminus},
		{"deviation", NewUnknownDeviationError("Detour"), true, false, ErrCodeUnknownDeviation},
		{"frame", NewMalformedFrameError("1;A", "expected 3 or 4 fields"), false, true, ErrCodeMalformedFrame},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.invalid, errors.Is(tc.err, ErrInvalidLine))
			assert.Equal(t, tc.malformed, errors.Is(tc.err, ErrMalformedFrame))
			assert.False(t, errors.Is(tc.err, ErrLogicFault))
			assert.Equal(t, tc.code, GetErrorCode(tc.err))
			assert.True(t, IsLineError(tc.err))
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func TestStateError_Creation(t *testing.T) {
	err := NewLogicFaultError(S7Forward, "plan step 3 out of range")

	if err.Code != ErrCodeLogicFault {
		t.Errorf("Expected error code %v, got %v", ErrCodeLogicFault, err.Code)
	}
	if !strings.Contains(err.Error(), "S7_FORWARD") {
		t.Error("Expected error string to contain the state name")
	}
	if !errors.Is(err, ErrLogicFault) {
		t.Error("Expected state error to match ErrLogicFault")
	}
	if !IsStateError(err) || IsLineError(err) {
		t.Error("Expected only IsStateError to match")
	}
}

func TestDriverError_Unwrap(t *testing.T) {
	cause := errors.New("gpio busy")
	err := NewDriverError(OutputAux, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "AUX")
	assert.Equal(t, ErrCodeDriverFailure, GetErrorCode(err))
	assert.True(t, IsDriverError(err))
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("timing", "blink_half_period must be positive")

	assert.Equal(t, "configuration error in timing: blink_half_period must be positive", err.Error())
	assert.Equal(t, ErrCodeInvalidConfiguration, GetErrorCode(err))
	assert.True(t, IsConfigurationError(err))
}

func TestGetErrorCode_Wrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewInvalidLineError(7))
	assert.Equal(t, ErrCodeInvalidLine, GetErrorCode(wrapped))
	assert.Equal(t, ErrCodeNone, GetErrorCode(errors.New("plain")))
	assert.Equal(t, ErrCodeNone, GetErrorCode(nil))
}
