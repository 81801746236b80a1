package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with status code",
			err:      New(ErrorTypeNotFound, "resource not found", 404),
			expected: "not_found error (code 404): resource not found",
		},
		{
			name:     "without status code",
			err:      New(ErrorTypeNetwork, "connection refused", 0),
			expected: "network error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "typed error",
			err:      New(ErrorTypeRateLimit, "slow down", 429),
			expected: ErrorTypeRateLimit,
		},
		{
			name:     "wrapped typed error",
			err:      fmt.Errorf("fetching page: %w", New(ErrorTypeServerError, "bad gateway", 502)),
			expected: ErrorTypeServerError,
		},
		{
			name:     "foreign error",
			err:      fmt.Errorf("plain error"),
			expected: ErrorTypeUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.err))
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrorTypeFilesystem, "mkdir failed", 0)

	assert.True(t, Is(err, ErrorTypeFilesystem))
	assert.False(t, Is(err, ErrorTypeNetwork))
	assert.True(t, Is(fmt.Errorf("saving: %w", err), ErrorTypeFilesystem))
}

func TestStatusCodeType(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   ErrorType
	}{
		{200, ErrorTypeUnknown},
		{301, ErrorTypeUnknown},
		{400, ErrorTypeNetwork},
		{403, ErrorTypeNetwork},
		{404, ErrorTypeNotFound},
		{410, ErrorTypeNotFound},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{502, ErrorTypeServerError},
		{503, ErrorTypeServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCodeType(tt.statusCode))
		})
	}
}
