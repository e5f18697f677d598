package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "given rfc3339 string should parse",
			input:    `"2025-01-14T10:25:00Z"`,
			expected: time.Date(2025, 1, 14, 10, 25, 0, 0, time.UTC),
		},
		{
			name:     "given rfc3339 string with offset should normalize to utc",
			input:    `"2025-01-14T12:25:00+02:00"`,
			expected: time.Date(2025, 1, 14, 10, 25, 0, 0, time.UTC),
		},
		{
			name:     "given rfc3339 string with nanoseconds should parse",
			input:    `"2025-01-14T10:25:00.123456789Z"`,
			expected: time.Date(2025, 1, 14, 10, 25, 0, 123456789, time.UTC),
		},
		{
			name:     "given epoch milliseconds should parse",
			input:    `1736850300000`,
			expected: time.Date(2025, 1, 14, 10, 25, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := Timestamp{}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, ts.Equal(tt.expected), "got=%s expected=%s", ts, tt.expected)
			assert.Equal(t, time.UTC, ts.Location())
		})
	}
}

func TestTimestampUnmarshalNull(t *testing.T) {
	ts := Timestamp{}
	require.NoError(t, json.Unmarshal([]byte("null"), &ts))
	assert.True(t, ts.IsZero())
}

func TestTimestampUnmarshalInvalid(t *testing.T) {
	ts := Timestamp{}
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`true`), &ts))
}

func TestTimestampRoundTrip(t *testing.T) {
	original := NewTimestamp(time.Date(2025, 1, 14, 10, 25, 0, 123000000, time.UTC))

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	decoded := Timestamp{}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.True(t, decoded.Equal(original.Time))
}
