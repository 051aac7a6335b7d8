package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebindDollar(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"WHERE id = ?", "WHERE id = $1"},
		{"VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
		{"WHERE kind = 'what?' AND id = ?", "WHERE kind = 'what?' AND id = $1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rebindDollar(tt.in))
	}
}

func TestFormatTimeSortsAsText(t *testing.T) {
	a := parseTime("2024-01-01T08:00:00.5Z")
	b := parseTime("2024-01-01T08:00:00.25Z")
	assert.True(t, b.Before(a))
	assert.Less(t, formatTime(b), formatTime(a))
}
