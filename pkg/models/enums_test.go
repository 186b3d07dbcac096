package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"", ""},
		{"Pending", StatusPending},
		{"pending", StatusPending},
		{"Todo", StatusPending},
		{"In Progress", StatusInProgress},
		{"On Progress", StatusInProgress},
		{"in-progress", StatusInProgress},
		{"Done", StatusDone},
		{"Completed", StatusDone},
		{"  done  ", StatusDone},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		require.NoError(t, err, "ParseStatus(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseStatus(%q)", tt.in)
	}

	_, err := ParseStatus("Cancelled")
	assert.Error(t, err)
}

func TestStatusDone(t *testing.T) {
	assert.True(t, StatusDone.Done())
	assert.False(t, StatusPending.Done())
	assert.False(t, StatusInProgress.Done())
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"", ""},
		{"High", PriorityHigh},
		{"high", PriorityHigh},
		{"Medium", PriorityMedium},
		{"Low", PriorityLow},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		require.NoError(t, err, "ParsePriority(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParsePriority(%q)", tt.in)
	}

	_, err := ParsePriority("Urgent")
	assert.Error(t, err)
}
