package timeparsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompactDuration(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"+6h", time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)},
		{"-6h", time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC)},
		{"1d", time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)},
		{"-2w", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"+3m", time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)},
		{"-1y", time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
		{"0d", now},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCompactDuration(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseCompactDurationRejects(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"", "6", "h", "+6", "6x", "6 h", "++6h", "6hours", "-1.5d"} {
		_, err := ParseCompactDuration(in, now)
		assert.Error(t, err, in)
		assert.False(t, IsCompactDuration(in), in)
	}
}

func TestCompactDurationMonthOverflow(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month to Mar 3 (2025 is not a leap year).
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	got, err := ParseCompactDuration("+1m", now)
	require.NoError(t, err)
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 3, got.Day())
}
