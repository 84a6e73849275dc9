package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriodArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantYear  int
		wantMonth int
		wantErr   string
	}{
		{"valid", []string{"2024", "7"}, 2024, 7, ""},
		{"leading zero month", []string{"2024", "07"}, 2024, 7, ""},
		{"bad year", []string{"next", "7"}, 0, 0, "year must be a number"},
		{"bad month", []string{"2024", "July"}, 0, 0, "month must be a number"},
		{"too few", []string{"2024"}, 0, 0, "expected <year> <month>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, err := parsePeriodArgs(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestHealthColor(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "GREEN"},
		{80, "GREEN"},
		{79, "YELLOW"},
		{60, "YELLOW"},
		{59, "RED"},
		{-15, "RED"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, healthColor(tt.score, "GREEN", "YELLOW", "RED"), "score %d", tt.score)
	}
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+3", signed(3))
	assert.Equal(t, "-2", signed(-2))
	assert.Equal(t, "-", signed(0))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0))
	assert.Equal(t, "", bar(-4))
	assert.Equal(t, "█", bar(1))
	assert.Equal(t, "█████", bar(10))
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 8, columnWidth(8, "abc"))
	assert.Equal(t, 11, columnWidth(4, "abc", "longer name"))
	// Width counts characters, not bytes
	assert.Equal(t, 2, columnWidth(0, "事假"))
}
