package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", d.String())

	_, err = ParseDate("02/01/2025")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.March, 9)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-09"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, d.Equal(decoded.Time))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-15", d.String())

	require.NoError(t, d.Scan([]byte("2024-12-31")))
	assert.Equal(t, "2024-12-31", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDateRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid range", "2025-01-01", "2025-01-31", false},
		{"single day", "2025-01-15", "2025-01-15", false},
		{"inverted range rejected", "2025-02-01", "2025-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := ParseDate(tt.start)
			require.NoError(t, err)
			end, err := ParseDate(tt.end)
			require.NoError(t, err)

			dr := DateRange{Start: start, End: end}
			err = dr.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDateRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("zero endpoints rejected", func(t *testing.T) {
		assert.ErrorIs(t, DateRange{}.Validate(), ErrInvalidDateRange)
	})
}

func TestLastNDays(t *testing.T) {
	now := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)
	dr := LastNDays(now, 30)

	assert.Equal(t, "2025-01-02", dr.Start.String())
	assert.Equal(t, "2025-02-01", dr.End.String())
	assert.NoError(t, dr.Validate())
}
