package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"date only", "2024-06-05", "2024-06-05", false},
		{"utc midnight", "2024-06-05T00:00:00Z", "2024-06-05", false},
		{"utc end of day", "2024-06-05T23:59:59Z", "2024-06-05", false},
		{"positive offset midnight", "2024-06-05T00:00:00+09:00", "2024-06-05", false},
		{"positive offset end of day", "2024-06-05T23:30:00+13:00", "2024-06-05", false},
		{"negative offset midnight", "2024-06-05T00:00:00-11:00", "2024-06-05", false},
		{"negative offset end of day", "2024-06-05T23:59:59-07:00", "2024-06-05", false},
		{"millisecond timestamp", "2024-06-05T10:30:00.000+05:30", "2024-06-05", false},
		{"datetime-local input", "2024-06-05T14:30", "2024-06-05", false},
		{"offsetless timestamp", "2024-06-05T14:30:00", "2024-06-05", false},
		{"empty", "", "", true},
		{"prose date", "June 5, 2024", "", true},
		{"slashed date", "05/06/2024", "", true},
		{"garbage", "not-a-date", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePeriod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The caller's selected day must survive regardless of the offset it was
// selected in; it must never shift to the adjacent day.
func TestNormalizePeriod_NeverShiftsDay(t *testing.T) {
	offsets := []string{"Z", "+01:00", "+09:00", "+13:00", "-01:00", "-07:00", "-11:00"}
	for _, offset := range offsets {
		t.Run(offset, func(t *testing.T) {
			got, err := NormalizePeriod("2024-06-05T12:00:00" + offset)
			assert.NoError(t, err)
			assert.Equal(t, "2024-06-05", got)
			assert.NotEqual(t, "2024-06-04", got)
			assert.NotEqual(t, "2024-06-06", got)
		})
	}
}
