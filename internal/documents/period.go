package documents

import (
	"fmt"
	"time"
)

// dateOnly is the wire and storage format for reporting periods
const dateOnly = "2006-01-02"

// acceptedPeriodLayouts are tried in order when parsing a period value.
// Layouts carrying an offset keep the caller's zone through time.Parse, so
// formatting the parsed value yields the caller's calendar day rather than
// the server's.
var acceptedPeriodLayouts = []string{
	dateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizePeriod converts a caller-supplied reporting period into a bare
// calendar date string. A date-only input passes through unchanged; a
// timestamp is reduced to the calendar day in its own offset. The result is
// independent of the server's timezone and locale.
func NormalizePeriod(raw string) (string, error) {
	for _, layout := range acceptedPeriodLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return t.Format(dateOnly), nil
	}
	return "", fmt.Errorf("unrecognized period format: %q", raw)
}
