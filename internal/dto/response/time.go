package response

import "time"

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// formatTime renders t in UTC with millisecond precision, e.g. 2023-03-31T00:00:00.000Z.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
