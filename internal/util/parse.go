package util

import "strconv"

// ParseInt parses a string to int with a fallback default
func ParseInt(s string, defaultValue int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return defaultValue
}

// ParseYear extracts the leading year from a MusicBrainz date string, which may
// be "2006", "2006-01" or "2006-01-02". Returns 0 when no year is present.
func ParseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
