package event

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	LocalLayout = "2006-01-02 15:04"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseClock validates an H:MM / HH:MM token and returns minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return h*60 + min, nil
}

// LocalTime joins a day and a clock token into "YYYY-MM-DD HH:MM". No
// timezone conversion takes place.
func LocalTime(dateISO, clock string) (string, error) {
	if _, err := time.Parse(DateLayout, dateISO); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateISO, err)
	}
	mins, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %02d:%02d", dateISO, mins/60, mins%60), nil
}

// ParseLocal parses a "YYYY-MM-DD HH:MM" string as a naive wall-clock time.
func ParseLocal(s string) (time.Time, error) {
	return time.Parse(LocalLayout, s)
}
