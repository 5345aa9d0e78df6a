// Package calendar holds the clock-time and weekday helpers shared by the
// scheduler, the task manager and the study hub.
package calendar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// InvalidMinutes is returned by TimeToMinutes for strings that are not "HH:MM AM/PM".
const InvalidMinutes = -1

// Date and timestamp layouts used across the persisted files.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "15:04:05 2006-01-02"
)

// Canonical weekday abbreviations.
const (
	Mon = "Mon"
	Tue = "Tue"
	Wed = "Wed"
	Thu = "Thu"
	Fri = "Fri"
	Sat = "Sat"
	Sun = "Sun"
)

// Weekdays lists the canonical abbreviations in week order.
var Weekdays = []string{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

var timePattern = regexp.MustCompile(`^(0[1-9]|1[0-2]):([0-5][0-9]) ((?i:AM|PM))$`)

// "T" is Tuesday and "TH" is Thursday; they are distinct tokens.
var weekdayTokens = map[string]string{
	"M": Mon, "MON": Mon, "MONDAY": Mon,
	"T": Tue, "TUE": Tue, "TUESDAY": Tue,
	"W": Wed, "WED": Wed, "WEDNESDAY": Wed,
	"TH": Thu, "THU": Thu, "THURSDAY": Thu,
	"F": Fri, "FRI": Fri, "FRIDAY": Fri,
	"SAT": Sat, "SATURDAY": Sat,
	"SUN": Sun, "SUNDAY": Sun,
}

var weekdayOrder = map[string]int{Mon: 0, Tue: 1, Wed: 2, Thu: 3, Fri: 4, Sat: 5, Sun: 6}

// InvalidWeekdayError reports the first token ParseWeekdays could not map.
type InvalidWeekdayError struct {
	Token string
}

func (e *InvalidWeekdayError) Error() string {
	return fmt.Sprintf("unrecognized weekday %q", e.Token)
}

// IsValidTime reports whether s is a 12-hour clock time such as "09:30 AM".
func IsValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// TimeToMinutes converts "HH:MM AM/PM" into minutes after midnight.
func TimeToMinutes(s string) int {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return InvalidMinutes
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	switch strings.ToUpper(m[3]) {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}

	return hour*60 + minute
}

// IsWeekday reports whether s is one of the canonical abbreviations.
func IsWeekday(s string) bool {
	_, ok := weekdayOrder[s]
	return ok
}

// ParseWeekdays maps a comma separated list such as "M, W, Friday" onto the
// canonical abbreviations, ordered Mon..Sun with duplicates removed.
// A single unknown token fails the whole parse and no days are returned.
// The empty string yields an empty, valid set.
func ParseWeekdays(input string) ([]string, error) {
	if input == "" {
		return []string{}, nil
	}

	tokens := strings.Split(input, ",")
	// "Mon,Tue," carries no extra day.
	if len(tokens) > 1 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}

	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		day, ok := weekdayTokens[strings.ToUpper(token)]
		if !ok {
			return nil, &InvalidWeekdayError{Token: token}
		}
		seen[day] = true
	}

	return SortWeekdays(keys(seen)), nil
}

// SortWeekdays orders canonical abbreviations Mon..Sun. Unknown values sort last
// in their original relative order.
func SortWeekdays(days []string) []string {
	out := make([]string, len(days))
	copy(out, days)
	rank := func(d string) int {
		if r, ok := weekdayOrder[d]; ok {
			return r
		}
		return len(weekdayOrder)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}

// SharesDay reports whether the two day lists have at least one day in common.
func SharesDay(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// FromTimeWeekday converts a time.Weekday into its canonical abbreviation.
func FromTimeWeekday(d time.Weekday) string {
	if d == time.Sunday {
		return Sun
	}
	return Weekdays[int(d)-1]
}

// ToTimeWeekday is the inverse of FromTimeWeekday.
func ToTimeWeekday(day string) (time.Weekday, bool) {
	r, ok := weekdayOrder[day]
	if !ok {
		return 0, false
	}
	return time.Weekday((r + 1) % 7), true
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Clock is the wall-clock source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Useful for tests and exports.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today returns the current local date as "YYYY-MM-DD".
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}

// TodayWeekday returns the current weekday abbreviation.
func TodayWeekday(c Clock) string {
	return FromTimeWeekday(c.Now().Weekday())
}

// Timestamp returns the display timestamp stored on decks and notes.
func Timestamp(c Clock) string {
	return c.Now().Format(TimestampLayout)
}
