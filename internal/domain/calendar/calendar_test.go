package calendar

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestIsValidTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"09:30 AM", true},
		{"12:00 pm", true},
		{"01:05 Pm", true},
		{"9:30 AM", false},
		{"13:00 PM", false},
		{"00:30 AM", false},
		{"09:60 AM", false},
		{"09:30AM", false},
		{"09:30  AM", false},
		{"21:30", false},
		{"09:30:00 AM", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidTime(tt.in); got != tt.want {
			t.Errorf("IsValidTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12:00 AM", 0},
		{"12:59 AM", 59},
		{"01:00 AM", 60},
		{"11:59 AM", 719},
		{"12:00 PM", 720},
		{"12:30 pm", 750},
		{"01:00 PM", 780},
		{"11:59 PM", 1439},
		{"bogus", InvalidMinutes},
		{"13:00 AM", InvalidMinutes},
	}

	for _, tt := range tests {
		if got := TimeToMinutes(tt.in); got != tt.want {
			t.Errorf("TimeToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTimeToMinutesMonotonic(t *testing.T) {
	prev := InvalidMinutes
	for _, ampm := range []string{"AM", "PM"} {
		for _, h := range []string{"12", "01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11"} {
			for _, m := range []string{"00", "15", "30", "45", "59"} {
				s := h + ":" + m + " " + ampm
				got := TimeToMinutes(s)
				if got <= prev {
					t.Fatalf("TimeToMinutes(%q) = %d, not greater than previous %d", s, got, prev)
				}
				prev = got
			}
		}
	}
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"abbreviations", "Mon,Tue", []string{Mon, Tue}},
		{"duplicates collapse", "Mon,Tue,Mon", []string{Mon, Tue}},
		{"single letters", "M,T,W,TH,F", []string{Mon, Tue, Wed, Thu, Fri}},
		{"case and spaces", " friday , th ,sAt", []string{Thu, Fri, Sat}},
		{"ordered by week", "Sun,Mon", []string{Mon, Sun}},
		{"trailing comma", "Wed,", []string{Wed}},
		{"empty input", "", []string{}},
	}

	for _, tt := range tests {
		got, err := ParseWeekdays(tt.in)
		if err != nil {
			t.Errorf("%s: ParseWeekdays(%q) error = %v", tt.name, tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: ParseWeekdays(%q) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestParseWeekdaysAllOrNothing(t *testing.T) {
	for _, in := range []string{"Mon,Bogus", "Mon,,Tue", " ", "S", "Tues"} {
		got, err := ParseWeekdays(in)
		if err == nil {
			t.Errorf("ParseWeekdays(%q) = %v, want error", in, got)
			continue
		}
		if got != nil {
			t.Errorf("ParseWeekdays(%q) returned partial result %v", in, got)
		}
		var wdErr *InvalidWeekdayError
		if !errors.As(err, &wdErr) {
			t.Errorf("ParseWeekdays(%q) error %T, want *InvalidWeekdayError", in, err)
		}
	}
}

func TestParseWeekdaysIdempotent(t *testing.T) {
	first, err := ParseWeekdays("th, M, Sunday, t")
	if err != nil {
		t.Fatalf("ParseWeekdays: %v", err)
	}

	joined := ""
	for i, d := range first {
		if i > 0 {
			joined += ","
		}
		joined += d
	}

	second, err := ParseWeekdays(joined)
	if err != nil {
		t.Fatalf("ParseWeekdays(%q): %v", joined, err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-parse = %v, want %v", second, first)
	}
}

func TestSharesDay(t *testing.T) {
	if !SharesDay([]string{Mon, Wed}, []string{Wed}) {
		t.Error("expected shared Wed")
	}
	if SharesDay([]string{Mon, Wed}, []string{Tue, Thu}) {
		t.Error("disjoint sets should not share a day")
	}
	if SharesDay(nil, []string{Mon}) {
		t.Error("empty set shares nothing")
	}
}

func TestWeekdayConversions(t *testing.T) {
	for _, day := range Weekdays {
		wd, ok := ToTimeWeekday(day)
		if !ok {
			t.Fatalf("ToTimeWeekday(%q) not ok", day)
		}
		if back := FromTimeWeekday(wd); back != day {
			t.Errorf("round trip %q -> %v -> %q", day, wd, back)
		}
	}
	if _, ok := ToTimeWeekday("Funday"); ok {
		t.Error("unknown day should not convert")
	}
}

func TestClockHelpers(t *testing.T) {
	clock := FixedClock{At: time.Date(2025, 3, 5, 14, 7, 9, 0, time.Local)}

	if got := Today(clock); got != "2025-03-05" {
		t.Errorf("Today = %q", got)
	}
	if got := TodayWeekday(clock); got != Wed {
		t.Errorf("TodayWeekday = %q, want Wed", got)
	}
	if got := Timestamp(clock); got != "14:07:09 2025-03-05" {
		t.Errorf("Timestamp = %q", got)
	}
}
