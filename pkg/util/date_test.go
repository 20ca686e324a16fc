package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}
func TestParseTimePlainDate(t *testing.T) {
	got, ok := ParseTime("2024-03-15")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Format(DateLayout) != "2024-03-15" {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestBusinessDayRangeFromFriday(t *testing.T) {
	fri := time.Date(2024, 3, 15, 16, 30, 0, 0, time.UTC)
	got := BusinessDayRange(fri, 4)
	want := []string{"2024-03-15", "2024-03-18", "2024-03-19", "2024-03-20"}
	if len(got) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Format(DateLayout) != want[i] {
			t.Fatalf("day %d: expected %s, got %s", i, want[i], got[i].Format(DateLayout))
		}
		if got[i].Hour() != 0 {
			t.Fatalf("day %d not normalised: %v", i, got[i])
		}
	}
}

func TestBusinessDayRangeRollsWeekendStart(t *testing.T) {
	sat := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	got := BusinessDayRange(sat, 2)
	if got[0].Weekday() != time.Monday || got[0].Format(DateLayout) != "2024-03-18" {
		t.Fatalf("expected monday 2024-03-18, got %v", got[0])
	}
}

func TestBusinessDayRangeEmpty(t *testing.T) {
	if got := BusinessDayRange(time.Now(), 0); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
