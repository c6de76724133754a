package timezone

import (
	"fmt"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var clinicLoc = mustLoad(DefaultTimezone)

func mustLoad(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Configure sets the single civil zone every date in the system is
// interpreted in. Called once at startup.
func Configure(tz string) {
	if IsValid(tz) {
		clinicLoc = mustLoad(tz)
	}
}

func Location() *time.Location {
	return clinicLoc
}

func Now() time.Time {
	return time.Now().In(clinicLoc)
}

// Today returns the current civil date as "2006-01-02".
func Today() string {
	return Now().Format(DateLayout)
}

func ParseDate(d string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, d, clinicLoc)
}

func ParseDateTime(d, hm string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, d+" "+hm, clinicLoc)
}

// ParseHM converts "HH:MM" into minutes since midnight.
func ParseHM(hm string) (int, error) {
	t, err := time.Parse(TimeLayout, hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatHM renders minutes since midnight as "HH:MM".
func FormatHM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Weekday returns 0..6 (Sunday=0) for a civil date, or -1 when the
// date does not parse.
func Weekday(date string) int {
	d, err := ParseDate(date)
	if err != nil {
		return -1
	}
	return int(d.Weekday())
}
