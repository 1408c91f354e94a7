package codec

import (
	"math"
	"strconv"
	"time"
)

// SignedCoord parses a coordinate magnitude and applies the hemisphere
// sign: negative for S/W, positive otherwise. The magnitude is forced
// through abs first so a device that already sends a signed value cannot
// flip the hemisphere. Returns nil when the magnitude is not numeric.
func SignedCoord(mag, hemi string) *float64 {
	v, err := strconv.ParseFloat(mag, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	v = math.Abs(v)
	if hemi == "S" || hemi == "W" {
		v = -v
	}
	return &v
}

// ParseTimestamp converts the protocol's ddmmyy + hhmmss digit strings into
// a UTC instant. Both inputs must be exactly six ASCII digits. A date that
// the calendar cannot represent (month 13, hour 25) yields nil instead of
// Go's normalized wrap-around.
func ParseTimestamp(date, clock string) *time.Time {
	if !sixDigits(date) || !sixDigits(clock) {
		return nil
	}
	dd := digits2(date, 0)
	mm := digits2(date, 2)
	yy := digits2(date, 4) + 2000
	hh := digits2(clock, 0)
	mi := digits2(clock, 2)
	ss := digits2(clock, 4)

	t := time.Date(yy, time.Month(mm), dd, hh, mi, ss, 0, time.UTC)
	if t.Year() != yy || int(t.Month()) != mm || t.Day() != dd ||
		t.Hour() != hh || t.Minute() != mi || t.Second() != ss {
		return nil
	}
	return &t
}

func sixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < 6; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func digits2(s string, i int) int {
	return int(s[i]-'0')*10 + int(s[i+1]-'0')
}
