// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted shapes for ISO-ish raw date values, in
// the order they are tried.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a raw value into a time. It accepts ISO-8601-prefixed
// strings and 10-13 digit Unix timestamps (seconds or milliseconds).
func parseDate(raw string) (time.Time, bool) {
	if unixTimestamp.MatchString(raw) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		// Timestamps are absolute instants; format them in UTC so the
		// generated slug doesn't depend on the server's timezone.
		if len(raw) > 10 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatPHPDate formats a raw date value using PHP date tokens. It is
// the default DateFormatter. A backslash escapes the next character.
// Unsupported tokens pass through verbatim; an unparseable raw value is
// an error so the caller can fall back.
func FormatPHPDate(format, rawValue string) (string, error) {
	t, ok := parseDate(rawValue)
	if !ok {
		return "", fmt.Errorf("parse date %q", rawValue)
	}

	var b strings.Builder
	escaped := false
	for _, r := range format {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case 'Y':
			b.WriteString(t.Format("2006"))
		case 'y':
			b.WriteString(t.Format("06"))
		case 'm':
			b.WriteString(t.Format("01"))
		case 'n':
			b.WriteString(strconv.Itoa(int(t.Month())))
		case 'd':
			b.WriteString(t.Format("02"))
		case 'j':
			b.WriteString(strconv.Itoa(t.Day()))
		case 'F':
			b.WriteString(t.Format("January"))
		case 'M':
			b.WriteString(t.Format("Jan"))
		case 'l':
			b.WriteString(t.Format("Monday"))
		case 'D':
			b.WriteString(t.Format("Mon"))
		case 'N':
			n := int(t.Weekday())
			if n == 0 {
				n = 7
			}
			b.WriteString(strconv.Itoa(n))
		case 'w':
			b.WriteString(strconv.Itoa(int(t.Weekday())))
		case 'z':
			b.WriteString(strconv.Itoa(t.YearDay() - 1))
		case 'H':
			b.WriteString(t.Format("15"))
		case 'G':
			b.WriteString(strconv.Itoa(t.Hour()))
		case 'h':
			b.WriteString(t.Format("03"))
		case 'g':
			b.WriteString(t.Format("3"))
		case 'i':
			b.WriteString(t.Format("04"))
		case 's':
			b.WriteString(t.Format("05"))
		case 'a':
			b.WriteString(t.Format("pm"))
		case 'A':
			b.WriteString(t.Format("PM"))
		case 'U':
			b.WriteString(strconv.FormatInt(t.Unix(), 10))
		case 't':
			b.WriteString(strconv.Itoa(daysInMonth(t)))
		case 'L':
			if isLeapYear(t.Year()) {
				b.WriteString("1")
			} else {
				b.WriteString("0")
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
