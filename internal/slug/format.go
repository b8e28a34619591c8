// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"log/slog"
	"regexp"
	"strings"
)

// DateFormatter formats a raw date value according to a PHP-style date
// format string. Implementations may be locale-aware; FormatPHPDate is
// the default. A returned error triggers the manual fallback.
type DateFormatter func(format, rawValue string) (string, error)

// Formatter applies type-aware formatting to resolved template values.
type Formatter struct {
	dateFmt DateFormatter
}

// NewFormatter creates a formatter. dateFmt may be nil, in which case
// only the manual Y/m/d fallback formats dates.
func NewFormatter(dateFmt DateFormatter) *Formatter {
	return &Formatter{dateFmt: dateFmt}
}

// dateFormatChars sniffs whether a format string looks like a PHP date
// pattern rather than a text directive.
var dateFormatChars = regexp.MustCompile(`[YymdHisaABgGhFjlMnStTwWzZ]`)

// Date-like raw values: an ISO-8601 prefix or a 10-13 digit Unix
// timestamp (seconds or milliseconds).
var (
	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	unixTimestamp = regexp.MustCompile(`^\d{10,13}$`)
)

// FormatField converts a resolved value into its slug segment.
//
// The "date" post field is always routed through date formatting. A
// meta field is date-formatted only when its format string looks like a
// date pattern AND its value looks like a date; otherwise the format is
// treated as a text directive. Unknown text formats are no-ops, and
// every failure degrades to an empty string — formatting never errors.
func (f *Formatter) FormatField(field string, v Value, format string, isMeta bool) string {
	raw := extract(v)
	if raw == "" {
		return ""
	}

	if field == "date" || (isMeta && format != "" && dateFormatChars.MatchString(format)) {
		if isMeta && !looksLikeDate(raw) {
			return applyTextFormat(raw, format)
		}
		return f.formatDate(raw, format)
	}

	if format == "" {
		return raw
	}
	return applyTextFormat(raw, format)
}

// formatDate tries the configured date formatter first, then falls back
// to manual Y/m/d formatting. Unparseable values yield "".
func (f *Formatter) formatDate(raw, format string) string {
	if f.dateFmt != nil && format != "" {
		out, err := f.dateFmt(format, raw)
		if err == nil {
			return out
		}
		slog.Debug("date formatter failed, using fallback", "format", format, "error", err)
	}

	t, ok := parseDate(raw)
	if !ok {
		slog.Warn("unparseable date value", "value", raw)
		return ""
	}

	switch format {
	case "Y":
		return t.Format("2006")
	case "m":
		return t.Format("01")
	case "d":
		return t.Format("02")
	default:
		// "Y-m-d", absent, or anything unrecognized.
		return t.Format("2006-01-02")
	}
}

// looksLikeDate reports whether a raw meta value could plausibly be
// parsed as a date.
func looksLikeDate(raw string) bool {
	return isoDatePrefix.MatchString(raw) || unixTimestamp.MatchString(raw)
}

// applyTextFormat handles the text format directives. Anything other
// than lower/upper leaves the value unchanged.
func applyTextFormat(raw, format string) string {
	switch format {
	case "lower":
		return strings.ToLower(raw)
	case "upper":
		return strings.ToUpper(raw)
	default:
		return raw
	}
}
