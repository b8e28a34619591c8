// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Value is a resolved field value. Data sources hand over JSON-shaped
// data of unknown shape; ValueOf converts it once at that boundary so
// the formatter works with typed variants instead of probing at runtime.
type Value interface {
	isValue()
}

// Absent is a missing or empty source value. It always formats to "".
type Absent struct{}

// Scalar is a plain text, numeric, or boolean value.
type Scalar struct {
	Text string
}

// RichText is an editor value carrying the raw source text and the
// rendered HTML. Extraction prefers Raw; an empty Raw falls back to
// Rendered with HTML tags stripped.
type RichText struct {
	Raw      string
	Rendered string
}

// Mapping is a nested meta object, descendable via :key notation.
type Mapping map[string]Value

func (Absent) isValue()   {}
func (Scalar) isValue()   {}
func (RichText) isValue() {}
func (Mapping) isValue()  {}

// htmlTags matches HTML tag sequences for stripping rendered values.
var htmlTags = regexp.MustCompile(`<[^>]*>`)

// ValueOf converts a decoded JSON value into a Value. Empty strings,
// zero numbers, false, and nil all collapse to Absent so that empty
// substitutions drop out of the slug instead of leaving artifacts.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Absent{}
	case Value:
		return v
	case string:
		if v == "" {
			return Absent{}
		}
		return Scalar{Text: v}
	case bool:
		if !v {
			return Absent{}
		}
		return Scalar{Text: "true"}
	case float64:
		if v == 0 {
			return Absent{}
		}
		return Scalar{Text: formatFloat(v)}
	case int:
		if v == 0 {
			return Absent{}
		}
		return Scalar{Text: strconv.Itoa(v)}
	case int64:
		if v == 0 {
			return Absent{}
		}
		return Scalar{Text: strconv.FormatInt(v, 10)}
	case map[string]any:
		if r, ok := v["raw"]; ok {
			return RichText{
				Raw:      stringify(r),
				Rendered: stringify(v["rendered"]),
			}
		}
		if r, ok := v["rendered"]; ok {
			return RichText{Rendered: stringify(r)}
		}
		m := make(Mapping, len(v))
		for k, e := range v {
			m[k] = ValueOf(e)
		}
		return m
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, stringify(e))
		}
		return ValueOf(strings.Join(parts, ","))
	default:
		return Scalar{Text: fmt.Sprint(v)}
	}
}

// extract pulls the raw scalar text out of a value. Mappings have no
// scalar form and extract to "" — they are only useful via :key descent.
func extract(v Value) string {
	switch val := v.(type) {
	case Scalar:
		return val.Text
	case RichText:
		if val.Raw != "" {
			return val.Raw
		}
		return htmlTags.ReplaceAllString(val.Rendered, "")
	default:
		return ""
	}
}

// stringify renders an arbitrary JSON leaf as text.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return formatFloat(s)
	default:
		return fmt.Sprint(s)
	}
}

// formatFloat renders numbers without a trailing ".0" for integers,
// matching how numeric meta values appear in stored JSON.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
