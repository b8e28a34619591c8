// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"regexp"
	"strings"
)

var (
	// nonSlugChars matches anything that isn't a lowercase letter, digit, or hyphen.
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Sanitize normalizes a substituted template into the slug charset.
// Empty hyphen-delimited segments are dropped first, so an empty
// substitution sitting between literal hyphens doesn't leave doubled
// or dangling hyphens behind.
// Example: "2024--My Title!!-" → "2024-my-title"
func Sanitize(s string) string {
	parts := strings.Split(s, "-")
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	s = strings.Join(kept, "-")

	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// Generate substitutes every template reference with its resolved value
// and sanitizes the result into a slug.
//
// Taxonomy values are used verbatim — they arrive as pre-joined term
// slugs and format specs do not apply to them. Meta references may
// descend one level into a Mapping via their arrayKey; descent into a
// non-mapping or a missing key substitutes an empty string. References
// with no matching variable (inconsistent inputs) also substitute empty.
func (f *Formatter) Generate(template string, vars []Variable, post map[string]Value, meta Mapping, tax map[string]string) string {
	if template == "" {
		return ""
	}

	out := variableRef.ReplaceAllStringFunc(template, func(m string) string {
		inner := m[1 : len(m)-1]

		v, ok := findVariable(vars, inner)
		if !ok {
			return ""
		}

		switch v.Kind {
		case KindTaxonomy:
			return tax[v.Field]

		case KindMeta:
			val, ok := meta[v.Field]
			if !ok || val == nil {
				val = Absent{}
			}
			if v.ArrayKey != "" {
				if _, absent := val.(Absent); !absent {
					m, ok := val.(Mapping)
					if !ok {
						return ""
					}
					val, ok = m[v.ArrayKey]
					if !ok || val == nil {
						return ""
					}
				}
			}
			return f.FormatField(v.Field, val, v.Format, true)

		default:
			val, ok := post[v.Field]
			if !ok || val == nil {
				val = Absent{}
			}
			return f.FormatField(v.Field, val, v.Format, false)
		}
	})

	return Sanitize(out)
}

// findVariable locates the parsed variable whose raw text matches a
// template occurrence. Repeated references share one variable entry and
// therefore resolve identically.
func findVariable(vars []Variable, raw string) (Variable, bool) {
	for _, v := range vars {
		if v.Raw == raw {
			return v, true
		}
	}
	return Variable{}, false
}
