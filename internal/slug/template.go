// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug implements the slug template engine: parsing variable
// references out of a template string, formatting resolved values, and
// assembling sanitized URL slugs from content data.
//
// Template grammar: a template is literal text with zero or more
// {spec} references, where spec is [prefix:]field[:arrayKey][|format]
// and prefix is "meta" or "tax" (absent means a post field). A reference
// ends at the first closing brace — nested braces are not supported.
package slug

import (
	"regexp"
	"strings"
)

// VariableKind says which data source a template variable reads from.
type VariableKind string

const (
	KindPostField VariableKind = "post-field"
	KindMeta      VariableKind = "meta"
	KindTaxonomy  VariableKind = "taxonomy"
)

// Variable is one parsed {...} reference from a slug template.
type Variable struct {
	Field    string       // base field, meta key, or taxonomy slug
	ArrayKey string       // sub-key for meta:field:key references, empty otherwise
	Format   string       // trailing |format segment, empty otherwise
	Kind     VariableKind // data source routing
	Raw      string       // original reference text, matched against template occurrences during substitution
}

// variableRef matches one template reference. Each span ends at the
// first closing brace after its opening brace.
var variableRef = regexp.MustCompile(`\{([^}]+)\}`)

// Parse extracts all variable references from a slug template in order
// of appearance. Parsing never fails: an empty template yields no
// variables, and a malformed reference (such as an empty field name)
// yields a best-effort variable that resolves to an empty substitution
// downstream. Parsing is deterministic — the same template always
// produces the same variable list.
func Parse(template string) []Variable {
	if template == "" {
		return nil
	}

	var vars []Variable
	for _, m := range variableRef.FindAllStringSubmatch(template, -1) {
		inner := m[1]

		v := Variable{Kind: KindPostField, Raw: inner}
		spec := inner
		switch {
		case strings.HasPrefix(spec, "meta:"):
			v.Kind = KindMeta
			spec = strings.TrimPrefix(spec, "meta:")
		case strings.HasPrefix(spec, "tax:"):
			v.Kind = KindTaxonomy
			spec = strings.TrimPrefix(spec, "tax:")
		}

		// The format is the last |-delimited segment, if any.
		parts := strings.Split(spec, "|")
		if len(parts) > 1 {
			v.Format = parts[len(parts)-1]
		}

		// The field part may carry array access notation (field:key).
		fieldParts := strings.Split(parts[0], ":")
		v.Field = fieldParts[0]
		if len(fieldParts) > 1 {
			v.ArrayKey = fieldParts[1]
		}

		vars = append(vars, v)
	}
	return vars
}

// RequiredFields lists the distinct data keys a parsed template needs,
// split by source and ordered by first occurrence in the template.
type RequiredFields struct {
	PostFields    []string
	MetaKeys      []string
	TaxonomySlugs []string
}

// Required derives the deduplicated field sets from parsed variables.
// It is a pure function of the variable list.
func Required(vars []Variable) RequiredFields {
	var rf RequiredFields
	seenPost := make(map[string]bool)
	seenMeta := make(map[string]bool)
	seenTax := make(map[string]bool)

	for _, v := range vars {
		switch v.Kind {
		case KindMeta:
			if !seenMeta[v.Field] {
				seenMeta[v.Field] = true
				rf.MetaKeys = append(rf.MetaKeys, v.Field)
			}
		case KindTaxonomy:
			if !seenTax[v.Field] {
				seenTax[v.Field] = true
				rf.TaxonomySlugs = append(rf.TaxonomySlugs, v.Field)
			}
		default:
			if !seenPost[v.Field] {
				seenPost[v.Field] = true
				rf.PostFields = append(rf.PostFields, v.Field)
			}
		}
	}
	return rf
}
