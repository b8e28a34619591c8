// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"slugpress/internal/slug"
)

// maxTemplateLen caps slug template length. Slugs land in a 300-char
// column; templates much longer than that are a mistake.
const maxTemplateLen = 500

// validateSlugTemplate checks a slug template and returns the first
// error found, or "" when the template is acceptable.
func validateSlugTemplate(template string) string {
	template = strings.TrimSpace(template)
	if template == "" {
		return "Template is required."
	}
	if utf8.RuneCountInString(template) > maxTemplateLen {
		return "Template is too long (max 500 characters)."
	}
	if strings.Count(template, "{") != strings.Count(template, "}") {
		return "Template has unbalanced braces."
	}
	if len(slug.Parse(template)) == 0 {
		return "Template must reference at least one variable, e.g. {title}."
	}
	return ""
}
