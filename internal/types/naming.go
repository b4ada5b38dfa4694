package types

import (
	"strings"
	"unicode"
)

// ResourceFile is the snake_case file stem for a resource: "BlogPost" and
// "blog post" both become "blog_post".
func ResourceFile(resource string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(resource) {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevLower = true
		default:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		}
	}
	return strings.Trim(b.String(), "_")
}

// ResourceType is the exported Go type name for a resource: "blog_post"
// becomes "BlogPost".
func ResourceType(resource string) string {
	var b strings.Builder
	for _, part := range strings.Split(ResourceFile(resource), "_") {
		if part == "" {
			continue
		}
		rs := []rune(part)
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	return b.String()
}

// ResourcePlural is the URL segment for a resource collection: "category"
// becomes "categories".
func ResourcePlural(resource string) string {
	s := ResourceFile(resource)
	switch {
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}
