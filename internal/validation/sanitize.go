package validation

import (
	"html"
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Sanitize trims s, strips HTML tags and escapes what is left.
func Sanitize(s string) string {
	return html.EscapeString(tagRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

// SanitizeRegistration applies Sanitize to every text field except the
// passwords, which are used verbatim.
func SanitizeRegistration(f Registration) Registration {
	f.FullName = Sanitize(f.FullName)
	f.Email = Sanitize(f.Email)
	f.Username = Sanitize(f.Username)
	f.Gender = Sanitize(f.Gender)
	f.Country = Sanitize(f.Country)
	if f.Hobbies != nil {
		hobbies := make([]string, len(f.Hobbies))
		for i, h := range f.Hobbies {
			hobbies[i] = Sanitize(h)
		}
		f.Hobbies = hobbies
	}
	return f
}
