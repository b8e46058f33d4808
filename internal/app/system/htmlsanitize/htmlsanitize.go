// Package htmlsanitize cleans generated text before it is embedded in HTML
// email bodies.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy allows simple formatting and links. Images, styles, forms and
// scripts are removed; mail clients render what is left.
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "hr", "div", "span",
		"strong", "b", "em", "i", "u", "code", "pre", "blockquote",
		"h1", "h2", "h3", "h4", "ul", "ol", "li",
	)
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

// Sanitize strips everything the mail policy does not allow.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeToHTML sanitizes s and marks the result safe for html/template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	i := strings.IndexByte(s, '<')
	if i < 0 {
		return true
	}
	j := strings.IndexByte(s[i:], '>')
	if j < 0 {
		return true
	}
	tag := s[i+1 : i+j]
	// "a < b and c > d" has spaces right after '<'; real tags do not.
	return tag == "" || tag[0] == ' '
}

// PlainTextToHTML escapes s and turns blank-line separated blocks into
// paragraphs and single newlines into <br>.
func PlainTextToHTML(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, block := range strings.Split(s, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, l := range lines {
			lines[i] = html.EscapeString(l)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// PrepareForDisplay returns s as safe HTML: plain text is escaped and
// paragraphed, markup is sanitized.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
