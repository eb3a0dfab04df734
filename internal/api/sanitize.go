// In file: internal/api/sanitize.go
package api

import (
	"regexp"
	"strings"
)

var (
	scriptBlock  = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	styleBlock   = regexp.MustCompile(`(?is)<style\b.*?</style\s*>`)
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
	jsProtocol   = regexp.MustCompile(`(?i)javascript:`)
	vbProtocol   = regexp.MustCompile(`(?i)vbscript:`)
	dataURL      = regexp.MustCompile(`(?i)data:[^;,]*[;,]`)
	safeDataURL  = regexp.MustCompile(`^(?i)data:image/[a-z]+;base64,`)
	eventHandler = regexp.MustCompile(`(?i)on\w+\s*=`)
	cssExpr      = regexp.MustCompile(`(?i)expression\s*\(`)
	evalCall     = regexp.MustCompile(`(?i)eval\s*\(`)
	angles       = regexp.MustCompile(`[<>]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Sanitize strips markup and script vectors from user input and collapses
// whitespace. Script and style blocks go with their content.
func Sanitize(s string) string {
	s = scriptBlock.ReplaceAllString(s, "")
	s = styleBlock.ReplaceAllString(s, "")
	s = htmlTag.ReplaceAllString(s, "")
	s = jsProtocol.ReplaceAllString(s, "")
	s = vbProtocol.ReplaceAllString(s, "")
	s = stripDataURLs(s)
	s = eventHandler.ReplaceAllString(s, "")
	s = cssExpr.ReplaceAllString(s, "")
	s = evalCall.ReplaceAllString(s, "")
	s = angles.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripDataURLs removes data: URL headers except base64 images.
func stripDataURLs(s string) string {
	matches := dataURL.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if safeDataURL.MatchString(s[m[0]:]) {
			continue
		}
		b.WriteString(s[last:m[0]])
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
