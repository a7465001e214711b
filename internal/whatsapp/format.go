package whatsapp

import (
	"regexp"
	"strings"
)

var (
	bracketRe = regexp.MustCompile(`【.*?】`)
	boldRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// FormatText rewrites model-flavored markdown into WhatsApp text style:
// citation brackets are dropped and **bold** becomes *bold*.
func FormatText(text string) string {
	text = strings.TrimSpace(bracketRe.ReplaceAllString(text, ""))
	return boldRe.ReplaceAllString(text, "*$1*")
}
