package translate

import (
	"regexp"
	"strings"
)

const maxInputLen = 2000

var (
	braceRe     = regexp.MustCompile(`[{}]`)
	separatorRe = regexp.MustCompile(`\n\s*--\s*\n`)
	labelRe     = regexp.MustCompile(`(?i)\n\s*(Corporate|GenZ|User Description|New Corporate Word|New GenZ Word|Plain English|Meaning|Example|Explanation):`)
)

// SanitizeInput neutralizes prompt-injection vectors before the text is
// substituted into a template: literal braces would re-open the placeholder,
// a bare `--` line mimics the template's section separator, and lines
// starting with a reserved label could forge structured output the parser
// would then trust. Every label any parser reads is reserved. Input is
// capped at maxInputLen characters.
func SanitizeInput(input string) string {
	clean := braceRe.ReplaceAllString(input, "")
	clean = separatorRe.ReplaceAllString(clean, " ")
	clean = labelRe.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	if runes := []rune(clean); len(runes) > maxInputLen {
		clean = string(runes[:maxInputLen])
	}
	return clean
}

// injectInput fills the template's single placeholder slot.
func injectInput(template, input string) string {
	return strings.Replace(template, "{userInput}", SanitizeInput(input), 1)
}
