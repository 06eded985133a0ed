package translate

import "strings"

// The model's reply is free-form text; no strict structure is required of
// it. Each mode family scans reply lines against an ordered list of label
// rules and degrades to a fixed placeholder (or the verbatim reply) for any
// field the model omitted. Parsing never fails.

// Fallbacks used when a generation or cross-translation reply omits a
// labeled field.
const (
	fallbackWord    = "Synergistic Alignmentality"
	fallbackMeaning = `A fancy way of saying "working together"`
	fallbackExample = "We need more synergistic alignmentality in our quarterly initiatives."

	fallbackCrossOriginal   = "Translation completed"
	fallbackCrossTranslated = "Successfully converted"
	fallbackCrossMeaning    = "The message has been transformed between communication styles"
)

// labelRule extracts a field from the first line containing one of its
// labels. Labels are matched case-insensitively anywhere in the line; the
// value is the remainder after the first colon.
type labelRule struct {
	labels []string
	assign func(r *Result, value string)
}

// ParseResponse turns the raw completion text into a Result for the mode.
func ParseResponse(mode Mode, content, originalText string) *Result {
	switch {
	case mode.Decoding():
		return parseDecode(mode, content, originalText)
	case mode.Generative():
		return parseGeneration(mode, content)
	default:
		return parseCrossTranslation(mode, content)
	}
}

func parseDecode(mode Mode, content, originalText string) *Result {
	translation := ""
	for _, line := range nonEmptyLines(content) {
		lower := strings.ToLower(line)
		for _, label := range []string{"plain english:", "actually means:"} {
			if idx := strings.Index(lower, label); idx >= 0 {
				translation = strings.TrimSpace(line[idx+len(label):])
				break
			}
		}
		if translation != "" {
			break
		}
	}
	if translation == "" {
		// No recognizable label; the whole reply is better than nothing.
		translation = strings.TrimSpace(content)
	}
	return &Result{Mode: mode, Original: originalText, Translation: translation}
}

func parseGeneration(mode Mode, content string) *Result {
	r := &Result{Mode: mode}
	rules := []labelRule{
		{labels: []string{"new corporate word", "new genz word"}, assign: func(r *Result, v string) { r.Word = v }},
		{labels: []string{"meaning:"}, assign: func(r *Result, v string) { r.Meaning = v }},
		{labels: []string{"example:"}, assign: func(r *Result, v string) { r.Example = v }},
	}
	scanLabels(r, content, rules)

	if r.Word == "" {
		r.Word = fallbackWord
	}
	if r.Meaning == "" {
		r.Meaning = fallbackMeaning
	}
	if r.Example == "" {
		r.Example = fallbackExample
	}
	return r
}

func parseCrossTranslation(mode Mode, content string) *Result {
	r := &Result{Mode: mode}
	rules := []labelRule{
		{labels: []string{"genz says:", "corporate says:"}, assign: func(r *Result, v string) { r.Original = v }},
		{labels: []string{"corporate version:", "genz version:"}, assign: func(r *Result, v string) { r.Translation = v }},
		{labels: []string{"explanation:"}, assign: func(r *Result, v string) { r.Meaning = v }},
	}
	scanLabels(r, content, rules)

	if r.Original == "" {
		r.Original = fallbackCrossOriginal
	}
	if r.Translation == "" {
		r.Translation = fallbackCrossTranslated
	}
	if r.Meaning == "" {
		r.Meaning = fallbackCrossMeaning
	}
	return r
}

func scanLabels(r *Result, content string, rules []labelRule) {
	for _, line := range nonEmptyLines(content) {
		lower := strings.ToLower(line)
		for _, rule := range rules {
			for _, label := range rule.labels {
				if strings.Contains(lower, label) {
					rule.assign(r, afterColon(line))
					break
				}
			}
		}
	}
}

// afterColon returns the trimmed text after the first colon, or "" when the
// line has no colon or nothing follows it.
func afterColon(line string) string {
	_, after, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}

func nonEmptyLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
