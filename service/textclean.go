package service

import (
	"regexp"
	"strings"
	"unicode"
)

// Legislative amendment annotations found in bare act text. The numbered
// forms come from the gazette footnotes carried into scanned copies.
var amendmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.\s*(?:Subs|Ins|Omitted|Added|Rep)\.?\s+by\s+Act\s+\d+\s+of\s+\d{4}(?:,\s*(?:s|ss)\.\s*\d+[a-zA-Z]?)?`),
	regexp.MustCompile(`\(w\.e\.f\.\s*[\d.\-]+\)`),
	regexp.MustCompile(`\[\d+\]`),
	regexp.MustCompile(`\|\|`),
}

// ocrRepairs joins words split by column breaks in scanned bare acts. Keyed
// by a whitespace-tolerant pattern so double spaces still match.
var ocrRepairs = []struct {
	pattern *regexp.Regexp
	fixed   string
}{
	{regexp.MustCompile(`(?i)\bpun\s+ish\s*ment\b`), "punishment"},
	{regexp.MustCompile(`(?i)\bpun\s+ishment\b`), "punishment"},
	{regexp.MustCompile(`(?i)\bwho\s+ever\b`), "whoever"},
	{regexp.MustCompile(`(?i)\bim\s+prison\s*ment\b`), "imprisonment"},
	{regexp.MustCompile(`(?i)\bimprison\s+ment\b`), "imprisonment"},
	{regexp.MustCompile(`(?i)\bof\s+fence\b`), "offence"},
	{regexp.MustCompile(`(?i)\bcommit\s+ted\b`), "committed"},
	{regexp.MustCompile(`(?i)\bthere\s+of\b`), "thereof"},
	{regexp.MustCompile(`(?i)\bshall\s+be\s+li\s+able\b`), "shall be liable"},
}

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([,.;:!?])`)
	dashRe           = regexp.MustCompile(`[—–]`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
	sentenceStartRe  = regexp.MustCompile(`[.!?]\s+[A-Z]`)
	sectionRefRe     = regexp.MustCompile(`(?i)(?:section|sec\.?|धारा|§)\s*(\d+[A-Za-z]?)`)
)

// CleanLegalText normalizes raw statute content for display in excerpts.
// The pipeline is idempotent: cleaning cleaned text is a no-op.
func CleanLegalText(text string) string {
	for _, re := range amendmentPatterns {
		text = re.ReplaceAllString(text, " ")
	}

	for _, r := range ocrRepairs {
		fixed := r.fixed
		text = r.pattern.ReplaceAllStringFunc(text, func(m string) string {
			return matchCase(m, fixed)
		})
	}

	text = dashRe.ReplaceAllString(text, "-")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	// Amendment stripping can leave a dangling clause. Skip ahead to the
	// first full sentence when the text opens mid-fragment.
	if text != "" {
		first := []rune(text)[0]
		if unicode.IsLower(first) {
			if loc := sentenceStartRe.FindStringIndex(text); loc != nil {
				text = text[loc[1]-1:]
			}
		}
	}

	return text
}

// matchCase carries the leading capital of the matched text onto the
// replacement, so sentence-initial repairs stay sentence-initial.
func matchCase(match, fixed string) string {
	if match == "" || fixed == "" {
		return fixed
	}
	if unicode.IsUpper([]rune(match)[0]) {
		runes := []rune(fixed)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}
	return fixed
}

// SectionReferences returns the distinct section numbers referenced in
// text, in order of first appearance.
func SectionReferences(text string) []string {
	matches := sectionRefRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var sections []string
	for _, m := range matches {
		section := strings.ToUpper(m[1])
		if _, dup := seen[section]; dup {
			continue
		}
		seen[section] = struct{}{}
		sections = append(sections, section)
	}
	return sections
}

// Excerpt cleans text and truncates it to max runes on a rune boundary.
func Excerpt(text string, max int) string {
	cleaned := CleanLegalText(text)
	runes := []rune(cleaned)
	if len(runes) <= max {
		return cleaned
	}
	return string(runes[:max])
}
