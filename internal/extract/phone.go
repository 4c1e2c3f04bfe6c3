// Package extract pulls normalized phone-number candidates out of free
// text. It is pure: no I/O, never fails, at worst returns nothing.
package extract

import "regexp"

// Patterns are tried in order; the first candidate in extraction order
// is the one callers treat as authoritative.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{10}\b`),
	regexp.MustCompile(`\b\d{11}\b`),
	regexp.MustCompile(`\+\d{10,12}\b`),
	regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	regexp.MustCompile(`\b\d{4}[-.]?\d{3}[-.]?\d{3}\b`),
}

var separators = regexp.MustCompile(`[\s.\-]+`)

// Numbers returns every phone candidate found in text, normalized to a
// leading + followed by digits only, deduplicated in first-seen order.
func Numbers(text string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, p := range patterns {
		for _, match := range p.FindAllString(text, -1) {
			num := Normalize(match)
			if num == "+" || seen[num] {
				continue
			}
			seen[num] = true
			out = append(out, num)
		}
	}

	return out
}

// Normalize strips separators and prefixes +, keeping one if already
// present so the country code survives.
func Normalize(raw string) string {
	if len(raw) > 0 && raw[0] == '+' {
		return "+" + separators.ReplaceAllString(raw[1:], "")
	}
	return "+" + separators.ReplaceAllString(raw, "")
}
