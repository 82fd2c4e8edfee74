// Package ingredient holds the pure classification logic for cosmetic
// ingredient names and safety ratings: name validation, conversion of raw
// source ratings to the unified 0-10 safety scale, and the keyword tables
// both are driven by. Everything here is deterministic and side-effect free.
package ingredient

import (
	"regexp"
	"strings"
)

// nameShapeRegex is the overall shape a valid ingredient name must match:
// starts with a letter, body of letters/digits/space/hyphen/parens/period,
// ends with a letter, digit, or closing parenthesis.
var nameShapeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9\s\-\(\)\.]*[a-zA-Z0-9\)]$`)

// longParenRegex matches parenthetical content, used to drop over-long
// parenthetical explanations during cleaning.
var parenContentRegex = regexp.MustCompile(`\(([^)]+)\)`)

var (
	leadingConnectiveRegex  = regexp.MustCompile(`(?i)^(and\s+|or\s+|also\s+)`)
	trailingConnectiveRegex = regexp.MustCompile(`(?i)(\s+and|\s+or)$`)
	multiSpaceRegex         = regexp.MustCompile(`\s+`)
)

// IsValid reports whether a candidate string is a plausible ingredient name
// rather than a scraped artifact. Rules are evaluated in order; the first
// failing rule rejects the candidate.
func IsValid(candidate string) bool {
	name := strings.TrimSpace(candidate)
	if len(name) < 3 || len(name) > 80 {
		return false
	}

	lower := strings.ToLower(name)

	for _, phrase := range artifactPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	// Sentence-indicator tokens surrounded by spaces distinguish prose
	// fragments from nominal chemical names.
	padded := " " + lower + " "
	for _, indicator := range sentenceIndicators {
		if strings.Contains(padded, indicator) {
			return false
		}
	}

	if strings.Count(name, "(") != strings.Count(name, ")") {
		return false
	}
	if strings.Count(name, "[") != strings.Count(name, "]") {
		return false
	}

	alnum := 0
	for _, c := range name {
		if isAlnum(c) {
			alnum++
		}
	}
	if float64(alnum) < float64(len(name))*0.4 {
		return false
	}

	for _, start := range invalidStarts {
		if strings.HasPrefix(lower, start) {
			return false
		}
	}
	for _, end := range invalidEnds {
		if strings.HasSuffix(lower, end) {
			return false
		}
	}

	return nameShapeRegex.MatchString(name)
}

// IsValidCell is the stricter validator applied to scraped list items, table
// cells, and link text. It is biased toward acceptance for strings matching
// known chemical-name morphology or the short allow-list of ubiquitous
// cosmetic ingredients.
func IsValidCell(candidate string) bool {
	name := strings.TrimSpace(candidate)
	if len(name) < 3 || len(name) > 70 {
		return false
	}

	lower := strings.ToLower(name)

	for _, phrase := range cellArtifactPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	// More than two common English function words means a prose fragment.
	padded := " " + lower + " "
	functionWords := 0
	for _, word := range commonFunctionWords {
		if strings.Contains(padded, " "+word+" ") {
			functionWords++
		}
	}
	if functionWords > 2 {
		return false
	}

	letters := 0
	for _, c := range name {
		if isLetter(c) {
			letters++
		}
	}
	if letters == 0 {
		return false
	}
	if float64(letters) < float64(len(name))*0.5 {
		return false
	}

	if looksChemical(lower) {
		return true
	}
	for _, common := range ubiquitousIngredients {
		if strings.Contains(lower, common) {
			return true
		}
	}

	// Passed all rejection rules and nothing disqualifying found.
	return true
}

// chemicalMorphologyRegexes capture naming patterns typical of INCI names.
var chemicalMorphologyRegexes = []*regexp.Regexp{
	regexp.MustCompile(`[a-z]+yl\b`),
	regexp.MustCompile(`[a-z]+ate\b`),
	regexp.MustCompile(`[a-z]+ine\b`),
	regexp.MustCompile(`[a-z]+ol\b`),
	regexp.MustCompile(`\bacid\b`),
	regexp.MustCompile(`\bsodium\b`),
	regexp.MustCompile(`\bpotassium\b`),
	regexp.MustCompile(`\b\d+\b`),
}

func looksChemical(lower string) bool {
	for _, re := range chemicalMorphologyRegexes {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// CleanName normalizes a scraped candidate before validation: collapses
// whitespace, trims leading/trailing connectives, and drops parenthetical
// explanations longer than 30 characters.
func CleanName(raw string) string {
	cleaned := multiSpaceRegex.ReplaceAllString(strings.TrimSpace(raw), " ")
	if cleaned == "" {
		return ""
	}

	cleaned = leadingConnectiveRegex.ReplaceAllString(cleaned, "")
	cleaned = trailingConnectiveRegex.ReplaceAllString(cleaned, "")

	if strings.Contains(cleaned, "(") && strings.Contains(cleaned, ")") {
		if m := parenContentRegex.FindStringSubmatch(cleaned); m != nil && len(m[1]) > 30 {
			cleaned = strings.TrimSpace(parenContentRegex.ReplaceAllString(cleaned, ""))
		}
	}

	return strings.TrimSpace(cleaned)
}

func isAlnum(c rune) bool {
	return isLetter(c) || (c >= '0' && c <= '9')
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
