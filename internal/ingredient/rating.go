package ingredient

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

// ToSafetyScore converts the source site's raw 0-5 ratings to the unified
// 0-10 safety scale. The worse of irritancy and comedogenicity dominates,
// each linearly rescaled, then the overall tier nudges the result.
func ToSafetyScore(r domain.RawRating) int {
	irritancyScore := r.Irritancy * 2
	comedogenicityScore := r.Comedogenicity * 2

	score := irritancyScore
	if comedogenicityScore > score {
		score = comedogenicityScore
	}

	switch r.OverallTier {
	case domain.TierSuperstar:
		score -= 2
	case domain.TierGoodie:
		score--
	case domain.TierIcky:
		score += 2
	}

	return Clamp(score)
}

// Clamp bounds a score to the 0-10 scale.
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// RiskLevelForScore is the pure step function from safety score to risk band.
func RiskLevelForScore(score int) domain.RiskLevel {
	switch {
	case score <= 2:
		return domain.RiskSafe
	case score <= 4:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

// SkinTypesForRatings derives the suitable skin types from the raw rating
// pair. Comedogenicity selects the candidate set, irritancy then restricts
// sensitive/all membership.
func SkinTypesForRatings(comedogenicity, irritancy int) []string {
	var skinTypes []string
	switch {
	case comedogenicity >= 4:
		skinTypes = []string{"dry"}
	case comedogenicity >= 3:
		skinTypes = []string{"normal", "dry"}
	case comedogenicity >= 1:
		skinTypes = []string{"normal", "combination"}
	default:
		skinTypes = []string{"all"}
	}

	switch {
	case irritancy >= 4:
		skinTypes = remove(skinTypes, "sensitive")
		if len(skinTypes) == 0 {
			skinTypes = []string{"normal"}
		}
	case irritancy >= 3:
		hadAll := contains(skinTypes, "all")
		skinTypes = remove(remove(skinTypes, "sensitive"), "all")
		if hadAll {
			skinTypes = []string{"normal", "oily", "combination"}
		}
	case irritancy == 0 && comedogenicity == 0:
		skinTypes = []string{"all", "sensitive"}
	}

	if len(skinTypes) == 0 {
		return []string{"normal"}
	}
	return skinTypes
}

// RisksFromRatings renders the raw rating pair as a risk sentence.
func RisksFromRatings(irritancy, comedogenicity int) string {
	var risks []string

	switch {
	case irritancy >= 4:
		risks = append(risks, "high risk of skin irritation")
	case irritancy >= 3:
		risks = append(risks, "moderate risk of skin irritation")
	case irritancy >= 1:
		risks = append(risks, "low risk of skin irritation")
	}

	switch {
	case comedogenicity >= 4:
		risks = append(risks, "high risk of clogging pores and causing acne")
	case comedogenicity >= 3:
		risks = append(risks, "moderate risk of clogging pores")
	case comedogenicity >= 1:
		risks = append(risks, "slight pore-clogging potential")
	}

	if len(risks) == 0 {
		return "Source ratings indicate this ingredient is non-irritating and non-comedogenic."
	}
	return "Source ratings indicate this ingredient has " + strings.Join(risks, " and ") + "."
}

// RisksForScore renders a risk sentence for fallback-scored ingredients.
func RisksForScore(score int) string {
	switch {
	case score >= 6:
		return "High risk ingredient. Use with caution."
	case score >= 4:
		return "Moderate risk. May not suit all skin types."
	default:
		return "Generally well-tolerated ingredient."
	}
}

// KnownAllergens returns the allergen categories implied by substrings of the
// ingredient name, sorted for determinism.
func KnownAllergens(name string) []string {
	lower := strings.ToLower(name)
	var allergens []string
	for substr, category := range knownAllergens {
		if strings.Contains(lower, substr) {
			allergens = append(allergens, category)
		}
	}
	sort.Strings(allergens)
	return allergens
}

// AllergensFromRatings unions the name-implied allergens with an "irritant"
// tag for high irritancy.
func AllergensFromRatings(irritancy int, name string) []string {
	seen := map[string]bool{}
	var allergens []string
	if irritancy >= 3 {
		allergens = append(allergens, "irritant")
		seen["irritant"] = true
	}
	for _, a := range KnownAllergens(name) {
		if !seen[a] {
			allergens = append(allergens, a)
			seen[a] = true
		}
	}
	return allergens
}

// FallbackSafetyScore classifies an ingredient by name substrings alone.
// Used when neither a rating table nor descriptive page text is available.
func FallbackSafetyScore(name string) int {
	lower := strings.ToLower(name)

	for _, bucket := range fallbackBuckets {
		if containsAny(lower, bucket.substrings) {
			return bucket.score
		}
	}

	if strings.Contains(lower, "oil") || strings.Contains(lower, "extract") {
		if containsAny(lower, gentleBotanicals) {
			return 3
		}
		return 4
	}

	if containsAny(lower, retinoidNames) {
		if strings.Contains(lower, "palmitate") {
			return 4 // ester form, gentler
		}
		return 5
	}

	if containsAny(lower, mildPreservatives) {
		return 3
	}
	if containsAny(lower, parabenPreservatives) {
		return 4
	}

	if containsAny(lower, fragranceAlcohols) {
		return 7
	}
	if containsAny(lower, formaldehydeReleasers) {
		return 8
	}

	if containsAny(lower, peroxides) {
		return 6
	}

	return 3
}

// TextScore derives a coarse safety score from keyword signals in descriptive
// page text: matched weights are averaged onto a base of 3 and clamped.
// matched reports whether any keyword fired at all.
func TextScore(pageText string) (score int, allergens []string, matched bool) {
	lower := strings.ToLower(pageText)

	var sum, count int
	for keyword, weight := range riskKeywordWeights {
		if strings.Contains(lower, keyword) {
			sum += weight
			count++
			if textAllergenKeywords[keyword] {
				allergens = append(allergens, keyword)
			}
		}
	}

	sort.Strings(allergens)

	if count == 0 {
		return 3, nil, false
	}
	return Clamp(int(3 + float64(sum)/float64(count))), allergens, true
}

// proseComedogenicRegex finds explicit "comedogenic rating N" style mentions.
var proseComedogenicRegex = regexp.MustCompile(`comedogenic[^0-9]*([0-5])`)

// ProseComedogenicRating extracts an explicit 0-5 comedogenic rating from
// prose, if present.
func ProseComedogenicRating(pageText string) (int, bool) {
	m := proseComedogenicRegex.FindStringSubmatch(strings.ToLower(pageText))
	if m == nil {
		return 0, false
	}
	rating, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return rating, true
}

// SkinTypesFromText infers skin-type suitability from prose hints when no
// rating table is available.
func SkinTypesFromText(pageText string) []string {
	lower := strings.ToLower(pageText)
	switch {
	case strings.Contains(lower, "sensitive") && strings.Contains(lower, "good"):
		return []string{"all", "sensitive"}
	case strings.Contains(lower, "oily") || strings.Contains(lower, "acne"):
		return []string{"oily", "combination"}
	case strings.Contains(lower, "dry"):
		return []string{"dry", "normal"}
	default:
		return []string{"normal"}
	}
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
