package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/dermalens/backend/internal/domain"
	"github.com/dermalens/backend/internal/ingredient"
)

// RatingSession is the per-request cache of ratings harvested from a rating
// table on the product page. It is always present (possibly empty) and must
// be cleared explicitly when a cached ingredient list is reused, so stale
// table data is never paired with cached ingredients.
type RatingSession struct {
	ratings map[string]domain.RawRating
}

// NewRatingSession creates a session over the given table ratings. A nil map
// yields an empty session.
func NewRatingSession(ratings map[string]domain.RawRating) *RatingSession {
	if ratings == nil {
		ratings = map[string]domain.RawRating{}
	}
	return &RatingSession{ratings: ratings}
}

// Clear discards all session ratings.
func (s *RatingSession) Clear() {
	s.ratings = map[string]domain.RawRating{}
}

// Lookup returns the session rating for an ingredient, if present.
func (s *RatingSession) Lookup(name string) (domain.RawRating, bool) {
	r, ok := s.ratings[name]
	return r, ok
}

// Len returns the number of cached session ratings.
func (s *RatingSession) Len() int {
	return len(s.ratings)
}

// SafetyResolver produces one IngredientReport per ingredient, reconciling
// three data tiers: the session rating cache, the ingredient's dedicated
// detail page, and the static keyword fallback. It never fails to produce a
// report; total data absence yields medium-risk placeholders.
type SafetyResolver struct {
	source domain.IngredientSource
}

// NewSafetyResolver creates a resolver over the given ingredient source.
func NewSafetyResolver(source domain.IngredientSource) *SafetyResolver {
	return &SafetyResolver{source: source}
}

// Resolve returns the safety report for one ingredient. The only error it
// returns is context cancellation; every data failure degrades to the next
// tier instead.
func (r *SafetyResolver) Resolve(ctx context.Context, name string, session *RatingSession) (domain.IngredientReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.IngredientReport{}, err
	}

	if rating, ok := session.Lookup(name); ok {
		slog.Debug("Resolved ingredient from session table cache", "ingredient", name)
		return reportFromRating(name, rating, domain.SourceTableCache), nil
	}

	page, err := r.source.LookupIngredient(ctx, name)
	if err == nil && page != nil {
		report, meaningful := reportFromPage(name, page)
		if meaningful {
			slog.Debug("Resolved ingredient from detail page", "ingredient", name, "table", page.HasTable)
			return report, nil
		}
	} else if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.IngredientReport{}, ctxErr
		}
		slog.Debug("Ingredient page lookup failed, using fallback", "ingredient", name, "error", err)
	}

	return fallbackReport(name), nil
}

// reportFromRating builds a report from a structured 0-5 rating row.
func reportFromRating(name string, rating domain.RawRating, source domain.Source) domain.IngredientReport {
	score := ingredient.ToSafetyScore(rating)

	function := rating.Function
	if function == "" {
		function = "Unknown"
	}

	return domain.IngredientReport{
		Name:           name,
		SafetyScore:    score,
		RiskLevel:      ingredient.RiskLevelForScore(score),
		Allergens:      ingredient.AllergensFromRatings(rating.Irritancy, name),
		Benefits:       ingredient.BenefitsForFunction(function),
		Risks:          ingredient.RisksFromRatings(rating.Irritancy, rating.Comedogenicity),
		SkinTypes:      ingredient.SkinTypesForRatings(rating.Comedogenicity, rating.Irritancy),
		Source:         source,
		Irritancy:      rating.Irritancy,
		Comedogenicity: rating.Comedogenicity,
		OverallTier:    rating.OverallTier,
	}
}

// reportFromPage builds a report from a scraped ingredient detail page.
// meaningful is false when the page carried nothing beyond defaults, in which
// case the caller should fall through to the keyword fallback.
func reportFromPage(name string, page *domain.IngredientPage) (domain.IngredientReport, bool) {
	if page.HasTable {
		report := reportFromRating(name, page.Rating, domain.SourcePageHeuristic)
		return report, true
	}

	score, textAllergens, matched := ingredient.TextScore(page.PageText)
	if proseRating, ok := ingredient.ProseComedogenicRating(page.PageText); ok {
		score = ingredient.Clamp(score + proseRating/2)
	}

	allergens := unionAllergens(textAllergens, ingredient.KnownAllergens(name))

	benefits := strings.TrimSpace(page.Benefits)
	if benefits == "" {
		benefits = "No data available"
	}
	function := strings.TrimSpace(page.Function)
	if function == "" {
		function = "Unknown"
	}

	var risks string
	switch {
	case len(allergens) > 0:
		risks = "May cause " + strings.Join(allergens, ", ") + ". Patch test recommended."
	case score >= 6:
		risks = "High risk ingredient. Use with caution."
	case score >= 4:
		risks = "Moderate risk. May not suit all skin types."
	default:
		risks = "Generally well-tolerated ingredient."
	}

	meaningful := function != "Unknown" ||
		benefits != "No data available" ||
		len(allergens) > 0 ||
		matched ||
		score != 3

	return domain.IngredientReport{
		Name:        name,
		SafetyScore: score,
		RiskLevel:   ingredient.RiskLevelForScore(score),
		Allergens:   allergens,
		Benefits:    benefits,
		Risks:       risks,
		SkinTypes:   ingredient.SkinTypesFromText(page.PageText),
		Source:      domain.SourcePageHeuristic,
		OverallTier: domain.TierUnknown,
	}, meaningful
}

// fallbackReport classifies an ingredient from its name alone.
func fallbackReport(name string) domain.IngredientReport {
	score := ingredient.FallbackSafetyScore(name)

	report := domain.IngredientReport{
		Name:        name,
		SafetyScore: score,
		RiskLevel:   ingredient.RiskLevelForScore(score),
		Allergens:   ingredient.KnownAllergens(name),
		Benefits:    ingredient.CosmeticBenefits(name),
		Source:      domain.SourceKeywordFallback,
		OverallTier: domain.TierUnknown,
	}

	switch report.RiskLevel {
	case domain.RiskSafe:
		report.Risks = "Generally well-tolerated"
		report.SkinTypes = []string{"all", "sensitive"}
	case domain.RiskMedium:
		report.Risks = "May not suit all skin types"
		report.SkinTypes = []string{"normal", "oily"}
	default:
		report.Risks = "High risk - patch test recommended"
		report.SkinTypes = []string{"normal"}
	}

	return report
}

func unionAllergens(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range [][]string{a, b} {
		for _, item := range list {
			if !seen[item] {
				out = append(out, item)
				seen[item] = true
			}
		}
	}
	sort.Strings(out)
	return out
}
