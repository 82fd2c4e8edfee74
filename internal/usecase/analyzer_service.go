package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dermalens/backend/internal/domain"
	"github.com/dermalens/backend/internal/ingredient"
)

const productCategory = "skincare"

// AnalyzerConfig holds configuration for the analyzer service.
type AnalyzerConfig struct {
	// MaxConcurrentResolves bounds the parallel per-ingredient lookups so the
	// source site's implicit rate limits are respected.
	MaxConcurrentResolves int
}

// AnalyzerService orchestrates a full product analysis: cache lookup,
// ingredient extraction, per-ingredient safety resolution, aggregation, and
// narrative generation, degrading gracefully at every stage. Its public
// operation never fails for a well-formed product name.
type AnalyzerService struct {
	repo          domain.ProductRepository
	source        domain.IngredientSource
	narrative     domain.NarrativeClient
	resolver      *SafetyResolver
	maxConcurrent int
}

// NewAnalyzerService creates an analyzer with its dependencies. narrative may
// be nil; summaries and alternatives then use local fallbacks.
func NewAnalyzerService(
	repo domain.ProductRepository,
	source domain.IngredientSource,
	narrative domain.NarrativeClient,
	config AnalyzerConfig,
) *AnalyzerService {
	maxConcurrent := config.MaxConcurrentResolves
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &AnalyzerService{
		repo:          repo,
		source:        source,
		narrative:     narrative,
		resolver:      NewSafetyResolver(source),
		maxConcurrent: maxConcurrent,
	}
}

// AnalyzeProduct resolves a product name into a full safety analysis.
// Flow: validate input -> cache lookup -> extract -> resolve each ingredient
// -> aggregate -> summarize. Every internal failure resolves into a fallback
// analysis; only a malformed product name returns an error.
func (s *AnalyzerService) AnalyzeProduct(ctx context.Context, productName string) (*domain.ProductAnalysis, error) {
	name := strings.TrimSpace(productName)
	if len(name) < 2 {
		return nil, domain.ErrInvalidRequest
	}

	session := NewRatingSession(nil)
	var ingredients []string
	cached := false

	record, err := s.repo.Get(ctx, name)
	switch {
	case err == nil && record != nil:
		slog.Info("Found cached product", "product", name, "ingredients", len(record.Ingredients))
		ingredients = record.Ingredients
		cached = true
		// Cached ingredient lists must not be paired with stale per-session
		// table ratings.
		session.Clear()
	default:
		if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
			slog.Warn("Product cache lookup failed", "product", name, "error", err)
		}

		slog.Info("Scraping ingredients", "product", name)
		result, extractErr := s.source.ExtractIngredients(ctx, name)
		if extractErr != nil || result == nil || len(result.Ingredients) == 0 {
			if extractErr != nil {
				slog.Warn("Ingredient extraction failed", "product", name, "error", extractErr)
			}
			return s.fallbackAnalysis(name, "no ingredient data available for analysis"), nil
		}
		ingredients = result.Ingredients
		session = NewRatingSession(result.TableRatings)
	}

	valid := make([]string, 0, len(ingredients))
	for _, candidate := range ingredients {
		if ingredient.IsValid(candidate) {
			valid = append(valid, candidate)
		}
	}
	if len(valid) == 0 {
		return s.fallbackAnalysis(name, "no valid ingredients found after filtering"), nil
	}

	slog.Info("Analyzing ingredients", "product", name, "count", len(valid))

	reports := s.resolveAll(ctx, valid, session)
	if ctx.Err() != nil {
		return s.fallbackAnalysis(name, "analysis cancelled"), nil
	}
	if len(reports) == 0 {
		return s.fallbackAnalysis(name, "unable to analyze any ingredients"), nil
	}

	scoreSum := 0
	allergenSet := map[string]bool{}
	for _, report := range reports {
		scoreSum += report.SafetyScore
		for _, a := range report.Allergens {
			allergenSet[a] = true
		}
	}
	overall := round2(float64(scoreSum) / float64(len(reports)))

	if !cached {
		record := &domain.ProductRecord{
			Name:        name,
			Ingredients: valid,
			SafetyScore: overall,
			Category:    productCategory,
		}
		if putErr := s.repo.Put(ctx, record); putErr != nil {
			slog.Warn("Failed to cache product", "product", name, "error", putErr)
		}
	}

	analysis := &domain.ProductAnalysis{
		ProductName:         name,
		IngredientsAnalysis: reports,
		OverallSafetyScore:  overall,
		RiskSummary:         s.summarize(ctx, name, valid, overall),
		AllergenWarnings:    sortedKeys(allergenSet),
	}
	analysis.Alternatives = s.collectAlternatives(ctx, analysis)

	return analysis, nil
}

// ClearCache removes every cached product record.
func (s *AnalyzerService) ClearCache(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// resolveAll resolves each valid ingredient with bounded parallelism,
// reassembling results in the original ingredient order. Per-ingredient
// failures are skipped, not fatal to the batch.
func (s *AnalyzerService) resolveAll(ctx context.Context, names []string, session *RatingSession) []domain.IngredientReport {
	slots := make([]*domain.IngredientReport, len(names))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, name := range names {
		g.Go(func() error {
			report, err := s.resolver.Resolve(gCtx, name, session)
			if err != nil {
				slog.Warn("Skipping ingredient", "ingredient", name, "error", err)
				return nil
			}
			slots[i] = &report
			return nil
		})
	}
	_ = g.Wait()

	reports := make([]domain.IngredientReport, 0, len(names))
	for _, slot := range slots {
		if slot != nil {
			reports = append(reports, *slot)
		}
	}
	return reports
}

// summarize asks the narrative collaborator for a prose summary, substituting
// a templated one when the collaborator is absent or erroring.
func (s *AnalyzerService) summarize(ctx context.Context, name string, ingredients []string, score float64) string {
	if s.narrative != nil {
		summary, err := s.narrative.Summarize(ctx, name, ingredients, score)
		if err == nil && strings.TrimSpace(summary) != "" {
			return strings.TrimSpace(summary)
		}
		if err != nil && !errors.Is(err, domain.ErrNarrativeUnavailable) {
			slog.Warn("Narrative summary failed", "product", name, "error", err)
		}
	}
	return fmt.Sprintf("Product safety score: %.1f/10. Manual review recommended.", score)
}

// collectAlternatives combines best-effort narrative suggestions with up to
// two safer cached products, excluding the analyzed product itself.
func (s *AnalyzerService) collectAlternatives(ctx context.Context, analysis *domain.ProductAnalysis) []domain.Alternative {
	var alternatives []domain.Alternative

	if s.narrative != nil {
		suggested, err := s.narrative.SuggestAlternatives(ctx, analysis)
		if err != nil && !errors.Is(err, domain.ErrNarrativeUnavailable) {
			slog.Warn("Narrative alternatives failed", "product", analysis.ProductName, "error", err)
		}
		alternatives = append(alternatives, suggested...)
	}

	cachedAlts, err := s.repo.Alternatives(ctx, analysis.OverallSafetyScore, analysis.ProductName, 2)
	if err != nil {
		slog.Warn("Cached alternatives lookup failed", "product", analysis.ProductName, "error", err)
		return alternatives
	}
	for _, record := range cachedAlts {
		alternatives = append(alternatives, domain.Alternative{
			Name:      record.Name,
			WhyBetter: fmt.Sprintf("Previously analyzed product with safety score %.1f/10", record.SafetyScore),
			Source:    "cache",
		})
	}

	return alternatives
}

// fallbackAnalysis is the absorbing state of the cascade: a valid analysis
// with a neutral score and the failure reason embedded in the summary.
func (s *AnalyzerService) fallbackAnalysis(name, reason string) *domain.ProductAnalysis {
	slog.Warn("Returning fallback analysis", "product", name, "reason", reason)
	return &domain.ProductAnalysis{
		ProductName:         name,
		IngredientsAnalysis: []domain.IngredientReport{},
		OverallSafetyScore:  5.0,
		RiskSummary:         "Unable to complete analysis: " + reason,
		AllergenWarnings:    []string{},
		Alternatives:        []domain.Alternative{},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
