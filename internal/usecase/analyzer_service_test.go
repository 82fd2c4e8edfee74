package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dermalens/backend/internal/domain"
)

// fakeRepo is an in-memory ProductRepository for analyzer tests.
type fakeRepo struct {
	records      map[string]*domain.ProductRecord
	alternatives []domain.ProductRecord
	getErr       error
	putCalls     int
	clearCalls   int
	lastPut      *domain.ProductRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*domain.ProductRecord{}}
}

func (f *fakeRepo) Get(ctx context.Context, name string) (*domain.ProductRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if record, ok := f.records[name]; ok {
		return record, nil
	}
	return nil, domain.ErrCacheMiss
}

func (f *fakeRepo) Put(ctx context.Context, record *domain.ProductRecord) error {
	f.putCalls++
	f.lastPut = record
	f.records[record.Name] = record
	return nil
}

func (f *fakeRepo) Alternatives(ctx context.Context, maxScore float64, exclude string, limit int) ([]domain.ProductRecord, error) {
	if limit > 0 && len(f.alternatives) > limit {
		return f.alternatives[:limit], nil
	}
	return f.alternatives, nil
}

func (f *fakeRepo) Clear(ctx context.Context) error {
	f.clearCalls++
	f.records = map[string]*domain.ProductRecord{}
	return nil
}

// fakeNarrative is a scripted NarrativeClient.
type fakeNarrative struct {
	summary      string
	summaryErr   error
	alternatives []domain.Alternative
	altErr       error
}

func (f *fakeNarrative) Summarize(ctx context.Context, productName string, ingredients []string, safetyScore float64) (string, error) {
	return f.summary, f.summaryErr
}

func (f *fakeNarrative) SuggestAlternatives(ctx context.Context, analysis *domain.ProductAnalysis) ([]domain.Alternative, error) {
	return f.alternatives, f.altErr
}

func newAnalyzer(repo *fakeRepo, source *fakeSource, narrative domain.NarrativeClient) *AnalyzerService {
	return NewAnalyzerService(repo, source, narrative, AnalyzerConfig{MaxConcurrentResolves: 2})
}

func TestAnalyzeProduct_InvalidName(t *testing.T) {
	svc := newAnalyzer(newFakeRepo(), &fakeSource{}, nil)

	for _, name := range []string{"", " ", "A"} {
		_, err := svc.AnalyzeProduct(context.Background(), name)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("AnalyzeProduct(%q) error = %v, want ErrInvalidRequest", name, err)
		}
	}
}

func TestAnalyzeProduct_ExtractionFailureFallsBack(t *testing.T) {
	source := &fakeSource{extractErr: errors.New("search unavailable")}
	svc := newAnalyzer(newFakeRepo(), source, nil)

	analysis, err := svc.AnalyzeProduct(context.Background(), "Mystery Cream")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v, want nil (fallback analysis)", err)
	}

	if analysis.OverallSafetyScore != 5.0 {
		t.Errorf("OverallSafetyScore = %v, want 5.0", analysis.OverallSafetyScore)
	}
	if len(analysis.IngredientsAnalysis) != 0 {
		t.Errorf("IngredientsAnalysis = %v, want empty", analysis.IngredientsAnalysis)
	}
	if !strings.Contains(analysis.RiskSummary, "no ingredient data available") {
		t.Errorf("RiskSummary = %q, want failure reason embedded", analysis.RiskSummary)
	}
}

func TestAnalyzeProduct_AllIngredientsFilteredFallsBack(t *testing.T) {
	source := &fakeSource{
		extractResult: &domain.ExtractionResult{
			Ingredients: []string{"click here for more", "ab"},
		},
	}
	svc := newAnalyzer(newFakeRepo(), source, nil)

	analysis, err := svc.AnalyzeProduct(context.Background(), "Artifact Serum")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}

	if analysis.OverallSafetyScore != 5.0 {
		t.Errorf("OverallSafetyScore = %v, want 5.0", analysis.OverallSafetyScore)
	}
	if !strings.Contains(analysis.RiskSummary, "no valid ingredients") {
		t.Errorf("RiskSummary = %q", analysis.RiskSummary)
	}
}

func TestAnalyzeProduct_FullAnalysis(t *testing.T) {
	repo := newFakeRepo()
	source := &fakeSource{
		extractResult: &domain.ExtractionResult{
			Ingredients: []string{"Aqua", "Glycerin", "Fragrance"},
		},
		// No detail pages; every ingredient resolves via keyword fallback.
		lookupErr: errors.New("not found"),
	}
	svc := newAnalyzer(repo, source, nil)

	analysis, err := svc.AnalyzeProduct(context.Background(), "Simple Lotion")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}

	if len(analysis.IngredientsAnalysis) != 3 {
		t.Fatalf("reports = %d, want 3", len(analysis.IngredientsAnalysis))
	}

	// Reports retain the extraction order regardless of resolution order.
	wantOrder := []string{"Aqua", "Glycerin", "Fragrance"}
	for i, report := range analysis.IngredientsAnalysis {
		if report.Name != wantOrder[i] {
			t.Errorf("report[%d].Name = %q, want %q", i, report.Name, wantOrder[i])
		}
	}

	// Aqua 0, Glycerin 1, Fragrance 7 via keyword fallback.
	if analysis.OverallSafetyScore != 2.67 {
		t.Errorf("OverallSafetyScore = %v, want 2.67", analysis.OverallSafetyScore)
	}

	if len(analysis.AllergenWarnings) != 1 || analysis.AllergenWarnings[0] != "fragrance" {
		t.Errorf("AllergenWarnings = %v, want [fragrance]", analysis.AllergenWarnings)
	}

	if !strings.Contains(analysis.RiskSummary, "2.7/10") {
		t.Errorf("RiskSummary = %q, want templated summary with score", analysis.RiskSummary)
	}

	if repo.putCalls != 1 {
		t.Fatalf("putCalls = %d, want 1", repo.putCalls)
	}
	if repo.lastPut.Category != "skincare" {
		t.Errorf("cached Category = %q, want skincare", repo.lastPut.Category)
	}
	if repo.lastPut.SafetyScore != 2.67 {
		t.Errorf("cached SafetyScore = %v, want 2.67", repo.lastPut.SafetyScore)
	}
}

func TestAnalyzeProduct_CacheHitSkipsExtraction(t *testing.T) {
	repo := newFakeRepo()
	repo.records["Cached Cream"] = &domain.ProductRecord{
		Name:        "Cached Cream",
		Ingredients: []string{"Aqua", "Glycerin"},
		SafetyScore: 0.5,
		Category:    "skincare",
	}
	source := &fakeSource{lookupErr: errors.New("not found")}
	svc := newAnalyzer(repo, source, nil)

	analysis, err := svc.AnalyzeProduct(context.Background(), "Cached Cream")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}

	if source.extractCalls != 0 {
		t.Errorf("extractCalls = %d, want 0 on cache hit", source.extractCalls)
	}
	if repo.putCalls != 0 {
		t.Errorf("putCalls = %d, want 0 for already-cached product", repo.putCalls)
	}
	if len(analysis.IngredientsAnalysis) != 2 {
		t.Errorf("reports = %d, want 2", len(analysis.IngredientsAnalysis))
	}
}

func TestAnalyzeProduct_NarrativeSummaryAndAlternatives(t *testing.T) {
	repo := newFakeRepo()
	repo.alternatives = []domain.ProductRecord{
		{Name: "Safer Lotion", SafetyScore: 0.5},
		{Name: "Gentle Gel", SafetyScore: 1.0},
	}
	source := &fakeSource{
		extractResult: &domain.ExtractionResult{Ingredients: []string{"Aqua"}},
		lookupErr:     errors.New("not found"),
	}
	narrative := &fakeNarrative{
		summary: "This product is quite safe overall.",
		alternatives: []domain.Alternative{
			{Name: "CeraVe Daily Moisturizing Lotion", Brand: "CeraVe", Source: "gemini"},
		},
	}
	svc := newAnalyzer(repo, source, narrative)

	analysis, err := svc.AnalyzeProduct(context.Background(), "Water Mist")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}

	if analysis.RiskSummary != "This product is quite safe overall." {
		t.Errorf("RiskSummary = %q, want narrative summary", analysis.RiskSummary)
	}

	if len(analysis.Alternatives) != 3 {
		t.Fatalf("Alternatives = %d, want 3 (1 narrative + 2 cached)", len(analysis.Alternatives))
	}
	if analysis.Alternatives[0].Source != "gemini" {
		t.Errorf("Alternatives[0].Source = %q, want gemini first", analysis.Alternatives[0].Source)
	}
	if analysis.Alternatives[1].Name != "Safer Lotion" || analysis.Alternatives[1].Source != "cache" {
		t.Errorf("Alternatives[1] = %+v, want cached Safer Lotion", analysis.Alternatives[1])
	}
}

func TestAnalyzeProduct_NarrativeUnavailableUsesTemplate(t *testing.T) {
	source := &fakeSource{
		extractResult: &domain.ExtractionResult{Ingredients: []string{"Aqua"}},
		lookupErr:     errors.New("not found"),
	}
	narrative := &fakeNarrative{
		summaryErr: domain.ErrNarrativeUnavailable,
		altErr:     domain.ErrNarrativeUnavailable,
	}
	svc := newAnalyzer(newFakeRepo(), source, narrative)

	analysis, err := svc.AnalyzeProduct(context.Background(), "Water Mist")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}

	if analysis.RiskSummary != "Product safety score: 0.0/10. Manual review recommended." {
		t.Errorf("RiskSummary = %q, want template", analysis.RiskSummary)
	}
}

func TestAnalyzeProduct_SessionRatingsFromExtraction(t *testing.T) {
	source := &fakeSource{
		extractResult: &domain.ExtractionResult{
			Ingredients: []string{"Coconut Oil"},
			TableRatings: map[string]domain.RawRating{
				"Coconut Oil": {Irritancy: 0, Comedogenicity: 4, Function: "emollient"},
			},
		},
		lookupErr: errors.New("not found"),
	}
	svc := newAnalyzer(newFakeRepo(), source, nil)

	analysis, err := svc.AnalyzeProduct(context.Background(), "Coconut Balm")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}

	if len(analysis.IngredientsAnalysis) != 1 {
		t.Fatalf("reports = %d, want 1", len(analysis.IngredientsAnalysis))
	}
	report := analysis.IngredientsAnalysis[0]
	if report.Source != domain.SourceTableCache {
		t.Errorf("Source = %v, want %v", report.Source, domain.SourceTableCache)
	}
	if source.lookupCalls != 0 {
		t.Errorf("lookupCalls = %d, want 0 when the table rating covers the ingredient", source.lookupCalls)
	}
}

func TestClearCache(t *testing.T) {
	repo := newFakeRepo()
	svc := newAnalyzer(repo, &fakeSource{}, nil)

	if err := svc.ClearCache(context.Background()); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	if repo.clearCalls != 1 {
		t.Errorf("clearCalls = %d, want 1", repo.clearCalls)
	}
}
