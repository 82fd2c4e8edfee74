package domain

// OverallTier is the source data's coarse qualitative label for an ingredient.
type OverallTier string

const (
	TierSuperstar OverallTier = "Superstar"
	TierGoodie    OverallTier = "Goodie"
	TierIcky      OverallTier = "Icky"
	TierUnknown   OverallTier = "Unknown"
)

// RiskLevel is the three-band classification derived from a safety score.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "Safe"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Source identifies which data tier produced an ingredient report.
type Source string

const (
	SourceTableCache      Source = "table_cache"      // rating table scraped from the product page
	SourcePageHeuristic   Source = "page_heuristic"   // dedicated ingredient page (table or text analysis)
	SourceKeywordFallback Source = "keyword_fallback" // static keyword classification
)

// RawRating carries the source site's 0-5 ratings for one ingredient,
// as extracted from a structured rating table.
type RawRating struct {
	Irritancy      int         `json:"irritancy"`
	Comedogenicity int         `json:"comedogenicity"`
	OverallTier    OverallTier `json:"overallRating"`
	Function       string      `json:"function"`
}

// IngredientReport is the resolved safety record for a single ingredient.
type IngredientReport struct {
	Name        string    `json:"name"`
	SafetyScore int       `json:"safetyScore"` // 0-10, lower is safer
	RiskLevel   RiskLevel `json:"riskLevel"`
	Allergens   []string  `json:"allergens"`
	Benefits    string    `json:"benefits"`
	Risks       string    `json:"risks"`
	SkinTypes   []string  `json:"skinTypes"`
	Source      Source    `json:"source"`

	// Raw source ratings, kept for transparency when a table was found.
	Irritancy      int         `json:"irritancy"`
	Comedogenicity int         `json:"comedogenicity"`
	OverallTier    OverallTier `json:"overallRating"`
}

// IngredientPage is the raw material scraped from an ingredient's detail page.
// The resolver turns it into an IngredientReport.
type IngredientPage struct {
	HasTable bool      // a structured rating table was found
	Rating   RawRating // populated when HasTable is true
	Function string
	Benefits string
	PageText string // full lowercased page text for keyword analysis
}

// ExtractionResult is what the ingredient source yields for one product:
// the ordered ingredient list plus any per-ingredient ratings harvested from
// a rating table on the same page.
type ExtractionResult struct {
	Ingredients  []string
	TableRatings map[string]RawRating
}

// Alternative is a loosely structured product suggestion.
type Alternative struct {
	Name              string `json:"name"`
	Brand             string `json:"brand,omitempty"`
	WhyBetter         string `json:"whyBetter,omitempty"`
	KeyIngredients    string `json:"keyIngredients,omitempty"`
	SafetyImprovement string `json:"safetyImprovement,omitempty"`
	Source            string `json:"source,omitempty"`
}

// ProductAnalysis is the full pipeline output for one request.
// It is constructed fresh per request and never mutated after return.
type ProductAnalysis struct {
	ProductName         string             `json:"productName"`
	IngredientsAnalysis []IngredientReport `json:"ingredientsAnalysis"`
	OverallSafetyScore  float64            `json:"overallSafetyScore"`
	RiskSummary         string             `json:"riskSummary"`
	AllergenWarnings    []string           `json:"allergenWarnings"`
	Alternatives        []Alternative      `json:"alternatives"`
}
