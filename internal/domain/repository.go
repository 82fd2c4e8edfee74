package domain

import "context"

// ProductRepository defines the product cache collaborator. Put has upsert
// semantics; a prior record for the same name is replaced.
type ProductRepository interface {
	Get(ctx context.Context, name string) (*ProductRecord, error)
	Put(ctx context.Context, record *ProductRecord) error
	// Alternatives returns up to limit cached products with a safety score
	// strictly below maxScore, excluding the named product, safest first.
	Alternatives(ctx context.Context, maxScore float64, exclude string, limit int) ([]ProductRecord, error)
	Clear(ctx context.Context) error
}

// IngredientSource defines the scraping collaborator that turns a product
// name into raw ingredient data.
type IngredientSource interface {
	// ExtractIngredients resolves a product name to its ingredient list via
	// the source site's search, plus any rating table found along the way.
	ExtractIngredients(ctx context.Context, productName string) (*ExtractionResult, error)
	// LookupIngredient fetches one ingredient's dedicated detail page.
	LookupIngredient(ctx context.Context, ingredientName string) (*IngredientPage, error)
}

// NarrativeClient defines the generative-language collaborator. Both
// operations are best-effort; ErrNarrativeUnavailable means the caller should
// substitute deterministic local output.
type NarrativeClient interface {
	Summarize(ctx context.Context, productName string, ingredients []string, safetyScore float64) (string, error)
	SuggestAlternatives(ctx context.Context, analysis *ProductAnalysis) ([]Alternative, error)
}
