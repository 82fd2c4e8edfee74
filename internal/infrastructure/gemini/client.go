package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dermalens/backend/internal/domain"
)

const maxPromptIngredients = 5

// Client talks to the Google Generative Language REST API
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient creates a Gemini API client. An empty apiKey yields a client whose
// operations return ErrNarrativeUnavailable.
func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends a single-turn prompt and returns the first candidate's text
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", domain.ErrNarrativeUnavailable
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNarrativeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d, body: %s", domain.ErrNarrativeUnavailable, resp.StatusCode, string(respBody))
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(generated.Candidates) == 0 || len(generated.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidate list", domain.ErrNarrativeUnavailable)
	}

	return strings.TrimSpace(generated.Candidates[0].Content.Parts[0].Text), nil
}

// Summarize generates a short user-facing assessment of the analyzed product
func (c *Client) Summarize(ctx context.Context, productName string, ingredients []string, safetyScore float64) (string, error) {
	prompt := fmt.Sprintf(`Create a brief, user-friendly summary for the skincare product %q with these ingredients: %s.
The overall safety score is %.1f (0-10 scale, lower is safer).

Provide practical advice in 2-3 sentences about whether this product is recommended and why.`,
		productName, strings.Join(ingredients, ", "), safetyScore)

	return c.generate(ctx, prompt)
}

// SuggestAlternatives asks for up to three safer commercial products matching
// the analyzed product's purpose.
func (c *Client) SuggestAlternatives(ctx context.Context, analysis *domain.ProductAnalysis) ([]domain.Alternative, error) {
	if !c.Configured() {
		return nil, domain.ErrNarrativeUnavailable
	}

	var safe, risky []domain.IngredientReport
	for _, report := range analysis.IngredientsAnalysis {
		switch {
		case report.SafetyScore <= 3:
			safe = append(safe, report)
		case report.SafetyScore >= 6:
			risky = append(risky, report)
		}
	}

	concerns := "None"
	if len(analysis.AllergenWarnings) > 0 {
		concerns = strings.Join(analysis.AllergenWarnings, ", ")
	}

	prompt := fmt.Sprintf(`Analyze this skincare product and suggest 3 better alternatives:

**Current Product:** %s
**Overall Safety Score:** %.1f/10 (lower is safer)
**Main Concerns:** %s

**Safe Ingredients (keep these):**
%s

**Risky Ingredients (avoid these):**
%s

**Product Function:** Based on the ingredients, this appears to be a %s

Please suggest 3 alternative products that:
1. Serve the same purpose as the original product
2. Include similar beneficial ingredients from the "safe" list
3. Avoid or minimize the risky ingredients
4. Have better overall safety profiles
5. Are actual commercial products available in the market

Format each suggestion as:
**Product Name:** [Actual product name]
**Brand:** [Brand name]
**Why it's better:** [Brief explanation of why it's safer]
**Key safe ingredients:** [List 3-4 main beneficial ingredients]
**Safety improvement:** [What risky ingredients it avoids]

Only suggest real, commercially available products that you're confident exist.`,
		analysis.ProductName,
		analysis.OverallSafetyScore,
		concerns,
		formatIngredientsForPrompt(safe),
		formatIngredientsForPrompt(risky),
		productType(analysis.IngredientsAnalysis))

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	alternatives := parseAlternatives(text)
	slog.Debug("Parsed narrative alternatives", "product", analysis.ProductName, "count", len(alternatives))
	return alternatives, nil
}

func formatIngredientsForPrompt(reports []domain.IngredientReport) string {
	if len(reports) == 0 {
		return "None"
	}

	if len(reports) > maxPromptIngredients {
		reports = reports[:maxPromptIngredients]
	}
	lines := make([]string, 0, len(reports))
	for _, r := range reports {
		lines = append(lines, fmt.Sprintf("- %s (Score: %d/10) - %s", r.Name, r.SafetyScore, r.Benefits))
	}
	return strings.Join(lines, "\n")
}

// productType infers a coarse product category from ingredient names for the
// alternatives prompt.
func productType(reports []domain.IngredientReport) string {
	names := make([]string, 0, len(reports))
	for _, r := range reports {
		names = append(names, strings.ToLower(r.Name))
	}

	has := func(substr string) bool {
		for _, n := range names {
			if strings.Contains(n, substr) {
				return true
			}
		}
		return false
	}

	if has("oil") && (has("sunflower") || has("jojoba") || has("argan")) {
		return "facial or body oil/serum"
	}
	if has("acid") {
		return "exfoliating treatment or serum"
	}
	if has("sunscreen") || has("spf") {
		return "sunscreen or UV protection product"
	}
	if has("glycerin") && (has("cream") || has("moistur")) {
		return "moisturizer or hydrating cream"
	}
	if has("fragrance") || has("parfum") {
		return "scented cosmetic product"
	}
	return "skincare product"
}
