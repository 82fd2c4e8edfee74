// Package inci scrapes ingredient data from an INCIdecoder-style source
// site: product search, product ingredient lists, and per-ingredient detail
// pages with their 0-5 rating tables.
package inci

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/dermalens/backend/internal/domain"
	"github.com/dermalens/backend/internal/infrastructure/metrics"
)

const userAgent = "DermaLens/1.0 (ingredient safety analyzer)"

// maxProductLinks bounds how many search hits are tried before giving up.
const maxProductLinks = 3

// Client fetches and parses pages from the ingredient source site. Requests
// are rate limited, carry a fixed User-Agent, and are attempted exactly once;
// any failure is treated as "no data" by the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a source client. timeout applies per request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	// Stay well under the site's tolerance: 1 request/sec sustained.
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    limiter,
	}
}

// fetchDocument executes one rate-limited GET and parses the body as HTML.
func (c *Client) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ScrapeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrScrapeFailure, err)
	}
	defer resp.Body.Close()

	metrics.ScrapeRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrScrapeFailure, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return doc, nil
}

// ExtractIngredients searches the source for the product and extracts its
// ingredient list from the first matching product page, along with any
// per-ingredient rating table found there. Extraction degrades rather than
// fails: fewer (possibly zero) ingredients are returned when pages are thin.
func (c *Client) ExtractIngredients(ctx context.Context, productName string) (*domain.ExtractionResult, error) {
	params := url.Values{}
	params.Set("query", productName)
	searchURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	slog.Debug("Searching ingredient source", "product", productName, "url", searchURL)
	doc, err := c.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	links := c.productLinks(doc)
	slog.Debug("Search returned product links", "product", productName, "count", len(links))

	best := &domain.ExtractionResult{TableRatings: map[string]domain.RawRating{}}
	for i, link := range links {
		if i >= maxProductLinks {
			break
		}

		pageDoc, fetchErr := c.fetchDocument(ctx, link)
		if fetchErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Debug("Product page fetch failed", "url", link, "error", fetchErr)
			continue
		}

		result := &domain.ExtractionResult{
			Ingredients:  extractIngredientNames(pageDoc),
			TableRatings: productTableRatings(pageDoc),
		}
		if len(result.Ingredients) > 2 {
			slog.Debug("Extracted ingredients", "url", link, "count", len(result.Ingredients))
			return result, nil
		}
		if len(result.Ingredients) > len(best.Ingredients) {
			best = result
		}
	}

	return best, nil
}

// LookupIngredient fetches one ingredient's dedicated detail page.
func (c *Client) LookupIngredient(ctx context.Context, ingredientName string) (*domain.IngredientPage, error) {
	slug := ingredientSlug(ingredientName)
	pageURL := fmt.Sprintf("%s/ingredients/%s", c.baseURL, slug)

	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return parseIngredientPage(doc), nil
}

// productLinks harvests product detail links from a search result page,
// falling back to ingredient links when no product pages matched.
func (c *Client) productLinks(doc *goquery.Document) []string {
	links := c.collectLinks(doc, "/products/")
	if len(links) == 0 {
		links = c.collectLinks(doc, "/ingredient")
	}
	return links
}

func (c *Client) collectLinks(doc *goquery.Document, pathFragment string) []string {
	seen := map[string]bool{}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !strings.Contains(href, pathFragment) {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = c.baseURL + href
		}
		if !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
	})
	return links
}

// ingredientSlug converts an ingredient name to the source's URL slug form.
func ingredientSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.NewReplacer(" ", "-", "(", "", ")", "").Replace(slug)
	return slug
}
