package inci

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dermalens/backend/internal/domain"
)

// maxTableNameLength rejects table rows whose first cell is clearly not an
// ingredient name.
const maxTableNameLength = 50

var (
	ratingDigitRegex      = regexp.MustCompile(`\b([0-5])\b`)
	functionClassRegex    = regexp.MustCompile(`(?i)function|type|category`)
	descriptionClassRegex = regexp.MustCompile(`(?i)description|benefit|what-it-does`)
)

// productTableRatings extracts per-ingredient ratings from an ingredient
// table on a product page: first column is the ingredient name, second its
// function, remaining columns hold 0-5 ratings and the overall tier word.
func productTableRatings(doc *goquery.Document) map[string]domain.RawRating {
	ratings := map[string]domain.RawRating{}

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return true
		}

		if !looksLikeIngredientTable(rows.First()) {
			return true
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td, th")
			if cells.Length() < 3 {
				return
			}

			name := strings.TrimSpace(cells.Eq(0).Text())
			if name == "" || len(name) > maxTableNameLength {
				return
			}

			rating := domain.RawRating{
				Function:    strings.TrimSpace(cells.Eq(1).Text()),
				OverallTier: domain.TierUnknown,
			}

			cells.Slice(2, cells.Length()).Each(func(offset int, cell *goquery.Selection) {
				text := strings.TrimSpace(cell.Text())
				if m := ratingDigitRegex.FindStringSubmatch(text); m != nil {
					value, _ := strconv.Atoi(m[1])
					switch offset {
					case 0:
						rating.Irritancy = value
					case 1:
						rating.Comedogenicity = value
					}
				}
				if tier, ok := parseTier(text); ok {
					rating.OverallTier = tier
				}
			})

			ratings[name] = rating
		})

		// First plausible table wins.
		return len(ratings) == 0
	})

	return ratings
}

// looksLikeIngredientTable checks the header row for the expected columns.
func looksLikeIngredientTable(headerRow *goquery.Selection) bool {
	var headers []string
	headerRow.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.ToLower(strings.TrimSpace(cell.Text())))
	})

	hasIngredientCol := headersContain(headers, "ingredient", "name")
	hasFunctionCol := headersContain(headers, "what", "function", "does")
	hasRatingCol := headersContain(headers, "rating", "irr", "com")

	return hasIngredientCol || (hasFunctionCol && hasRatingCol)
}

func headersContain(headers []string, terms ...string) bool {
	for _, h := range headers {
		for _, term := range terms {
			if strings.Contains(h, term) {
				return true
			}
		}
	}
	return false
}

func parseTier(text string) (domain.OverallTier, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "superstar"):
		return domain.TierSuperstar, true
	case strings.Contains(lower, "goodie"):
		return domain.TierGoodie, true
	case strings.Contains(lower, "icky"):
		return domain.TierIcky, true
	default:
		return domain.TierUnknown, false
	}
}

// parseIngredientPage pulls structured rating rows, function/benefit text,
// and the full page text out of an ingredient detail page.
func parseIngredientPage(doc *goquery.Document) *domain.IngredientPage {
	page := &domain.IngredientPage{}

	doc.Find("span, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		if !ok || !functionClassRegex.MatchString(class) {
			return true
		}
		text := strings.TrimSpace(s.Text())
		if text == "" || len(text) >= 100 {
			return true
		}
		page.Function = text
		return false
	})

	doc.Find("p, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		if !ok || !descriptionClassRegex.MatchString(class) {
			return true
		}
		text := strings.TrimSpace(s.Text())
		if len(text) <= 20 {
			return true
		}
		if len(text) > 300 {
			text = text[:300]
		}
		page.Benefits = text
		return false
	})

	rating, found := keyValueRatings(doc)
	if found {
		rating.Function = page.Function
		page.HasTable = true
		page.Rating = rating
	}

	doc.Find("script, style, noscript").Remove()
	page.PageText = strings.ToLower(strings.Join(strings.Fields(doc.Text()), " "))

	return page
}

// keyValueRatings reads rating tables laid out as header/value row pairs
// (irritancy, comedogenicity, overall assessment).
func keyValueRatings(doc *goquery.Document) (domain.RawRating, bool) {
	rating := domain.RawRating{OverallTier: domain.TierUnknown}
	found := false

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}

		header := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		value := strings.TrimSpace(cells.Eq(1).Text())

		switch {
		case strings.Contains(header, "irrit"):
			if m := ratingDigitRegex.FindStringSubmatch(value); m != nil {
				rating.Irritancy, _ = strconv.Atoi(m[1])
				found = true
			}
		case strings.Contains(header, "comedogenic"), strings.Contains(header, "acne"), strings.Contains(header, "pore"):
			if m := ratingDigitRegex.FindStringSubmatch(value); m != nil {
				rating.Comedogenicity, _ = strconv.Atoi(m[1])
				found = true
			}
		case strings.Contains(header, "rating"), strings.Contains(header, "overall"), strings.Contains(header, "assessment"):
			if tier, ok := parseTier(value); ok {
				rating.OverallTier = tier
				found = true
			}
		}
	})

	// Zero-valued rows alone are not evidence of a rating table.
	if rating.Irritancy == 0 && rating.Comedogenicity == 0 && rating.OverallTier == domain.TierUnknown {
		return rating, false
	}
	return rating, found
}
