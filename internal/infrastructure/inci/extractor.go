package inci

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dermalens/backend/internal/ingredient"
)

// maxExtractedIngredients caps the candidate list per product page.
const maxExtractedIngredients = 20

// minViableCount is the threshold below which the next extraction strategy
// is still tried.
const minViableCount = 3

// maxFreeTextFragments bounds how many fragments one free-text block may add.
const maxFreeTextFragments = 15

var (
	ingredientClassRegex   = regexp.MustCompile(`(?i)ingredient|inci|formula`)
	ingredientsPrefixRegex = regexp.MustCompile(`(?i)ingredients?:?\s*`)
	waterTokenRegex        = regexp.MustCompile(`(?i)\b(aqua|water)\b`)
)

// extractionStrategy is one way of harvesting candidate ingredient names
// from parsed markup. Strategies run in fixed priority order; each is only
// invoked while the accumulated candidate count is below minViableCount.
type extractionStrategy struct {
	name string
	run  func(doc *goquery.Document, acc *candidateList)
}

var extractionStrategies = []extractionStrategy{
	{"structured-containers", harvestStructuredContainers},
	{"ingredient-links", harvestIngredientLinks},
	{"list-elements", harvestListElements},
	{"free-text", harvestFreeText},
}

// extractIngredientNames runs the extraction chain against a product page.
// The result is deduplicated by first occurrence and capped; extraction never
// fails, it degrades to fewer (possibly zero) results.
func extractIngredientNames(doc *goquery.Document) []string {
	acc := newCandidateList()
	for _, strategy := range extractionStrategies {
		if acc.len() >= minViableCount {
			break
		}
		strategy.run(doc, acc)
	}
	return acc.names
}

// candidateList accumulates cleaned, validated, first-seen-deduplicated
// candidate names up to the cap.
type candidateList struct {
	names []string
	seen  map[string]bool
}

func newCandidateList() *candidateList {
	return &candidateList{seen: map[string]bool{}}
}

func (l *candidateList) len() int { return len(l.names) }

func (l *candidateList) add(raw string) {
	if len(l.names) >= maxExtractedIngredients {
		return
	}
	name := ingredient.CleanName(raw)
	if name == "" || l.seen[name] {
		return
	}
	if !ingredient.IsValidCell(name) {
		return
	}
	l.seen[name] = true
	l.names = append(l.names, name)
}

// harvestStructuredContainers pulls ingredient links out of elements whose
// class hints at an ingredient/INCI/formula section.
func harvestStructuredContainers(doc *goquery.Document, acc *candidateList) {
	doc.Find("div, section").Each(func(_ int, container *goquery.Selection) {
		class, ok := container.Attr("class")
		if !ok || !ingredientClassRegex.MatchString(class) {
			return
		}
		container.Find("a[href*='/ingredients/']").Each(func(_ int, link *goquery.Selection) {
			acc.add(link.Text())
		})
	})
}

// harvestIngredientLinks scans the whole page for ingredient detail links,
// regardless of container.
func harvestIngredientLinks(doc *goquery.Document, acc *candidateList) {
	doc.Find("a[href*='/ingredients/']").Each(func(_ int, link *goquery.Selection) {
		acc.add(link.Text())
	})
}

// harvestListElements treats any list with more than 3 items as a candidate
// ingredient enumeration.
func harvestListElements(doc *goquery.Document, acc *candidateList) {
	doc.Find("ul, ol").Each(func(_ int, list *goquery.Selection) {
		items := list.Find("li")
		if items.Length() <= 3 {
			return
		}
		items.Each(func(_ int, item *goquery.Selection) {
			acc.add(item.Text())
		})
	})
}

// harvestFreeText splits comma-separated ingredient runs out of paragraphs
// that open with a water-like token. Last-resort strategy.
func harvestFreeText(doc *goquery.Document, acc *candidateList) {
	doc.Find("p, div").Each(func(_ int, block *goquery.Selection) {
		text := strings.TrimSpace(block.Text())
		if len(text) <= 50 || !strings.Contains(text, ",") {
			return
		}
		if !waterTokenRegex.MatchString(text) {
			return
		}
		for _, fragment := range splitIngredientText(text) {
			acc.add(fragment)
		}
	})
}

// splitIngredientText breaks a prose ingredient declaration into fragments
// on the first delimiter class found among comma, semicolon, newline.
func splitIngredientText(text string) []string {
	cleaned := ingredientsPrefixRegex.ReplaceAllString(text, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if len(cleaned) < 20 {
		return nil
	}

	var fragments []string
	for _, delimiter := range []string{",", ";", "\n"} {
		if strings.Contains(cleaned, delimiter) {
			fragments = strings.Split(cleaned, delimiter)
			break
		}
	}

	if len(fragments) > maxFreeTextFragments {
		fragments = fragments[:maxFreeTextFragments]
	}
	return fragments
}
