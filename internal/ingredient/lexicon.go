package ingredient

// Keyword and phrase tables driving validation, fallback scoring, and
// allergen detection. Kept as data separate from the control logic so they
// can be tested and tuned independently.

// artifactPhrases are scraping artifacts (navigation, disclaimers, label
// boilerplate) that disqualify a candidate outright.
var artifactPhrases = []string{
	"click here", "know more", "read more", "see more", "view all", "show more",
	"expand", "collapse", "full list", "ingredients:", "http", "www.", ".com",
	"in this case", "such as", "if this sentence", "another peptide", "for example",
	"as mentioned", "see above", "note that", "please note", "important",
	"disclaimer", "warning", "caution", "may contain", "does not contain",
	"free from", "without", "includes", "contains", "made with", "formulated with",
}

// sentenceIndicators are tokens that, surrounded by spaces, mark a prose
// fragment rather than a nominal chemical name.
var sentenceIndicators = []string{
	" is ", " are ", " was ", " were ", " the ", " and ", " or ", " but ",
	" if ", " when ", " where ", " what ", " how ", " why ", " because ",
	" since ", " although ", " however ", " therefore ", " moreover ",
}

var invalidStarts = []string{"and ", "or ", "but ", "if ", "when ", "the ", "a ", "an "}

var invalidEnds = []string{" and", " or", " but", " if", " when", " the", " is", " are"}

// cellArtifactPhrases disqualify scraped list/table cell text.
var cellArtifactPhrases = []string{
	"click here", "read more", "learn more", "see full", "view all",
	"ingredients list", "full ingredients", "complete list", "product details",
	"how to use", "directions", "warnings", "precautions", "storage",
	"made in", "manufactured", "distributed by", "net weight", "volume",
	"expiry date", "best before", "use by", "batch number", "lot number",
}

var commonFunctionWords = []string{
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
}

// ubiquitousIngredients short-circuit cell validation for names that appear
// in nearly every cosmetic formula.
var ubiquitousIngredients = []string{
	"aqua", "water", "glycerin", "dimethicone", "cyclopentasiloxane",
	"phenoxyethanol", "tocopherol", "retinol", "niacinamide", "ceramide",
}

// riskKeywordWeights score descriptive ingredient-page text when no rating
// table is available. Positive weights raise the safety score (riskier),
// negative weights lower it.
var riskKeywordWeights = map[string]int{
	"irritant":     2,
	"sensitizer":   2,
	"allergen":     3,
	"comedogenic":  2,
	"fragrance":    3,
	"alcohol":      2,
	"preservative": 1,
	"safe":         -1,
	"gentle":       -1,
	"natural":      -1,
}

// textAllergenKeywords are the risk keywords that also imply an allergen tag.
var textAllergenKeywords = map[string]bool{
	"irritant":   true,
	"sensitizer": true,
	"allergen":   true,
}

// knownAllergens maps ingredient-name substrings to allergen categories.
// Applied at every resolution tier.
var knownAllergens = map[string]string{
	"fragrance":     "fragrance",
	"parfum":        "fragrance",
	"formaldehyde":  "formaldehyde",
	"parabens":      "parabens",
	"sulfates":      "sulfates",
	"alcohol denat": "drying alcohol",
}

// fallbackBucket assigns a safety score to any ingredient whose name contains
// one of the listed substrings. Buckets are checked in order.
type fallbackBucket struct {
	substrings []string
	score      int
}

var fallbackBuckets = []fallbackBucket{
	{[]string{"water", "aqua"}, 0},
	{[]string{"glycerin", "hyaluronic", "sodium hyaluronate", "ceramide"}, 1},
	{[]string{"squalane", "panthenol", "allantoin", "betaine"}, 1},
	{[]string{"niacinamide", "vitamin e", "tocopherol"}, 2},
	{[]string{"salicylic acid", "lactic acid", "glycolic acid"}, 3},
}

// gentleBotanicals keep plant oils/extracts at the lower end of their band.
var gentleBotanicals = []string{"chamomile", "aloe", "green tea"}

var retinoidNames = []string{"retinol", "retinyl", "retinoic", "tretinoin"}

var mildPreservatives = []string{"phenoxyethanol", "benzyl alcohol", "potassium sorbate"}

var parabenPreservatives = []string{"parabens", "methylparaben", "propylparaben"}

var fragranceAlcohols = []string{"fragrance", "parfum", "alcohol denat", "denatured alcohol"}

var formaldehydeReleasers = []string{"formaldehyde", "dmdm hydantoin", "quaternium-15"}

var peroxides = []string{"benzoyl peroxide", "hydrogen peroxide"}
