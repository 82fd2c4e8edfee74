package gemini

import (
	"regexp"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

const maxAlternatives = 3

var numberedItemRegex = regexp.MustCompile(`\d+\.\s*([^\n]+)`)

// parseAlternatives extracts structured product suggestions from model output.
// The structured **Product Name:** format is tried first, then a numbered-list
// fallback.
func parseAlternatives(text string) []domain.Alternative {
	alternatives := parseStructured(text)
	if len(alternatives) == 0 {
		alternatives = parseNumbered(text)
	}
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}
	return alternatives
}

func parseStructured(text string) []domain.Alternative {
	sections := strings.Split(text, "**Product Name:**")
	if len(sections) < 2 {
		return nil
	}

	var alternatives []domain.Alternative
	for _, section := range sections[1:] {
		lines := strings.Split(strings.TrimSpace(section), "\n")
		if len(lines) == 0 {
			continue
		}

		name := strings.TrimSpace(strings.ReplaceAll(lines[0], "*", ""))
		if len(name) <= 3 {
			continue
		}

		alternative := domain.Alternative{
			Name:   name,
			Source: "gemini",
		}

		field := ""
		var pending []string
		flush := func() {
			if field == "" || len(pending) == 0 {
				return
			}
			value := strings.TrimSpace(strings.Join(pending, " "))
			switch field {
			case "brand":
				alternative.Brand = value
			case "why it's better":
				alternative.WhyBetter = value
			case "key safe ingredients":
				alternative.KeyIngredients = value
			case "safety improvement":
				alternative.SafetyImprovement = value
			}
		}

		for _, raw := range lines[1:] {
			line := strings.TrimSpace(raw)
			if name, value, ok := splitFieldLine(line); ok {
				flush()
				field = name
				pending = nil
				if value != "" {
					pending = append(pending, value)
				}
				continue
			}
			if line != "" && field != "" {
				pending = append(pending, line)
			}
		}
		flush()

		alternatives = append(alternatives, alternative)
	}
	return alternatives
}

// splitFieldLine recognizes "**Field:** value" lines and returns the
// lowercased field name and any trailing value on the same line.
func splitFieldLine(line string) (string, string, bool) {
	if !strings.HasPrefix(line, "**") || !strings.Contains(line, ":**") {
		return "", "", false
	}
	parts := strings.SplitN(line, ":**", 2)
	field := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(parts[0], "*", "")))
	value := ""
	if len(parts) == 2 {
		value = strings.TrimSpace(parts[1])
	}
	return field, value, true
}

func parseNumbered(text string) []domain.Alternative {
	matches := numberedItemRegex.FindAllStringSubmatch(text, -1)

	var alternatives []domain.Alternative
	for _, match := range matches {
		name := strings.TrimSpace(strings.ReplaceAll(match[1], "**", ""))
		if len(name) <= 3 {
			continue
		}
		alternatives = append(alternatives, domain.Alternative{
			Name:      name,
			Brand:     "Various",
			WhyBetter: "Recommended alternative with better safety profile",
			Source:    "gemini_numbered",
		})
	}
	return alternatives
}
