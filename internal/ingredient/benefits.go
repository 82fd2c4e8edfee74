package ingredient

import "strings"

// BenefitsForFunction renders a benefits sentence from the source's function
// label, falling back to the label itself for unrecognized functions.
func BenefitsForFunction(function string) string {
	lower := strings.ToLower(function)

	switch {
	case strings.Contains(lower, "sunscreen"):
		return "Provides UV protection and prevents sun damage"
	case strings.Contains(lower, "moisturizer"), strings.Contains(lower, "humectant"):
		return "Hydrates and moisturizes the skin"
	case strings.Contains(lower, "emollient"):
		return "Softens and smooths skin texture"
	case strings.Contains(lower, "solvent"):
		return "Helps dissolve other ingredients and improve texture"
	case strings.Contains(lower, "viscosity"):
		return "Improves product texture and consistency"
	case strings.Contains(lower, "skin brightening"):
		return "Helps brighten skin tone and reduce dark spots"
	case strings.Contains(lower, "anti-acne"):
		return "Helps treat and prevent acne breakouts"
	default:
		return function
	}
}

// CosmeticBenefits renders a benefits sentence from the ingredient name alone,
// for the keyword-fallback tier.
func CosmeticBenefits(name string) string {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "water"), strings.Contains(lower, "aqua"):
		return "Base ingredient that provides hydration and helps dissolve other ingredients"
	case strings.Contains(lower, "glycerin"):
		return "Powerful humectant that attracts moisture to the skin"
	case strings.Contains(lower, "acid"):
		return "May help with exfoliation and skin renewal"
	case strings.Contains(lower, "oil"):
		return "Provides moisturization and may help strengthen skin barrier"
	case strings.Contains(lower, "extract"):
		return "Plant-derived ingredient that may provide antioxidant benefits"
	default:
		return "Cosmetic ingredient with specific formulation purposes"
	}
}
