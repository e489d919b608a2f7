package theme

import "strings"

// NormalizeVariant maps a raw tint label to one of the five slots. Numeric
// scale steps, canonical names and descriptive words ("lightest",
// "Dark") are understood; anything else falls back to TintDefault.
func NormalizeVariant(label string) Tint {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return TintDefault
	}

	switch lower {
	case "50", "100":
		return TintLighter
	case "200", "300":
		return TintLight
	case "400", "500", "600":
		return TintDefault
	case "700", "800", "custom-1":
		return TintDark
	case "900", "custom-2":
		return TintDarker
	}

	for i, name := range tintNames {
		if lower == name {
			return Tint(i)
		}
	}

	intense := strings.Contains(lower, "er") || strings.Contains(lower, "est")
	if strings.Contains(lower, "light") {
		if intense {
			return TintLighter
		}
		return TintLight
	}
	if strings.Contains(lower, "dark") {
		if intense {
			return TintDarker
		}
		return TintDark
	}
	return TintDefault
}
