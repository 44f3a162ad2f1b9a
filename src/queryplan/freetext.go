package queryplan

import (
	"strings"
	"unicode"
)

// unitAliases canonicalizes the unit part of quantity tokens so that
// "300 gr", "300gr" and "300g" all compare equal.
var unitAliases = map[string]string{
	"g":      "g",
	"gr":     "g",
	"gram":   "g",
	"gramy":  "g",
	"grams":  "g",
	"kg":     "kg",
	"kilo":   "kg",
	"mg":     "mg",
	"l":      "l",
	"ltr":    "l",
	"ml":     "ml",
	"m":      "m",
	"mm":     "mm",
	"cm":     "cm",
	"szt":    "pcs",
	"pc":     "pcs",
	"pcs":    "pcs",
	"sztuk":  "pcs",
	"sztuki": "pcs",
}

// canonicalText folds the input and rejoins quantity tokens: digits followed
// by a unit word (with or without whitespace between them) become one
// "<number><unit>" token with the unit canonicalized.
func canonicalText(s string) string {
	words := strings.Fields(foldKey(s))

	var tokens []string
	for i := 0; i < len(words); i++ {
		w := words[i]

		// "300g" / "120mm" glued forms
		if num, unit, ok := splitQuantity(w); ok {
			tokens = append(tokens, num+canonicalUnit(unit))
			continue
		}

		// "300 g" split forms
		if isDigits(w) && i+1 < len(words) {
			if alias, ok := unitAliases[words[i+1]]; ok {
				tokens = append(tokens, w+alias)
				i++
				continue
			}
		}
		tokens = append(tokens, w)
	}
	return strings.Join(tokens, " ")
}

// MatchText reports whether every word of the free-text query appears in the
// candidate text. Matching is case-insensitive, diacritic-insensitive, and
// quantity-token normalized; a multi-word query is an AND, not an OR.
func MatchText(query, candidate string) bool {
	canonical := canonicalText(candidate)
	for _, word := range strings.Fields(canonicalText(query)) {
		if !strings.Contains(canonical, word) {
			return false
		}
	}
	return true
}

// MatchFields matches the query against the concatenation of several field
// values, so a multi-word query may span fields.
func MatchFields(query string, values ...string) bool {
	return MatchText(query, strings.Join(values, " "))
}

func splitQuantity(w string) (num, unit string, ok bool) {
	i := 0
	for i < len(w) && w[i] >= '0' && w[i] <= '9' {
		i++
	}
	if i == 0 || i == len(w) {
		return "", "", false
	}
	rest := w[i:]
	if _, known := unitAliases[rest]; !known {
		return "", "", false
	}
	return w[:i], rest, true
}

func canonicalUnit(unit string) string {
	if alias, ok := unitAliases[unit]; ok {
		return alias
	}
	return unit
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
