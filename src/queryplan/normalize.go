// Package queryplan translates loosely expressed filtering intent (status
// synonyms, partial names, date ranges, foreign keys) into one store query
// plus locally evaluated filters, under the store's indexing constraints.
package queryplan

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks: "zakończone" -> "zakonczone".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Letters that do not decompose into base + combining mark.
var asciiFold = strings.NewReplacer("ł", "l", "Ł", "l", "ø", "o", "đ", "d")

// foldKey lowercases, strips diacritics, and collapses separator runs to a
// single space. Two tokens with the same key are treated as the same word.
func foldKey(s string) string {
	s = strings.ToLower(s)
	s = asciiFold.Replace(s)
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	var b strings.Builder
	lastSep := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if !lastSep {
			b.WriteByte(' ')
			lastSep = true
		}
	}
	return strings.TrimSpace(b.String())
}

// orderStatusSynonyms maps folded input tokens to canonical order statuses.
var orderStatusSynonyms = map[string]string{
	"planned":       "planned",
	"planowane":     "planned",
	"zaplanowane":   "planned",
	"nowe":          "planned",
	"new":           "planned",
	"in progress":   "in_progress",
	"w toku":        "in_progress",
	"w realizacji":  "in_progress",
	"realizowane":   "in_progress",
	"started":       "in_progress",
	"completed":     "completed",
	"zakonczone":    "completed",
	"ukonczone":     "completed",
	"zrealizowane":  "completed",
	"done":          "completed",
	"finished":      "completed",
	"cancelled":     "cancelled",
	"canceled":      "cancelled",
	"anulowane":     "cancelled",
}

// purchaseStatusSynonyms maps folded input tokens to canonical purchase
// statuses.
var purchaseStatusSynonyms = map[string]string{
	"draft":     "draft",
	"robocze":   "draft",
	"szkic":     "draft",
	"ordered":   "ordered",
	"zamowione": "ordered",
	"zlozone":   "ordered",
	"received":  "received",
	"otrzymane": "received",
	"przyjete":  "received",
	"delivered": "received",
	"cancelled": "cancelled",
	"canceled":  "cancelled",
	"anulowane": "cancelled",
}

// normalizeEnum maps a language-variant token to its canonical stored value.
// Unmapped tokens pass through after folding, best effort.
func normalizeEnum(table map[string]string, token string) string {
	key := foldKey(token)
	if canonical, ok := table[key]; ok {
		return canonical
	}
	return strings.ReplaceAll(key, " ", "_")
}

// NormalizeOrderStatus maps user-supplied order status wording ("Zakończone",
// "in progress") to the canonical stored value.
func NormalizeOrderStatus(token string) string {
	return normalizeEnum(orderStatusSynonyms, token)
}

// NormalizePurchaseStatus maps purchase status wording to the stored value.
func NormalizePurchaseStatus(token string) string {
	return normalizeEnum(purchaseStatusSynonyms, token)
}
