package service

import (
	"strings"
	"unicode"
)

// legalSuffixes are stripped from the end of canonical names. Order matters:
// longer forms first so "pty ltd" is removed before "ltd" alone.
var legalSuffixes = []string{"pty ltd", "ltd", "inc", "llc"}

// Canonicalize reduces a free-text counterparty name to a comparable key:
// lowercase, punctuation stripped, whitespace collapsed, legal-entity
// suffixes and a leading "the" removed. Pure and total: empty in, empty out.
func Canonicalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	key := strings.Join(strings.Fields(b.String()), " ")

	for changed := true; changed; {
		changed = false
		for _, suffix := range legalSuffixes {
			if key == suffix {
				key = ""
				changed = true
			} else if strings.HasSuffix(key, " "+suffix) {
				key = strings.TrimSuffix(key, " "+suffix)
				changed = true
			}
		}
		if key == "the" {
			key = ""
			changed = true
		} else if strings.HasPrefix(key, "the ") {
			key = strings.TrimPrefix(key, "the ")
			changed = true
		}
	}
	return strings.TrimSpace(key)
}

// Similarity scores two names with a token-set Jaccard ratio over their
// canonical tokens. Symmetric, bounded in [0,1], and 1.0 for names that
// canonicalize identically. Either side empty scores 0.
func Similarity(a, b string) float64 {
	ta := tokenSet(Canonicalize(a))
	tb := tokenSet(Canonicalize(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	intersection := 0
	for tok := range ta {
		if tb[tok] {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(canonical string) map[string]bool {
	tokens := strings.Fields(canonical)
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}
