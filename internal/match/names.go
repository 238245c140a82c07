package match

import (
	"strings"
	"unicode"
)

// DefaultThreshold is the lowest similarity reported as a suggestion.
const DefaultThreshold = 0.75

// trailing tokens that rarely carry meaning of their own
var noiseSuffixes = map[string]struct{}{
	"id":        {},
	"ids":       {},
	"at":        {},
	"utc":       {},
	"timestamp": {},
}

// Tokens splits an identifier on separators and case changes and lowers every
// token: "customerHTTPAddress_v2" becomes [customer http address v2].
func Tokens(s string) []string {
	var (
		res     []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			res = append(res, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			flush()
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			// "orderID" splits before I, "XMLParser" splits before P
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}

		current = append(current, r)
	}

	flush()

	return res
}

// Normalize joins the tokens of s, dropping one trailing noise token such as
// "id" or "at" when other tokens remain.
func Normalize(s string) string {
	tokens := Tokens(s)

	if n := len(tokens); n > 1 {
		if _, noise := noiseSuffixes[tokens[n-1]]; noise {
			tokens = tokens[:n-1]
		}
	}

	return strings.Join(tokens, "")
}

// Closest returns the candidate most similar to name, the first one on ties.
// ok is false when no candidate reaches threshold.
func Closest(name string, candidates []string, threshold float64) (best string, score float64, ok bool) {
	for _, c := range candidates {
		if s := Similarity(name, c); s > score {
			best, score = c, s
		}
	}

	if score < threshold {
		return "", score, false
	}

	return best, score, true
}
