// Package match scores how likely two client identities are the same person.
package match

import (
	"strings"
	"unicode"
)

// PhoneBoostScore is the floor applied when two identities share a phone
// number. An exact phone match is near-decisive regardless of how the name
// was spelled on the page.
const PhoneBoostScore = 95.0

// Identity is the minimal view the scorer needs of a record or client.
type Identity struct {
	Name  string
	Phone string
}

// Score returns a similarity score in [0,100] between two identities.
// The base is a normalized Levenshtein ratio over case-folded,
// whitespace-collapsed names. When both phones are non-empty and equal the
// result is raised to at least PhoneBoostScore. Mismatched phones carry no
// penalty: name similarity alone governs. Score is symmetric and pure.
func Score(a, b Identity) float64 {
	ratio := Ratio(NormalizeName(a.Name), NormalizeName(b.Name))

	if a.Phone != "" && a.Phone == b.Phone && ratio < PhoneBoostScore {
		return PhoneBoostScore
	}
	return ratio
}

// NormalizeName lowercases a name and collapses runs of whitespace so that
// "DUPONT  Marie" and "dupont marie" compare equal.
func NormalizeName(name string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Ratio computes the Levenshtein similarity ratio between two strings,
// scaled to [0,100]. Two empty strings score 100.
func Ratio(s1, s2 string) float64 {
	r1 := []rune(s1)
	r2 := []rune(s2)

	if len(r1) == 0 && len(r2) == 0 {
		return 100.0
	}

	longest := len(r1)
	if len(r2) > longest {
		longest = len(r2)
	}

	dist := levenshtein(r1, r2)
	return (1.0 - float64(dist)/float64(longest)) * 100.0
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(r1, r2 []rune) int {
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
