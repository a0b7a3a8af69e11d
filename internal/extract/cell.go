// Package extract recovers structured client records from the raw text
// cells of agenda tables. Cells mix names, phone numbers and visit dates in
// no fixed format; everything here is tolerant by construction.
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Plausible phone length after stripping separators. French mobiles are 10
// digits; international forms run longer.
const (
	minPhoneDigits = 9
	maxPhoneDigits = 15
)

// phonePatterns are tried in order, most specific first.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`0\d{9}`),                                // 0XXXXXXXXX
	regexp.MustCompile(`0\d(?:[\s.\-]?\d{2}){4}`),               // 0X XX XX XX XX
	regexp.MustCompile(`\+\d{2}[\s.\-]?\d(?:[\s.\-]?\d{2}){4}`), // +33 X XX XX XX XX
	regexp.MustCompile(`\+?\d{2,4}(?:[\s.\-]?\d{2,4}){2,4}`),    // loose international
	regexp.MustCompile(`\d{9,}`),                                // bare digit run
}

var (
	clientSplitRe = regexp.MustCompile(`[\n\r;]+`)
	numericOnlyRe = regexp.MustCompile(`^[\d\s/.\-]+$`)
	dateLeadRe    = regexp.MustCompile(`^\d{1,2}[/.\-]\d{1,2}`)
	punctRe       = regexp.MustCompile(`[^\p{L}\p{N}\s\-]`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// CellIdentity is the tentative (name, phone) pair recovered from one cell.
type CellIdentity struct {
	Name  string
	Phone string
}

// SplitClients separates multiple clients written into the same cell.
// Agendas separate them with line breaks or semicolons.
func SplitClients(cell string) []string {
	parts := clientSplitRe.Split(cell, -1)
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseCell extracts a tentative identity from one cell fragment. The second
// return value is false when the fragment yields neither a name nor a phone,
// in which case it contributes no record.
func ParseCell(text string) (CellIdentity, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return CellIdentity{}, false
	}

	rest, phone := ExtractPhone(text)
	name := cleanName(rest)

	if name == "" && phone == "" {
		return CellIdentity{}, false
	}
	return CellIdentity{Name: name, Phone: phone}, true
}

// ExtractPhone finds the first plausible phone number in text, returning the
// text with the number removed and the normalized (digits-only) number.
func ExtractPhone(text string) (rest string, phone string) {
	for _, pattern := range phonePatterns {
		loc := pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		candidate := NormalizePhone(text[loc[0]:loc[1]])
		if candidate == "" {
			continue
		}
		return strings.TrimSpace(text[:loc[0]] + " " + text[loc[1]:]), candidate
	}
	return text, ""
}

// NormalizePhone strips separators and keeps the result only when its digit
// count falls in the plausible phone range.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return ""
	}
	return digits
}

// cleanName strips punctuation and leftover date fragments from the text
// remaining after phone removal, and title-cases the result. Returns ""
// when nothing name-like survives.
func cleanName(text string) string {
	text = punctRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(strings.TrimSpace(text), " ")

	if !looksLikeName(text) {
		return ""
	}

	words := strings.Fields(text)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// looksLikeName rejects fragments that are dates, bare numbers, or too
// short to be a person.
func looksLikeName(text string) bool {
	if len([]rune(text)) < 2 {
		return false
	}
	if numericOnlyRe.MatchString(text) {
		return false
	}
	if dateLeadRe.MatchString(text) {
		return false
	}
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	upper := true
	for i, r := range runes {
		if upper && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			upper = false
		}
		if r == '-' {
			upper = true // hyphenated names: Jean-Pierre
		}
	}
	return string(runes)
}
