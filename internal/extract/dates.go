package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ramzilbs/radiance/internal/model"
)

// frenchMonths maps spelled month names and common abbreviations to month
// numbers. Keys are lowercased, accent variants included: scanned agendas
// are not consistent about them.
var frenchMonths = map[string]time.Month{
	"janvier": time.January, "janv": time.January, "jan": time.January,
	"février": time.February, "fevrier": time.February, "févr": time.February, "fevr": time.February, "fév": time.February, "fev": time.February,
	"mars": time.March, "mar": time.March,
	"avril": time.April, "avr": time.April,
	"mai": time.May,
	"juin": time.June,
	"juillet": time.July, "juil": time.July,
	"août": time.August, "aout": time.August, "aou": time.August,
	"septembre": time.September, "sept": time.September, "sep": time.September,
	"octobre": time.October, "oct": time.October,
	"novembre": time.November, "nov": time.November,
	"décembre": time.December, "decembre": time.December, "déc": time.December, "dec": time.December,
}

var (
	numericDateRe = regexp.MustCompile(`(\d{1,2})[/.\-](\d{1,2})(?:[/.\-](\d{2,4}))?`)
	spelledDateRe = regexp.MustCompile(`(?i)(\d{1,2})(?:er)?\s+([\p{L}]+)\.?\s*(\d{4})?`)
	tokenSplitRe  = regexp.MustCompile(`[,;\n\r]+`)
)

// Normalizer converts free-form date tokens into canonical calendar dates,
// tolerant of the conventions found in scanned agendas: numeric day-first,
// numeric month-first (disambiguated by values over 12), and day plus a
// spelled French month with or without a year.
type Normalizer struct {
	cfg model.DateConfig
	now time.Time
}

// NewNormalizer creates a normalizer. now is the processing instant used
// both for the default year and for the future-rollback policy.
func NewNormalizer(cfg model.DateConfig, now time.Time) *Normalizer {
	return &Normalizer{cfg: cfg, now: now}
}

// SplitTokens splits a date-bearing cell into individual date tokens.
func SplitTokens(text string) []string {
	var out []string
	for _, t := range tokenSplitRe.Split(text, -1) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Parse resolves one token into a calendar date. The second return is false
// when the token does not parse or falls outside the plausible year window;
// the enclosing record simply proceeds without the date.
func (n *Normalizer) Parse(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}

	if d, ok := n.parseSpelled(token); ok {
		return d, true
	}
	if d, ok := n.parseNumeric(token); ok {
		return d, true
	}
	return time.Time{}, false
}

// parseNumeric handles D/M/Y and M/D/Y shapes with /, . or - separators.
// Day-first is the preferred reading (French convention); a first value
// over 12 confirms it, a second value over 12 forces month-first.
func (n *Normalizer) parseNumeric(token string) (time.Time, bool) {
	m := numericDateRe.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, false
	}

	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])

	day, month := first, second
	if second > 12 && first <= 12 {
		day, month = second, first
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	if m[3] != "" {
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		return n.build(year, time.Month(month), day, true)
	}
	return n.build(0, time.Month(month), day, false)
}

// parseSpelled handles "3 mars", "1er avril 2024", "12 sept.".
func (n *Normalizer) parseSpelled(token string) (time.Time, bool) {
	m := spelledDateRe.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, ok := frenchMonths[strings.ToLower(strings.TrimSuffix(m[2], "."))]
	if !ok || day < 1 || day > 31 {
		return time.Time{}, false
	}

	if m[3] != "" {
		year, _ := strconv.Atoi(m[3])
		return n.build(year, month, day, true)
	}
	return n.build(0, month, day, false)
}

// build assembles the date, applying the default-year and rollback policy
// when the token carried no explicit year, and the plausible-year window
// in all cases.
func (n *Normalizer) build(year int, month time.Month, day int, explicit bool) (time.Time, bool) {
	if !explicit {
		year = n.cfg.ReferenceYear
		if year == 0 {
			year = n.now.Year()
		}
	}

	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false // e.g. 31/02 rolled over
	}

	// A yearless date well in the future was almost certainly written the
	// previous year: agendas span year boundaries.
	if !explicit && d.After(n.now.Add(n.cfg.RollbackTolerance)) {
		d = time.Date(year-1, month, day, 0, 0, 0, 0, time.UTC)
	}

	if d.Year() < n.cfg.MinYear || d.Year() > n.cfg.MaxYear {
		return time.Time{}, false
	}
	return d, true
}
