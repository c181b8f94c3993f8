package issuer

import (
	"regexp"
	"strconv"
	"time"
)

// Batch descriptions frequently embed the event day the sheets are printed
// for. Patterns are tried most-specific first so "24.12.2026" is not
// consumed by the two-digit-year form.
var (
	reDottedFull  = regexp.MustCompile(`\b(\d{2})\.(\d{2})\.(\d{4})\b`)
	reCompact     = regexp.MustCompile(`\b(\d{2})(\d{2})(\d{4})\b`)
	reDottedShort = regexp.MustCompile(`\b(\d{2})\.(\d{2})\.(\d{2})\b`)
)

// deriveFunctionalDate extracts a calendar day from a batch description and
// returns it as local midnight in loc. When no pattern matches, or the
// matched digits do not form a real date, it falls back to createdAt's day
// in loc and reports matched=false. This derivation is best-effort and
// never fails.
func deriveFunctionalDate(description string, createdAt time.Time, loc *time.Location) (date time.Time, matched bool) {
	for _, re := range []*regexp.Regexp{reDottedFull, reCompact, reDottedShort} {
		m := re.FindStringSubmatch(description)
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if d, ok := makeDate(year, month, day, loc); ok {
			return d, true
		}
	}

	local := createdAt.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), false
}

// makeDate builds a local-midnight date and rejects digit groups that only
// look like dates (month 13, day 32, 31.02. and so on). time.Date
// normalizes overflow, so a round-trip check catches them.
func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
