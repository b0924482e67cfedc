// Package installment computes the date sequence of installment plans.
package installment

import (
	"fmt"
	"regexp"
	"time"

	"github.com/grana-app/grana/internal/model"
)

// MaxInstallments bounds every expansion, whatever the caller asks for. A
// runaway count would otherwise turn one purchase into an unbounded batch
// write.
const MaxInstallments = 60

// Occurrence is one step of an expanded plan. Index 0 is the base date.
type Occurrence struct {
	Date  time.Time
	Index int
}

// Expand returns the ordered occurrences of a plan: index 0 keeps the base
// date, and each later index advances the base by index frequency units.
// Dates are always derived from the base, never from the previous occurrence,
// so variable month lengths cannot accumulate drift.
func Expand(base time.Time, freq model.Frequency, count int) []Occurrence {
	if count <= 0 {
		return nil
	}
	if count > MaxInstallments {
		count = MaxInstallments
	}

	occurrences := make([]Occurrence, 0, count)
	for i := range count {
		occurrences = append(occurrences, Occurrence{Index: i, Date: Advance(base, freq, i)})
	}
	return occurrences
}

// Advance moves base forward by steps frequency units.
func Advance(base time.Time, freq model.Frequency, steps int) time.Time {
	switch freq {
	case model.FrequencyDaily:
		return base.AddDate(0, 0, steps)
	case model.FrequencyWeekly:
		return base.AddDate(0, 0, 7*steps)
	case model.FrequencyYearly:
		return base.AddDate(steps, 0, 0)
	case model.FrequencyMonthly:
		return base.AddDate(0, steps, 0)
	default:
		return base.AddDate(0, steps, 0)
	}
}

var (
	numericMarker = regexp.MustCompile(`\b(\d{1,2})\s*/\s*(\d{1,3})\b`)
	verboseMarker = regexp.MustCompile(`(?i)\bparcela\s+(\d{1,2})\s+de\s+(\d{1,3})\b`)
)

// Renumber rewrites the installment marker inside a description to reflect a
// new index. Both the "3/10" and the "Parcela 3 de 10" spellings are
// recognized; a description without a marker gets a numeric suffix appended.
func Renumber(description string, number, total int) string {
	if verboseMarker.MatchString(description) {
		return verboseMarker.ReplaceAllString(description, fmt.Sprintf("Parcela %d de %d", number, total))
	}
	if numericMarker.MatchString(description) {
		return numericMarker.ReplaceAllString(description, fmt.Sprintf("%d/%d", number, total))
	}
	return fmt.Sprintf("%s %d/%d", description, number, total)
}

// ParseMarker extracts (number, total) from an installment marker in the
// description, or (0, 0) when none is present.
func ParseMarker(description string) (number, total int) {
	if m := numericMarker.FindStringSubmatch(description); m != nil {
		number, total = atoi(m[1]), atoi(m[2])
	} else if m := verboseMarker.FindStringSubmatch(description); m != nil {
		number, total = atoi(m[1]), atoi(m[2])
	}
	if number <= 0 || total <= 0 || number > total {
		return 0, 0
	}
	return number, total
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
