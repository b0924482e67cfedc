// Package dedupe suppresses re-imported transactions by signature matching.
package dedupe

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/grana-app/grana/internal/model"
)

// WindowSlack widens the history window on both ends. Statements are often
// re-exported a few days apart, so the window is deliberately generous.
const WindowSlack = 5 * 24 * time.Hour

// Detector holds the signature set of a window of persisted transactions.
// A candidate whose signature is already present is a duplicate. This is a
// heuristic identity: two genuinely distinct same-day, same-amount,
// same-description transactions will collapse, and that trade-off is
// accepted.
type Detector struct {
	seen map[string]struct{}
}

// NewDetector builds the signature set from existing transactions.
func NewDetector(existing []model.Transaction) *Detector {
	d := &Detector{seen: make(map[string]struct{}, len(existing))}
	for _, tx := range existing {
		d.seen[signature(tx.Date, tx.Amount, tx.Description, tx.Type)] = struct{}{}
	}
	return d
}

// IsDuplicate reports whether the candidate's signature is already known.
func (d *Detector) IsDuplicate(c model.Candidate) bool {
	_, dup := d.seen[signature(c.Date, c.Amount, c.Description, c.Type)]
	return dup
}

// Remember adds a candidate's signature so later candidates in the same batch
// collapse against it.
func (d *Detector) Remember(c model.Candidate) {
	d.seen[signature(c.Date, c.Amount, c.Description, c.Type)] = struct{}{}
}

// Window returns the [min-slack, max+slack] date range covering a candidate
// batch, for loading the history to compare against. ok is false for an
// empty batch.
func Window(candidates []model.Candidate) (start, end time.Time, ok bool) {
	for _, c := range candidates {
		if c.Date.IsZero() {
			continue
		}
		if !ok {
			start, end, ok = c.Date, c.Date, true
			continue
		}
		if c.Date.Before(start) {
			start = c.Date
		}
		if c.Date.After(end) {
			end = c.Date
		}
	}
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start.Add(-WindowSlack), end.Add(WindowSlack), true
}

// signature is the duplicate identity tuple: day-granular date, amount at two
// decimals, case-folded description, and direction.
func signature(date time.Time, amount float64, description string, typ model.TransactionType) string {
	return fmt.Sprintf("%s|%.2f|%s|%s",
		date.Format("2006-01-02"),
		math.Round(amount*100)/100,
		strings.ToLower(strings.TrimSpace(description)),
		typ)
}
