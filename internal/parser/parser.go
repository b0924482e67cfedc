// Package parser turns statement text into candidate transactions.
//
// Each supported issuer gets its own Parser behind a common interface; the
// registry auto-detects the issuer from the raw text, so new bank layouts are
// added without touching shared logic. Bank PDFs have no stable schema, so
// every parser is pattern-driven and treats unrecognized lines as noise, not
// errors.
package parser

import (
	"strings"
	"time"

	"github.com/grana-app/grana/internal/model"
)

// Metadata is what a statement reveals about its issuing card or account
// beyond the transactions themselves.
type Metadata struct {
	BankName   string
	Limit      float64
	ClosingDay int
	DueDay     int
}

// Statement is the parse result: candidates plus invoice metadata.
type Statement struct {
	Metadata   Metadata
	Candidates []model.Candidate
}

// Hint carries out-of-band context for parsing. Filename feeds year and
// invoice-month inference; Now anchors "current year" fallbacks and is
// injectable for tests.
type Hint struct {
	Now      time.Time
	Filename string
}

func (h Hint) now() time.Time {
	if h.Now.IsZero() {
		return time.Now()
	}
	return h.Now
}

// Parser is one issuer strategy.
type Parser interface {
	// Issuer is the human-readable issuer name.
	Issuer() string
	// Detect reports whether the text looks like this issuer's layout.
	Detect(text string) bool
	// Parse scans the text into candidates and metadata.
	Parse(text string, hint Hint) (*Statement, error)
}

// registry holds the issuer strategies in detection order.
var registry = []Parser{
	NewNubankParser(),
}

// ParseText dispatches statement text to the detected issuer parser. When no
// issuer matches, the reference parser runs anyway: its patterns are the
// best-effort generic path and a zero-candidate result is not an error.
func ParseText(text string, hint Hint) (*Statement, error) {
	for _, p := range registry {
		if p.Detect(text) {
			return p.Parse(text, hint)
		}
	}
	return registry[0].Parse(text, hint)
}

func containsFold(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}
