package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grana-app/grana/internal/model"
)

// ErrReviewAborted is returned when the user quits the review prompt.
var ErrReviewAborted = errors.New("review aborted")

// Reviewer walks the user through the parsed candidates before anything is
// saved: every parser-selected candidate starts checked, individual ones can
// be toggled off by number, and the whole import can be aborted.
type Reviewer struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewReviewer creates a Reviewer over the given streams.
func NewReviewer(in io.Reader, out io.Writer) *Reviewer {
	return &Reviewer{reader: NewNonBlockingReader(in), writer: out}
}

// Review shows the candidate table and prompts until the user confirms or
// aborts. The returned slice carries the final Selected flags.
func (r *Reviewer) Review(ctx context.Context, candidates []model.Candidate) ([]model.Candidate, error) {
	reviewed := make([]model.Candidate, len(candidates))
	copy(reviewed, candidates)

	for {
		fmt.Fprintln(r.writer, RenderCandidateTable(reviewed))
		fmt.Fprintln(r.writer, SubtleStyle.Render("enter = import selected · numbers toggle (e.g. 2 5) · a = all · n = none · q = abort"))
		fmt.Fprint(r.writer, FormatPrompt("Import"))

		line, err := r.reader.ReadLine(ctx)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(line) {
		case "", "y", "s", "sim":
			return reviewed, nil
		case "q", "nao", "não":
			return nil, ErrReviewAborted
		case "a":
			for i := range reviewed {
				reviewed[i].Selected = true
			}
			continue
		case "n":
			for i := range reviewed {
				reviewed[i].Selected = false
			}
			continue
		}

		toggled := false
		for _, field := range strings.Fields(line) {
			idx, err := strconv.Atoi(field)
			if err != nil || idx < 1 || idx > len(reviewed) {
				fmt.Fprintln(r.writer, FormatWarning(fmt.Sprintf("no candidate %q", field)))
				continue
			}
			reviewed[idx-1].Selected = !reviewed[idx-1].Selected
			toggled = true
		}
		if !toggled {
			fmt.Fprintln(r.writer, FormatWarning("unrecognized input"))
		}
	}
}

// RenderCandidateTable renders the candidates as a numbered table with
// selection markers and colored amounts.
func RenderCandidateTable(candidates []model.Candidate) string {
	var b strings.Builder

	header := fmt.Sprintf("    %-3s %-10s %-40s %-14s %12s", "", "Date", "Description", "Category", "Amount")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for i, c := range candidates {
		marker := "[ ]"
		if c.Selected {
			marker = "[x]"
		}

		// Truncate on runes, not bytes, or accented descriptions get cut
		// mid-character.
		description := c.Description
		if runes := []rune(description); len(runes) > 40 {
			description = string(runes[:37]) + "..."
		}
		if c.InstallmentNumber > 0 {
			description = fmt.Sprintf("%s (%d/%d)", description, c.InstallmentNumber, c.TotalInstallments)
		}

		line := fmt.Sprintf("%2d. %s %-10s %-40s %-14s %12s",
			i+1, marker,
			c.Date.Format("02/01/2006"),
			description,
			c.Category,
			FormatSignedMoney(c.Amount, c.Type == model.TypeIncome))

		if !c.Selected {
			line = SubtleStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
