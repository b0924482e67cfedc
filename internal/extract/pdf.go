// Package extract turns source documents into text the parsers can scan.
package extract

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// columnGap is the horizontal glyph distance treated as a column separator
// when rebuilding rows from coordinates.
const columnGap = 15.0

// PDFText extracts page-ordered plain text from a PDF statement. Rows are
// reconstructed from glyph coordinates, with line breaks at vertical-position
// jumps. Extraction strategies are tried in order and partial text is
// preferred over a hard failure: downstream parsers tolerate garbage lines.
func PDFText(path string) (string, error) {
	pages, err := pdfPages(path)
	if err != nil {
		return "", fmt.Errorf("pdf extraction failed for %s: %w", path, err)
	}
	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("pdf %s yielded no text; the file may be image-based or scanned", path)
	}
	return text, nil
}

func pdfPages(path string) (pages []string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader crashed: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text := pageTextByRow(page)
		if strings.TrimSpace(text) == "" {
			text = pageTextByContent(page)
		}
		if strings.TrimSpace(text) == "" {
			slog.Warn("pdf page yielded no text", "page", i)
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// pageTextByRow uses the library's row grouping, which preserves layout on
// well-structured PDFs.
func pageTextByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// pageTextByContent rebuilds rows from raw glyph coordinates: glyphs are
// bucketed by rounded Y, rows ordered top-to-bottom (PDF Y grows upward),
// and glyphs within a row ordered by X with wide gaps kept as separators.
func pageTextByContent(page pdf.Page) string {
	content := page.Content()
	if len(content.Text) == 0 {
		return ""
	}

	type glyph struct {
		s string
		x float64
	}
	rows := make(map[int][]glyph)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		y := int(math.Round(t.Y))
		rows[y] = append(rows[y], glyph{s: t.S, x: t.X})
	}

	ys := make([]int, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var lines []string
	for _, y := range ys {
		glyphs := rows[y]
		sort.Slice(glyphs, func(a, b int) bool { return glyphs[a].x < glyphs[b].x })

		var sb strings.Builder
		var prevX float64
		for i, g := range glyphs {
			if i > 0 && g.x-prevX > columnGap {
				sb.WriteString("  ")
			}
			sb.WriteString(g.s)
			prevX = g.x
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
