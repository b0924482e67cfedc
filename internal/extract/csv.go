package extract

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one delimited record keyed by its normalized header.
type Row map[string]string

// ReadRows parses delimited text into rows keyed by lower-cased, trimmed
// header names. The delimiter is sniffed from the header line (`;` exports
// are common from Brazilian banks). Short or ragged records are tolerated;
// rows that cannot be read at all are skipped.
func ReadRows(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)

	header, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	header = strings.TrimPrefix(header, "\ufeff")
	if strings.TrimSpace(header) == "" {
		return nil, errors.New("empty input")
	}

	delimiter := ','
	if strings.Count(header, ";") > strings.Count(header, ",") {
		delimiter = ';'
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(header), br))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	keys := make([]string, len(records[0]))
	for i, h := range records[0] {
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(keys))
		for i, value := range record {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			row[keys[i]] = strings.TrimSpace(value)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
