package reports

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// ExportCSV renders the comparison table, a blank line, then the recommendations.
func ExportCSV(report Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if cmp := report.Comparison; cmp != nil && len(cmp.Tools) > 0 {
		header := []string{"Criterion"}
		for _, tool := range cmp.Tools {
			header = append(header, spreadsheetSafe(tool))
		}
		if err := w.Write(header); err != nil {
			return nil, err
		}
		for _, row := range cmp.Criteria {
			record := make([]string, 0, len(cmp.Tools)+1)
			record = append(record, spreadsheetSafe(row.Criterion))
			for _, tool := range cmp.Tools {
				record = append(record, spreadsheetSafe(cmp.Cell(row.Criterion, tool)))
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
		if err := w.Write([]string{}); err != nil {
			return nil, err
		}
	}

	if err := w.Write([]string{"Tool", "Score", "Justification"}); err != nil {
		return nil, err
	}
	for _, rec := range report.Recommendations {
		if err := w.Write([]string{spreadsheetSafe(rec.ToolName), strconv.Itoa(rec.Score), spreadsheetSafe(rec.Justification)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// spreadsheetSafe prefixes a quote to text a spreadsheet would evaluate as a formula.
func spreadsheetSafe(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
