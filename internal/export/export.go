// Package export renders flat entity lists into CSV text or an HTML table
// a word processor will open. Pure data in, bytes out; no state.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
)

// Column pairs a header label with a field accessor
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// CSV renders rows under the given column projection as RFC 4180 CSV text
func CSV[T any](rows []T, columns []Column[T]) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = c.Value(row)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// tableTemplate is a minimal standalone HTML document. Word processors
// open it directly when served with a .doc content type.
var tableTemplate = template.Must(template.New("table").Parse(`<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h2>{{.Title}}</h2>
<table border="1" cellspacing="0" cellpadding="4">
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`))

// HTMLTable renders rows under the given column projection as a standalone
// HTML table document. Cell values are escaped by the template engine.
func HTMLTable[T any](title string, rows []T, columns []Column[T]) ([]byte, error) {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(columns))
		for j, c := range columns {
			cells[i][j] = c.Value(row)
		}
	}

	var buf bytes.Buffer
	err := tableTemplate.Execute(&buf, struct {
		Title   string
		Headers []string
		Rows    [][]string
	}{Title: title, Headers: headers, Rows: cells})
	if err != nil {
		return nil, fmt.Errorf("failed to render html table: %w", err)
	}
	return buf.Bytes(), nil
}
