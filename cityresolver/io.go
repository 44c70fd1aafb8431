package cityresolver

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TableOptions selects the message and city columns by header name or 1-based "#N" index.
// Empty fields fall back to the column candidates.
type TableOptions struct {
	MessageColumn string
	CityColumn    string
}

// TableMetadata provides header information and automatic column suggestions.
type TableMetadata struct {
	Columns   []string
	Suggested TableOptions
}

// Table is a delimited or spreadsheet file held in memory. Every column of the
// source is kept; the city column is appended when the source has none.
type Table struct {
	Header        []string
	Rows          [][]string
	MessageColumn int
	CityColumn    int
	// Sheet is the worksheet name for .xlsx files.
	Sheet string
}

// Messages returns the message cell of every row.
func (t *Table) Messages() []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if t.MessageColumn < len(row) {
			out[i] = row[t.MessageColumn]
		}
	}
	return out
}

// SetCity writes the city cell of a row.
func (t *Table) SetCity(row int, city string) {
	for len(t.Rows[row]) <= t.CityColumn {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][t.CityColumn] = city
}

// ReadTable loads a .csv, .tsv or .xlsx file whose first row is a header.
func ReadTable(path string, opts TableOptions) (*Table, error) {
	var (
		rows  [][]string
		sheet string
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readDelimited(path, ',')
	case ".tsv":
		rows, err = readDelimited(path, '\t')
	case ".xlsx":
		rows, sheet, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported table format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", filepath.Base(path))
	}
	t, err := newTable(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	t.Sheet = sheet
	return t, nil
}

// WriteTable saves a table in the format implied by the path extension.
func WriteTable(path string, t *Table) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return writeDelimited(path, ',', t)
	case ".tsv":
		return writeDelimited(path, '\t', t)
	case ".xlsx":
		return writeXLSX(path, t)
	default:
		return fmt.Errorf("unsupported table format %q", ext)
	}
}

// ReadTableMetadata returns the header and the detected columns. When no message
// column can be detected only the header is filled in.
func ReadTableMetadata(path string) (TableMetadata, error) {
	meta := TableMetadata{}
	t, err := ReadTable(path, TableOptions{})
	if err != nil {
		var colErr *columnError
		if !errors.As(err, &colErr) {
			return meta, err
		}
		meta.Columns = colErr.header
		return meta, nil
	}
	meta.Columns = t.Header
	meta.Suggested = TableOptions{
		MessageColumn: headerNameForIndex(t.Header, t.MessageColumn),
		CityColumn:    headerNameForIndex(t.Header, t.CityColumn),
	}
	return meta, nil
}

// ParseMessages splits pasted text into one message per non-empty line.
func ParseMessages(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(data, "\n") {
		line = cleanCell(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

type columnError struct {
	header []string
	msg    string
}

func (e *columnError) Error() string { return e.msg }

func newTable(rows [][]string, opts TableOptions) (*Table, error) {
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	body := rows[1:]
	width := len(header)
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(header) < width {
		header = append(header, "")
	}

	candidates := getColumnCandidates()
	msgCol, err := pickColumn(header, opts.MessageColumn, candidates.Message)
	if err != nil {
		return nil, &columnError{header: header, msg: "message column: " + err.Error()}
	}
	if msgCol < 0 {
		return nil, &columnError{header: header, msg: "message column not found; choose one explicitly"}
	}

	cityCol, err := pickColumn(header, opts.CityColumn, candidates.City)
	if err != nil {
		name := strings.TrimSpace(opts.CityColumn)
		if strings.HasPrefix(name, "#") {
			return nil, &columnError{header: header, msg: "city column: " + err.Error()}
		}
		cityCol = -1
	}
	if cityCol < 0 {
		name := strings.TrimSpace(opts.CityColumn)
		if name == "" {
			name = "city"
		}
		header = append(header, name)
		cityCol = len(header) - 1
	}
	if cityCol == msgCol {
		return nil, &columnError{header: header, msg: "city column must differ from the message column"}
	}

	out := make([][]string, len(body))
	for i, row := range body {
		cells := make([]string, len(header))
		copy(cells, row)
		out[i] = cells
	}
	return &Table{Header: header, Rows: out, MessageColumn: msgCol, CityColumn: cityCol}, nil
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func writeDelimited(path string, comma rune, t *Table) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := encodeDelimited(f, comma, t); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}

func encodeDelimited(w io.Writer, comma rune, t *Table) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

func pickColumn(header []string, explicit string, candidates []string) (int, error) {
	if strings.TrimSpace(explicit) != "" {
		return matchExplicitColumn(header, explicit)
	}
	return findColumn(header, candidates), nil
}

func matchExplicitColumn(header []string, explicit string) (int, error) {
	trimmed := strings.TrimSpace(explicit)
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, err
		}
		if idx >= len(header) {
			return -1, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, nil
	}
	return -1, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if trimmed == "" {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

func headerNameForIndex(header []string, idx int) string {
	if idx < 0 {
		return ""
	}
	if idx < len(header) {
		if name := header[idx]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("#%d", idx+1)
}
