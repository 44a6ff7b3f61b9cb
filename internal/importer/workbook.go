package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/xuri/excelize/v2"
)

type Sheet struct {
	Name string
	Rows [][]string
}

type Workbook struct {
	Name   string
	Sheets []Sheet
}

// ReadWorkbook loads every sheet's cell values unformatted: text cells as
// text, numbers and dates as the stored number (an Excel serial for dates),
// whatever number format the sheet displays them with.
func ReadWorkbook(name string, r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook %s: %w", name, err)
	}
	defer f.Close()

	wb := &Workbook{Name: name}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read rows of %s/%s: %w", name, sheetName, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheetName, Rows: rows})
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", name)
	}
	return wb, nil
}

// Row maps column header to cell text in sheet column order. Missing cells
// are stored as nil.
type Row struct {
	Number int
	cells  *orderedmap.OrderedMap
}

func NewRow(number int, headers []string, cells []string) Row {
	m := orderedmap.New()
	for i, h := range headers {
		if i < len(cells) && strings.TrimSpace(cells[i]) != "" {
			m.Set(h, strings.TrimSpace(cells[i]))
		} else {
			m.Set(h, nil)
		}
	}
	return Row{Number: number, cells: m}
}

func (r Row) Headers() []string {
	if r.cells == nil {
		return nil
	}
	return r.cells.Keys()
}

// Get returns the value under header, compared case-insensitively.
func (r Row) Get(header string) (string, bool) {
	want := normalizeHeader(header)
	for _, h := range r.Headers() {
		if normalizeHeader(h) == want {
			return r.value(h)
		}
	}
	return "", false
}

// At returns the value of the column at index.
func (r Row) At(index int) (string, bool) {
	headers := r.Headers()
	if index < 0 || index >= len(headers) {
		return "", false
	}
	return r.value(headers[index])
}

func (r Row) MarshalJSON() ([]byte, error) {
	if r.cells == nil {
		return []byte("{}"), nil
	}
	return r.cells.MarshalJSON()
}

func (r Row) value(header string) (string, bool) {
	v, ok := r.cells.Get(header)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// buildRows turns the sheet rows after headerIdx into Rows keyed by the header
// row. Blank header cells become __EMPTY, __EMPTY_1, ... and repeated headers
// get a _1, _2 suffix. Entirely blank rows are dropped.
func buildRows(rows [][]string, headerIdx int) []Row {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return nil
	}

	width := 0
	for _, r := range rows[headerIdx:] {
		if len(r) > width {
			width = len(r)
		}
	}
	headers := headerNames(rows[headerIdx], width)

	out := make([]Row, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		out = append(out, NewRow(i+1, headers, rows[i]))
	}
	return out
}

func headerNames(raw []string, width int) []string {
	headers := make([]string, width)
	seen := map[string]int{}
	empty := 0

	for i := 0; i < width; i++ {
		h := ""
		if i < len(raw) {
			h = strings.TrimSpace(raw[i])
		}
		if h == "" {
			h = "__EMPTY"
			if empty > 0 {
				h = fmt.Sprintf("__EMPTY_%d", empty)
			}
			empty++
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		} else {
			seen[h] = 0
		}
		headers[i] = h
	}
	return headers
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
