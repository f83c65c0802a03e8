package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/seoaudit/internal/model"
)

const (
	// maxSheetName is the sheet name limit of the workbook format.
	maxSheetName = 31

	// Column width bounds, in characters.
	minColumnWidth = 10
	maxColumnWidth = 50

	headerFill  = "366092"
	headerColor = "FFFFFF"

	// Columns of the fallback sheets.
	statusColumn = "Status"
	errorColumn  = "Erro"

	noRecordsMessage = "Nenhum registro carregado"
)

// invalidSheetChars are rejected in sheet names by spreadsheet applications.
var invalidSheetChars = strings.NewReplacer(
	":", "", `\`, "", "/", "", "?", "", "*", "", "[", "", "]", "",
)

// XLSXEncoder writes the bundle as a workbook. The first sheet holds the raw
// dataset, the second the executive summary, then one sheet per report.
//
// Every sheet gets a styled frozen header row and columns sized to their
// content. A report that is all clear or failed becomes a one column sheet
// carrying its marker message, so no category silently disappears.
type XLSXEncoder struct{}

// NewXLSXEncoder creates an XLSXEncoder.
func NewXLSXEncoder() *XLSXEncoder {
	return &XLSXEncoder{}
}

// table is one sheet worth of data.
type table struct {
	header []string
	rows   [][]any
}

// Encode writes b to w. A failure while writing a report sheet is returned
// as *Error naming that report.
func (e *XLSXEncoder) Encode(w io.Writer, b Bundle) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: headerColor},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Vertical: "center",
			WrapText: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	names := newSheetNames()
	sheets := []struct {
		name  string
		table table
	}{
		{RawDataName, rawTable(b)},
		{SummaryName, summaryTable(b.Summary)},
	}
	for _, r := range b.Reports {
		sheets = append(sheets, struct {
			name  string
			table table
		}{r.Name, reportTable(r)})
	}

	first := true
	for _, s := range sheets {
		sheet := names.next(s.name)
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return &Error{Name: s.name, Format: FormatXLSX, Err: err}
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return &Error{Name: s.name, Format: FormatXLSX, Err: err}
		}
		if err := writeSheet(f, sheet, s.table, style); err != nil {
			return &Error{Name: s.name, Format: FormatXLSX, Err: err}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func rawTable(b Bundle) table {
	if len(b.RawColumns) == 0 {
		return table{
			header: []string{statusColumn},
			rows:   [][]any{{noRecordsMessage}},
		}
	}
	rows := make([][]any, len(b.RawRows))
	for i, raw := range b.RawRows {
		row := make([]any, len(b.RawColumns))
		for j, col := range b.RawColumns {
			row[j] = raw[col]
		}
		rows[i] = row
	}
	return table{header: b.RawColumns, rows: rows}
}

func summaryTable(s model.Summary) table {
	if s.Empty() {
		return table{header: []string{errorColumn}, rows: [][]any{{s.Message}}}
	}
	rows := make([][]any, len(s.Rows))
	for i, row := range s.Rows {
		rows[i] = []any{row.Label, row.Count, row.PercentageText()}
	}
	return table{header: []string{"Métrica", "Valor", "Percentual"}, rows: rows}
}

func reportTable(r model.Report) table {
	switch r.Status {
	case model.ReportStatusAllClear:
		return table{header: []string{statusColumn}, rows: [][]any{{r.Message}}}
	case model.ReportStatusFailed:
		return table{header: []string{errorColumn}, rows: [][]any{{r.Message}}}
	default:
		return table{header: r.Columns, rows: r.Rows()}
	}
}

// writeSheet writes the header and the rows, then styles the header, freezes
// it and sizes every column.
func writeSheet(f *excelize.File, sheet string, t table, style int) error {
	widths := make([]int, len(t.header))
	header := make([]any, len(t.header))
	for i, h := range t.header {
		header[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range t.rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
			if j < len(widths) {
				widths[j] = max(widths[j], utf8.RuneCountInString(cellText(cells[j])))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	if len(t.header) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(t.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, columnWidth(width)); err != nil {
			return err
		}
	}
	return nil
}

// columnWidth pads the longest value by two and clamps it.
func columnWidth(longest int) float64 {
	return float64(min(max(longest+2, minColumnWidth), maxColumnWidth))
}

// cellValue converts values the workbook cannot store natively to text.
func cellValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, int, int64, float64:
		return t
	case []string:
		return strings.Join(t, ", ")
	case model.Criticality:
		return t.String()
	default:
		return cellText(t)
	}
}

// sheetNames hands out valid, unique sheet names.
type sheetNames struct {
	used map[string]struct{}
}

func newSheetNames() *sheetNames {
	return &sheetNames{used: make(map[string]struct{})}
}

// next sanitizes name, truncates it to the sheet name limit and appends a
// counter when the result is already taken. Sheet names are compared
// case-insensitively by spreadsheet applications.
func (s *sheetNames) next(name string) string {
	base := strings.TrimSpace(invalidSheetChars.Replace(name))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Sheet"
	}
	base = truncateRunes(base, maxSheetName)

	candidate := base
	for n := 2; ; n++ {
		key := strings.ToLower(candidate)
		if _, taken := s.used[key]; !taken {
			s.used[key] = struct{}{}
			return candidate
		}
		suffix := " (" + strconv.Itoa(n) + ")"
		candidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
