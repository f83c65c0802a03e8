package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/seoaudit/internal/model"
)

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// createTestBundle creates a bundle with one report of each status.
func createTestBundle() Bundle {
	withIssues := model.Report{
		Category: "title",
		Name:     "Problemas Títulos",
		Columns:  []string{model.ColumnURL, model.ColumnProblem, model.ColumnCriticality, "title_length"},
		Issues: []model.Issue{
			model.NewIssue("https://a.com/", "title", "Título muito longo (75 chars)", model.CriticalityHigh).
				With("title_length", 75),
			model.NewIssue("https://a.com/b", "title", "Sem título", model.CriticalityCritical),
		},
		Status: model.ReportStatusIssues,
	}
	allClear := model.Report{
		Category: "images",
		Name:     "Problemas Imagens",
		Status:   model.ReportStatusAllClear,
		Message:  "Nenhum problema de imagem encontrado",
	}
	broken := model.Report{
		Category: "performance",
		Name:     "Problemas Performance",
		Status:   model.ReportStatusFailed,
		Message:  "Erro: category performance, rule slow_page: boom",
	}

	records := []model.Record{
		{URL: "https://a.com/", Title: "A", TitleLength: 75, CanonicalIsSelf: true},
		{URL: "https://a.com/b", CanonicalIsSelf: true},
	}
	result := &model.AuditResult{
		Reports: []model.Report{withIssues, allClear, broken},
		Summary: model.Summary{
			Total: 2,
			Rows:  []model.SummaryRow{{Label: "URLs sem título", Count: 1, Percentage: 50}},
		},
		GeneratedAt: fixedTime,
	}
	return NewBundle(result, records)
}

func TestJSONEncoder(t *testing.T) {
	t.Parallel()

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewJSONEncoder().Encode(&buf, createTestBundle()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected a single line, got %q", buf.String())
		}
	})

	t.Run("pretty print decodes back", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewJSONEncoder(WithPrettyPrint()).Encode(&buf, createTestBundle()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"reports\"") {
			t.Error("expected indented output")
		}

		var got Bundle
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if len(got.Reports) != 3 {
			t.Fatalf("expected 3 reports, got %d", len(got.Reports))
		}
		if got.Reports[0].Issues[1].Problem != "Sem título" {
			t.Errorf("got %q, expected %q", got.Reports[0].Issues[1].Problem, "Sem título")
		}
		if got.Reports[2].Status != model.ReportStatusFailed {
			t.Errorf("got %q, expected %q", got.Reports[2].Status, model.ReportStatusFailed)
		}
		if !got.GeneratedAt.Equal(fixedTime) {
			t.Errorf("got %v, expected %v", got.GeneratedAt, fixedTime)
		}
	})
}

func TestMarkdownEncoder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewMarkdownEncoder(WithTitle("Auditoria a.com")).Encode(&buf, createTestBundle()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"# Auditoria a.com",
		"## " + SummaryName,
		"URLs sem título",
		"50.0%",
		"## Problemas Títulos",
		"Título muito longo (75 chars)",
		"Nenhum problema de imagem encontrado",
		"boom",
		"mermaid",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestMarkdownCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"pipe escaped", "a|b", `a\|b`},
		{"newline flattened", "a\nb", "a b"},
		{"long text truncated", strings.Repeat("x", 100), strings.Repeat("x", maxCellLength-3) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := markdownCell(tt.input); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestXLSXEncoder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewXLSXEncoder().Encode(&buf, createTestBundle()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close() //nolint:errcheck // test

	wantSheets := []string{RawDataName, SummaryName, "Problemas Títulos", "Problemas Imagens", "Problemas Performance"}
	gotSheets := f.GetSheetList()
	if strings.Join(gotSheets, ",") != strings.Join(wantSheets, ",") {
		t.Fatalf("got sheets %v, expected %v", gotSheets, wantSheets)
	}

	tests := []struct {
		sheet string
		cell  string
		want  string
	}{
		{RawDataName, "A1", "url"},
		{RawDataName, "A3", "https://a.com/b"},
		{SummaryName, "A1", "Métrica"},
		{SummaryName, "C2", "50.0%"},
		{"Problemas Títulos", "B2", "Título muito longo (75 chars)"},
		{"Problemas Títulos", "D2", "75"},
		{"Problemas Títulos", "C3", "CRÍTICO"},
		{"Problemas Imagens", "A1", "Status"},
		{"Problemas Imagens", "A2", "Nenhum problema de imagem encontrado"},
		{"Problemas Performance", "A1", "Erro"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatalf("failed to read %s!%s: %v", tt.sheet, tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s!%s: got %q, expected %q", tt.sheet, tt.cell, got, tt.want)
		}
	}
}

func TestSheetNames(t *testing.T) {
	t.Parallel()

	names := newSheetNames()
	long := strings.Repeat("a", 40)

	tests := []struct {
		input string
		want  string
	}{
		{"Problemas: Técnicos/SEO", "Problemas TécnicosSEO"},
		{long, strings.Repeat("a", maxSheetName)},
		{long, strings.Repeat("a", maxSheetName-4) + " (2)"},
		{"[]", "Sheet"},
		{"sheet", "sheet (2)"},
	}
	for _, tt := range tests {
		got := names.next(tt.input)
		if got != tt.want {
			t.Errorf("next(%q): got %q, expected %q", tt.input, got, tt.want)
		}
		if n := len([]rune(got)); n > maxSheetName {
			t.Errorf("next(%q): %d runes exceeds the limit", tt.input, n)
		}
	}
}

func TestColumnWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		longest int
		want    float64
	}{
		{0, minColumnWidth},
		{20, 22},
		{200, maxColumnWidth},
	}
	for _, tt := range tests {
		if got := columnWidth(tt.longest); got != tt.want {
			t.Errorf("columnWidth(%d): got %v, expected %v", tt.longest, got, tt.want)
		}
	}
}

func TestTextWriter(t *testing.T) {
	t.Parallel()

	b := createTestBundle()
	result := &model.AuditResult{Reports: b.Reports, Summary: b.Summary, GeneratedAt: fixedTime}

	t.Run("lists reports with issues and failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "[   2] Problemas Títulos") {
			t.Errorf("expected issue count line, got:\n%s", output)
		}
		if !strings.Contains(output, "[ERRO] Problemas Performance") {
			t.Error("expected failed report line")
		}
		if strings.Contains(output, "Problemas Imagens") {
			t.Error("all-clear reports must be hidden by default")
		}
	})

	t.Run("show clear", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf, WithShowClear(true)).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[  OK] Problemas Imagens") {
			t.Error("expected all-clear report line")
		}
	})
}

type failingEncoder struct{}

func (failingEncoder) Encode(_ io.Writer, _ Bundle) error {
	return &Error{Name: "Problemas Títulos", Format: "fake", Err: errors.New("disk full")}
}

func TestFileExporter(t *testing.T) {
	t.Parallel()

	t.Run("writes every format", func(t *testing.T) {
		t.Parallel()

		for _, format := range []string{FormatXLSX, FormatMarkdown, FormatJSON} {
			path := filepath.Join(t.TempDir(), "out", DefaultFileName("seo", format, fixedTime))
			exp, err := New(format, path)
			if err != nil {
				t.Fatalf("New(%q): %v", format, err)
			}
			got, err := exp.Export(context.Background(), createTestBundle())
			if err != nil {
				t.Fatalf("Export(%q): %v", format, err)
			}
			if got != path {
				t.Errorf("got %q, expected %q", got, path)
			}
			info, err := os.Stat(path)
			if err != nil || info.Size() == 0 {
				t.Errorf("expected a non-empty %s file, err=%v", format, err)
			}
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := New("csv", "out.csv")
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("encoder error names the report and removes the file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.fake")
		_, err := NewFileExporter(path, "fake", failingEncoder{}).Export(context.Background(), createTestBundle())

		var exportErr *Error
		if !errors.As(err, &exportErr) {
			t.Fatalf("expected *Error, got %v", err)
		}
		if exportErr.Name != "Problemas Títulos" {
			t.Errorf("got %q, expected %q", exportErr.Name, "Problemas Títulos")
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Error("expected the partial file to be removed")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewFileExporter(filepath.Join(t.TempDir(), "x.json"), FormatJSON, NewJSONEncoder()).Export(ctx, createTestBundle())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestDefaultFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{FormatXLSX, "seo_20260102_030405.xlsx"},
		{FormatMarkdown, "seo_20260102_030405.md"},
		{FormatJSON, "seo_20260102_030405.json"},
	}
	for _, tt := range tests {
		if got := DefaultFileName("seo", tt.format, fixedTime); got != tt.want {
			t.Errorf("got %q, expected %q", got, tt.want)
		}
	}
}
