package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/export"
	"github.com/nao1215/seoaudit/internal/history"
	"github.com/nao1215/seoaudit/internal/model"
)

const testRecords = `[
  {"url": "https://shop.com/", "status_code": 200, "title": "", "title_length": 0},
  {"url": "https://shop.com/produto/1", "status_code": 404, "title": "Produto de teste com um título suficientemente longo", "title_length": 52}
]`

// writeRecords writes the records to a temporary JSON file.
func writeRecords(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "crawl.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write records: %v", err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNewAuditCmd tests the audit command creation.
func TestNewAuditCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAuditCmd()

	if !strings.HasPrefix(cmd.Use, "audit") {
		t.Errorf("expected use to start with 'audit', got %q", cmd.Use)
	}

	flags := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"format", "f", config.DefaultFormat},
		{"output", "o", ""},
		{"config", "c", ""},
		{"parallel", "p", "false"},
		{"concurrency", "n", "4"},
		{"label", "l", ""},
		{"no-history", "", "false"},
		{"show-clear", "", "false"},
	}
	for _, tt := range flags {
		t.Run("has "+tt.name+" flag", func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("got %q, expected %q", flag.Shorthand, tt.shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("got %q, expected %q", flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags and config file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "seoaudit.yaml")
		content := "label: from-file\nthresholds:\n  title_max_length: 65\ndisabled_reports: [mixed_content]\n"
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"-f", "json", "-c", configPath, "-p", "-n", "2", "--no-history"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd, []string{"a.json", "b.jsonl"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Format != config.FormatJSON {
			t.Errorf("got %q, expected %q", cfg.Format, config.FormatJSON)
		}
		if !cfg.Parallel || cfg.Concurrency != 2 {
			t.Errorf("expected parallel with concurrency 2, got %v/%d", cfg.Parallel, cfg.Concurrency)
		}
		if cfg.SaveToDB {
			t.Error("expected --no-history to disable the history")
		}
		if cfg.Label != "from-file" {
			t.Errorf("got %q, expected %q", cfg.Label, "from-file")
		}
		if cfg.Thresholds.TitleMaxLength != 65 {
			t.Errorf("got %d, expected 65", cfg.Thresholds.TitleMaxLength)
		}
		if cfg.Thresholds.MetaMaxLength != 160 {
			t.Errorf("unset threshold lost its default: got %d", cfg.Thresholds.MetaMaxLength)
		}
		if cfg.ReportEnabled("mixed_content") {
			t.Error("expected mixed_content to be disabled")
		}
		if len(cfg.Inputs) != 2 {
			t.Errorf("got %d inputs, expected 2", len(cfg.Inputs))
		}
	})

	t.Run("label flag wins over config file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "seoaudit.yaml")
		if err := os.WriteFile(configPath, []byte("label: from-file\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath, "-l", "from-flag"}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Label != "from-flag" {
			t.Errorf("got %q, expected %q", cfg.Label, "from-flag")
		}
	})

	t.Run("explicit config path must exist", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(cmd, nil); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "seoaudit.yaml")
		if err := os.WriteFile(configPath, []byte("thresholds: [oops"), 0o600); err != nil {
			t.Fatal(err)
		}
		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath}); err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(cmd, nil); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

func TestRunAudit(t *testing.T) {
	t.Parallel()

	t.Run("writes report file and saves run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := config.NewConfig()
		cfg.Inputs = []string{writeRecords(t, testRecords)}
		cfg.Format = config.FormatMarkdown
		cfg.OutputPath = filepath.Join(dir, "report.md")
		cfg.DBDir = filepath.Join(dir, "db")

		var out bytes.Buffer
		if err := runAudit(context.Background(), cfg, discardLogger(), &out, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(cfg.OutputPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		if !strings.Contains(string(content), "Problemas Títulos") {
			t.Error("expected report to contain the title section")
		}

		for _, want := range []string{"Relatório salvo em:", "AUDITORIA SEO", "Execução salva no histórico:", "(shop.com)", "Auditoria concluída em"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
			}
		}

		store, err := history.Open(cfg.DBDir, history.Options{})
		if err != nil {
			t.Fatalf("history not created: %v", err)
		}
		defer store.Close()
		runs, err := store.ListRuns(context.Background(), "shop.com", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 1 || runs[0].RecordCount != 2 {
			t.Errorf("unexpected runs %+v", runs)
		}
	})

	t.Run("json to stdout keeps output clean", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Inputs = []string{writeRecords(t, testRecords)}
		cfg.Format = config.FormatJSON
		cfg.OutputPath = stdoutPath
		cfg.SaveToDB = false

		var out bytes.Buffer
		if err := runAudit(context.Background(), cfg, discardLogger(), &out, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var bundle export.Bundle
		if err := json.Unmarshal(out.Bytes(), &bundle); err != nil {
			t.Fatalf("stdout is not a JSON report: %v\n%s", err, out.String())
		}
		if bundle.Summary.Total != 2 {
			t.Errorf("got %d, expected 2", bundle.Summary.Total)
		}
		if len(bundle.Reports) != 10 {
			t.Errorf("got %d reports, expected 10", len(bundle.Reports))
		}
	})

	t.Run("xlsx to stdout is rejected", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Inputs = []string{writeRecords(t, testRecords)}
		cfg.Format = config.FormatXLSX
		cfg.OutputPath = stdoutPath
		cfg.SaveToDB = false

		err := runAudit(context.Background(), cfg, discardLogger(), io.Discard, false)
		var exportErr *export.Error
		if !errors.As(err, &exportErr) {
			t.Errorf("expected *export.Error, got %v", err)
		}
	})

	t.Run("disabled reports are left out", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Inputs = []string{writeRecords(t, testRecords)}
		cfg.Format = config.FormatJSON
		cfg.OutputPath = stdoutPath
		cfg.SaveToDB = false
		cfg.DisabledReports = []string{"mixed_content", "performance"}

		var out bytes.Buffer
		if err := runAudit(context.Background(), cfg, discardLogger(), &out, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var bundle export.Bundle
		if err := json.Unmarshal(out.Bytes(), &bundle); err != nil {
			t.Fatal(err)
		}
		for _, r := range bundle.Reports {
			if r.Category == "mixed_content" || r.Category == "performance" {
				t.Errorf("unexpected report %q", r.Category)
			}
		}
	})

	t.Run("missing input file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Inputs = []string{filepath.Join(t.TempDir(), "missing.json")}
		cfg.SaveToDB = false

		if err := runAudit(context.Background(), cfg, discardLogger(), io.Discard, false); err == nil {
			t.Error("expected error for missing input")
		}
	})
}

func TestRunAuditCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "seoaudit.yaml")
	if err := os.WriteFile(configPath, []byte("label: cli\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "report.xlsx")

	var out bytes.Buffer
	cmd := NewAuditCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-c", configPath, "-o", output, "--no-history", "-p", writeRecords(t, testRecords)})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("expected workbook to be written: %v", err)
	}

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		cmd.SetOut(io.Discard)
		cmd.SetArgs([]string{"-c", configPath})
		if err := cmd.Execute(); !errors.Is(err, config.ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})
}

func TestSiteLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		label   string
		records []model.Record
		want    string
	}{
		{"explicit label", "shop.com", []model.Record{{URL: "https://other.com/"}}, "shop.com"},
		{"host of first record", "", []model.Record{{URL: "https://www.shop.com:8443/a"}}, "www.shop.com"},
		{"skips unparsable urls", "", []model.Record{{URL: "not a url"}, {URL: "http://b.com"}}, "b.com"},
		{"no records", "", nil, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := siteLabel(tt.label, tt.records); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	t.Parallel()

	if got := shortID("3f2a9c1e-0000-4000-8000-000000000000"); got != "3f2a9c1e" {
		t.Errorf("got %q, expected %q", got, "3f2a9c1e")
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("got %q, expected %q", got, "abc")
	}
}
