package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/seoaudit/internal/history"
	"github.com/nao1215/seoaudit/internal/model"
)

func compareResult(issues ...model.Issue) *model.AuditResult {
	return &model.AuditResult{
		Reports: []model.Report{{
			Category: "title",
			Name:     "Problemas Títulos",
			Columns:  []string{model.ColumnURL, model.ColumnProblem, model.ColumnCriticality},
			Issues:   issues,
			Status:   model.ReportStatusIssues,
		}},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// setupHistory creates a history with two runs of shop.com and returns its
// directory and the run ids, oldest first.
func setupHistory(t *testing.T) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	opts := history.DefaultOptions()
	opts.Now = func() time.Time {
		now = now.Add(time.Hour)
		return now
	}
	store, err := history.Open(dir, opts)
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	first, err := store.SaveRun(ctx, "shop.com", 2, compareResult(
		model.NewIssue("https://shop.com/", "title", "Sem título", model.CriticalityCritical),
	))
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.SaveRun(ctx, "shop.com", 2, compareResult(
		model.NewIssue("https://shop.com/b", "title", "Título muito curto (5 chars)", model.CriticalityMedium),
	))
	if err != nil {
		t.Fatal(err)
	}
	return dir, []string{first, second}
}

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	flags := []struct {
		name      string
		shorthand string
	}{
		{"list", "L"},
		{"label", "l"},
		{"db-dir", ""},
		{"json", "j"},
		{"markdown", "m"},
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
		})
	}

	t.Run("rejects a single run id", func(t *testing.T) {
		t.Parallel()

		if err := cmd.Args(cmd, []string{"only-one"}); err == nil {
			t.Error("expected error for one argument")
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestRunCompareCmd(t *testing.T) {
	t.Parallel()

	dir, ids := setupHistory(t)

	run := func(t *testing.T, args ...string) (string, error) {
		t.Helper()

		var out bytes.Buffer
		cmd := NewCompareCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"--db-dir", dir}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	t.Run("text comparison of latest runs", func(t *testing.T) {
		t.Parallel()

		out, err := run(t)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Comparação: shop.com", "MELHOROU", "Novos problemas (1)", "Problemas resolvidos (1)", "[+] [MÉDIO]", "[-] [CRÍTICO]"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("json comparison by id prefix", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, "--json", shortID(ids[1]), shortID(ids[0]))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var c history.Comparison
		if err := json.Unmarshal([]byte(out), &c); err != nil {
			t.Fatalf("invalid json: %v\n%s", err, out)
		}
		if c.From.ID != ids[0] || c.To.ID != ids[1] {
			t.Errorf("expected from=%s to=%s, got from=%s to=%s", ids[0], ids[1], c.From.ID, c.To.ID)
		}
		if c.Trend != history.TrendImproved {
			t.Errorf("got %q, expected %q", c.Trend, history.TrendImproved)
		}
	})

	t.Run("markdown comparison", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, "-m")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"# Comparação: shop.com", "| Criticidade |", "~~**[CRÍTICO]** title: Sem título"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		if _, err := run(t, "-j", "-m"); err == nil {
			t.Error("expected error for --json with --markdown")
		}
	})

	t.Run("list runs", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, "--list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, id := range ids {
			if !strings.Contains(out, shortID(id)) {
				t.Errorf("expected list to contain %s, got:\n%s", shortID(id), out)
			}
		}
		if !strings.Contains(out, "CRÍTICO:1") {
			t.Errorf("expected criticality summary in list, got:\n%s", out)
		}
	})

	t.Run("unknown label has not enough runs", func(t *testing.T) {
		t.Parallel()

		if _, err := run(t, "-l", "other.com"); !errors.Is(err, history.ErrNotEnoughRuns) {
			t.Errorf("expected ErrNotEnoughRuns, got %v", err)
		}
	})

	t.Run("missing history", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		cmd := NewCompareCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--db-dir", filepath.Join(t.TempDir(), "none")})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error when the history does not exist")
		}
	})
}

func TestFormatCriticalitySummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		summary map[string]int
		want    string
	}{
		{"ordered by criticality", map[string]int{"BAIXO": 2, "CRÍTICO MÁXIMO": 1, "ALTO": 0}, "CRÍTICO MÁXIMO:1 BAIXO:2"},
		{"unknown labels last", map[string]int{"INFO": 3, "MÉDIO": 1}, "MÉDIO:1 INFO:3"},
		{"empty", nil, "sem problemas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatCriticalitySummary(tt.summary); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestCriticalityRows(t *testing.T) {
	t.Parallel()

	c := &history.Comparison{
		From: history.RunMetadata{IssueCount: 3, CriticalitySummary: map[string]int{"CRÍTICO": 2, "BAIXO": 1}},
		To:   history.RunMetadata{IssueCount: 2, CriticalitySummary: map[string]int{"CRÍTICO": 1, "BAIXO": 1}},
	}
	want := [][]string{
		{"CRÍTICO MÁXIMO", "0", "0", "0"},
		{"CRÍTICO", "2", "1", "-1"},
		{"ALTO", "0", "0", "0"},
		{"MÉDIO", "0", "0", "0"},
		{"BAIXO", "1", "1", "0"},
		{"Total", "3", "2", "-1"},
	}
	if diff := cmp.Diff(want, criticalityRows(c)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTrend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		trend history.Trend
		want  string
	}{
		{history.TrendImproved, "MELHOROU"},
		{history.TrendDegraded, "PIOROU"},
		{history.TrendStable, "ESTÁVEL"},
	}
	for _, tt := range tests {
		if got := formatTrend(tt.trend); !strings.HasPrefix(got, tt.want) {
			t.Errorf("formatTrend(%q): got %q, expected prefix %q", tt.trend, got, tt.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{3, "+3"},
		{0, "0"},
		{-2, "-2"},
	}
	for _, tt := range tests {
		if got := formatDelta(tt.delta); got != tt.want {
			t.Errorf("formatDelta(%d): got %q, expected %q", tt.delta, got, tt.want)
		}
	}
}
