package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoaudit/internal/config"
	"github.com/nao1215/seoaudit/internal/dataset"
	"github.com/nao1215/seoaudit/internal/engine"
	"github.com/nao1215/seoaudit/internal/export"
	"github.com/nao1215/seoaudit/internal/history"
	"github.com/nao1215/seoaudit/internal/log"
	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/pagetype"
	"github.com/nao1215/seoaudit/internal/rules"
)

// stdoutPath selects standard output as the report destination.
const stdoutPath = "-"

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <records-file>...",
		Short: "Audit crawled pages and write a consolidated SEO report",
		Long: `Audit reads crawler records and reports SEO issues per category.

Each input file is either a JSON array of page records (.json) or one JSON
object per line (.jsonl, .ndjson). Fields that a record does not carry are
never reported as issues.

The report contains one section per category:
- Erros HTTP, Problemas Títulos, Problemas Meta
- Problemas Headings, H1 H2 Ausentes, Headings Vazias
- Problemas Imagens, Problemas Técnicos, Problemas Performance
- Mixed Content
plus the raw data and an executive summary.

Examples:
  # Write seoaudit_<timestamp>.xlsx in the current directory
  seoaudit audit crawl.json

  # Markdown report at a given path
  seoaudit audit -f markdown -o reports/site.md crawl.jsonl

  # JSON to standard output
  seoaudit audit -f json -o - crawl.json

  # Evaluate categories concurrently and skip the history
  seoaudit audit --parallel --no-history crawl.json

Configuration file (.seoaudit) example:
  label: shop.com
  thresholds:
    title_max_length: 65
    slow_response_seconds: 2.5
  page_types:
    blog: ["/blog/", "/post/"]
  disabled_reports: ["mixed_content"]`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: xlsx, markdown or json")
	cmd.Flags().StringP("output", "o", "",
		"Report path (default: seoaudit_<timestamp>.<ext>; '-' writes markdown/json to stdout)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoaudit in current or home directory)")
	cmd.Flags().BoolP("parallel", "p", false,
		"Evaluate categories concurrently")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of categories evaluated at once with --parallel")
	cmd.Flags().StringP("label", "l", "",
		"Site label in the history (default: host of the first record)")
	cmd.Flags().Bool("no-history", false,
		"Do not save this run in the history database")
	cmd.Flags().Bool("show-clear", false,
		"List categories without issues in the terminal summary")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	showClear, err := cmd.Flags().GetBool("show-clear")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAudit(ctx, cfg, logger, cmd.OutOrStdout(), showClear)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	var err error

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputPath, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Parallel, err = cmd.Flags().GetBool("parallel")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.Label, err = cmd.Flags().GetString("label")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist. Without one, a missing file means defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.Inputs = args
	return cfg, nil
}

// buildEngine creates the engine for cfg, leaving out disabled categories.
func buildEngine(cfg *config.Config, logger *slog.Logger) *engine.Engine {
	var packs []*rules.Pack
	for _, p := range rules.DefaultPacks() {
		if cfg.ReportEnabled(p.ID) {
			packs = append(packs, p)
		}
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithPacks(packs...),
		engine.WithEnv(rules.NewEnv(cfg.Thresholds, pagetype.New(cfg.PageTypes))),
	}
	if cfg.Parallel {
		opts = append(opts, engine.WithConcurrency(cfg.Concurrency))
	}
	return engine.New(opts...)
}

// runAudit loads the records, evaluates them, writes the report and saves
// the run in the history.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, showClear bool) error {
	logger.Info("starting audit",
		"inputs", cfg.Inputs,
		"format", cfg.Format,
		"parallel", cfg.Parallel,
		"saveToDB", cfg.SaveToDB,
	)

	records, err := dataset.LoadFiles(cfg.Inputs...)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if len(records) == 0 {
		logger.Warn("no records found in input", "inputs", cfg.Inputs)
	}

	startTime := time.Now()
	result, err := buildEngine(cfg, logger).Run(ctx, records)
	if err != nil {
		return fmt.Errorf("audit interrupted: %w", err)
	}
	for _, r := range result.FailedReports() {
		logger.Error("category failed", "category", r.Category, "error", r.Message)
	}

	bundle := export.NewBundle(result, records)
	toStdout := cfg.OutputPath == stdoutPath
	if err := writeReport(ctx, cfg, bundle, out); err != nil {
		return err
	}

	// Keep standard output clean when it carries the report itself.
	summaryOut := out
	if toStdout {
		summaryOut = io.Discard
	}
	if _, err := export.NewTextWriter(summaryOut, export.WithShowClear(showClear)).Write(result); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if err := saveRun(ctx, cfg, records, result, logger, summaryOut); err != nil {
		logger.Error("failed to save run to history", "error", err)
	}

	fmt.Fprintf(summaryOut, "Auditoria concluída em %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// writeReport writes the report to standard output or to a file.
func writeReport(ctx context.Context, cfg *config.Config, bundle export.Bundle, out io.Writer) error {
	if cfg.OutputPath == stdoutPath {
		var enc export.Encoder
		switch cfg.Format {
		case config.FormatJSON:
			enc = export.NewJSONEncoder(export.WithPrettyPrint())
		case config.FormatMarkdown:
			enc = export.NewMarkdownEncoder()
		default:
			return &export.Error{Name: stdoutPath, Format: cfg.Format,
				Err: errors.New("binary format cannot be written to standard output")}
		}
		if err := enc.Encode(out, bundle); err != nil {
			return &export.Error{Name: stdoutPath, Format: cfg.Format, Err: err}
		}
		return nil
	}

	path := cfg.OutputPath
	if path == "" {
		path = export.DefaultFileName(config.DefaultReportBaseName, cfg.Format, bundle.GeneratedAt)
	}
	exporter, err := export.New(cfg.Format, path)
	if err != nil {
		return err
	}
	written, err := exporter.Export(ctx, bundle)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Relatório salvo em: %s\n", written)
	return nil
}

// saveRun stores the result in the history database when enabled.
func saveRun(ctx context.Context, cfg *config.Config, records []model.Record, result *model.AuditResult, logger *slog.Logger, out io.Writer) error {
	if !cfg.SaveToDB {
		return nil
	}

	store, err := history.Open(cfg.DBDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	label := siteLabel(cfg.Label, records)
	id, err := store.SaveRun(ctx, label, len(records), result)
	if err != nil {
		return err
	}

	logger.Info("run saved to history", "id", id, "label", label, "dir", cfg.DBDir)
	fmt.Fprintf(out, "Execução salva no histórico: %s (%s)\n", shortID(id), label)
	return nil
}

// siteLabel returns label, or the host of the first record with a parsable URL.
func siteLabel(label string, records []model.Record) string {
	if label != "" {
		return label
	}
	for _, rec := range records {
		if u, err := url.Parse(rec.URL); err == nil && u.Host != "" {
			return u.Hostname()
		}
	}
	return "unknown"
}

// shortID returns the first eight characters of a run id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
