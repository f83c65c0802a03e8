package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/rules"
)

// ErrorMarkerPrefix starts the message of a failed report.
const ErrorMarkerPrefix = "Erro: "

// CategoryError describes a rule pack that failed during evaluation.
type CategoryError struct {
	// Category is the pack identifier.
	Category string

	// Rule is the rule being evaluated when the failure happened, if known.
	Rule string

	// Cause is the recovered panic value.
	Cause any
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("category %s: %v", e.Category, e.Cause)
	}
	return fmt.Sprintf("category %s, rule %s: %v", e.Category, e.Rule, e.Cause)
}

// Unwrap returns the cause when it is an error.
func (e *CategoryError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Engine evaluates rule packs over a record set and assembles the result.
// An Engine is safe for concurrent use once built.
type Engine struct {
	// packs are the categories to evaluate, in report order.
	packs []*rules.Pack

	// env is shared read-only by every rule.
	env *rules.Env

	// logger receives per-category progress and failures.
	logger *slog.Logger

	// concurrency is the number of categories evaluated at once.
	// 1 means sequential evaluation.
	concurrency int

	// now stamps the result.
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPacks replaces the default category packs.
func WithPacks(packs ...*rules.Pack) Option {
	return func(e *Engine) {
		e.packs = packs
	}
}

// WithEnv sets the thresholds and classifier shared by the rules.
func WithEnv(env *rules.Env) Option {
	return func(e *Engine) {
		if env != nil {
			e.env = env
		}
	}
}

// WithConcurrency evaluates up to n categories at once. Values below 2 keep
// evaluation sequential.
//
// Design decision: Categories never read each other's output, so evaluating
// them concurrently cannot change the result. Results are stored by pack
// index, which keeps the report order identical to a sequential run; only
// the interleaving of log lines differs.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithClock sets the function used to stamp results. Tests use it to get
// deterministic output.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine with every default pack, sequential evaluation and
// the default thresholds.
func New(opts ...Option) *Engine {
	e := &Engine{
		packs:       rules.DefaultPacks(),
		env:         rules.DefaultEnv(),
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Packs returns the packs evaluated by the engine, in report order.
func (e *Engine) Packs() []*rules.Pack {
	return e.packs
}

// Run evaluates every pack over records and returns the assembled result.
//
// A pack that panics yields a failed report carrying an error marker; the
// other packs are unaffected and Run still succeeds. The only error Run
// returns is the context's, when it is cancelled before every category has
// been evaluated.
func (e *Engine) Run(ctx context.Context, records []model.Record) (*model.AuditResult, error) {
	start := e.now()
	e.logger.Debug("starting audit",
		"records", len(records),
		"categories", len(e.packs),
		"concurrency", e.concurrency,
	)

	reports := make([]model.Report, len(e.packs))

	if len(records) == 0 {
		for i, p := range e.packs {
			reports[i] = allClear(p)
		}
	} else if e.concurrency <= 1 {
		for i, p := range e.packs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			reports[i] = e.evaluate(p, records)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.concurrency)
		for i, p := range e.packs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				// Each goroutine owns exactly one slot.
				reports[i] = e.evaluate(p, records)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	result := &model.AuditResult{
		Reports:     reports,
		Summary:     BuildSummary(records, e.env.Thresholds),
		GeneratedAt: start,
	}

	e.logger.Debug("audit complete",
		"records", len(records),
		"issues", result.TotalIssues(),
		"failed_categories", len(result.FailedReports()),
	)
	return result, nil
}

// evaluate runs one pack and assembles its report, converting a panic into
// a failed report.
func (e *Engine) evaluate(p *rules.Pack, records []model.Record) (report model.Report) {
	var current string
	defer func() {
		if r := recover(); r != nil {
			err := &CategoryError{Category: p.ID, Rule: current, Cause: r}
			e.logger.Error("category evaluation failed",
				"category", p.ID,
				"rule", current,
				"error", err,
			)
			report = failed(p, err)
		}
	}()

	drafts := detect(p, records, e.env, &current)
	issues := Consolidate(p, drafts)
	report = Assemble(p, issues)

	e.logger.Debug("category evaluated",
		"category", p.ID,
		"drafts", len(drafts),
		"issues", len(issues),
	)
	return report
}

// Assemble wraps the consolidated issues of p into a report. An empty issue
// list yields the pack's all-clear marker instead of an empty table.
func Assemble(p *rules.Pack, issues []model.Issue) model.Report {
	if len(issues) == 0 {
		return allClear(p)
	}
	return model.Report{
		Category: p.ID,
		Name:     p.Name,
		Columns:  p.Columns,
		Issues:   issues,
		Status:   model.ReportStatusIssues,
	}
}

func allClear(p *rules.Pack) model.Report {
	return model.Report{
		Category: p.ID,
		Name:     p.Name,
		Columns:  p.Columns,
		Status:   model.ReportStatusAllClear,
		Message:  p.AllClear,
	}
}

func failed(p *rules.Pack, err error) model.Report {
	return model.Report{
		Category: p.ID,
		Name:     p.Name,
		Columns:  p.Columns,
		Status:   model.ReportStatusFailed,
		Message:  ErrorMarkerPrefix + err.Error(),
	}
}
