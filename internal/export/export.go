package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/seoaudit/internal/model"
)

// Format names.
const (
	FormatXLSX     = "xlsx"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Fixed sheet and section names.
const (
	RawDataName = "Dados Completos"
	SummaryName = "Resumo Executivo"
)

// ErrUnknownFormat is returned by New for a format it cannot produce.
var ErrUnknownFormat = errors.New("unknown export format")

// Bundle is everything an exporter receives from the engine: the ordered
// reports, the summary, and the raw record set with its column order.
type Bundle struct {
	// Reports are the category reports, in display order.
	Reports []model.Report `json:"reports"`

	// Summary is the executive summary.
	Summary model.Summary `json:"summary"`

	// RawColumns is the column order of the raw-data view.
	RawColumns []string `json:"raw_columns"`

	// RawRows holds one row per record keyed by column.
	RawRows []map[string]any `json:"raw_rows"`

	// GeneratedAt is when the audit ran.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewBundle builds a Bundle from an engine result and the records it was
// computed from.
func NewBundle(result *model.AuditResult, records []model.Record) Bundle {
	columns, rows := model.RawTable(records)
	return Bundle{
		Reports:     result.Reports,
		Summary:     result.Summary,
		RawColumns:  columns,
		RawRows:     rows,
		GeneratedAt: result.GeneratedAt,
	}
}

// Error is an export failure. Name identifies what failed: the target file,
// or the report being written when the failure is local to one report.
type Error struct {
	Name   string
	Format string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("failed to export %s as %s: %v", e.Name, e.Format, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Encoder writes a bundle to an output stream in one format.
type Encoder interface {
	Encode(w io.Writer, b Bundle) error
}

// Exporter persists a bundle and returns where it was written.
//
// Design decision: The engine only knows this interface. File naming and the
// physical format are decided here, so the same audit can be written as a
// workbook for analysts and as Markdown for a pull request comment.
type Exporter interface {
	// Export writes the bundle and returns the artifact path.
	// Failures are returned as *Error.
	Export(ctx context.Context, b Bundle) (string, error)

	// Format returns the format name.
	Format() string
}

// FileExporter writes a bundle to a file through an Encoder.
type FileExporter struct {
	path    string
	format  string
	encoder Encoder
}

// NewFileExporter creates an exporter writing to path.
func NewFileExporter(path, format string, encoder Encoder) *FileExporter {
	return &FileExporter{path: path, format: format, encoder: encoder}
}

// New returns a file exporter for format.
func New(format, path string) (*FileExporter, error) {
	var enc Encoder
	switch format {
	case FormatXLSX:
		enc = NewXLSXEncoder()
	case FormatMarkdown:
		enc = NewMarkdownEncoder()
	case FormatJSON:
		enc = NewJSONEncoder(WithPrettyPrint())
	default:
		return nil, &Error{Name: path, Format: format, Err: ErrUnknownFormat}
	}
	return NewFileExporter(path, format, enc), nil
}

// Format returns the format name.
func (e *FileExporter) Format() string {
	return e.format
}

// Path returns the target path.
func (e *FileExporter) Path() string {
	return e.path
}

// Export writes the bundle to the target path. The parent directory is
// created when missing. A partially written file is removed on failure.
func (e *FileExporter) Export(ctx context.Context, b Bundle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", e.wrap(err)
	}

	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", e.wrap(err)
		}
	}

	f, err := os.Create(filepath.Clean(e.path))
	if err != nil {
		return "", e.wrap(err)
	}

	if err := e.encoder.Encode(f, b); err != nil {
		_ = f.Close()         //nolint:errcheck // already failing
		_ = os.Remove(e.path) //nolint:errcheck // best effort cleanup
		return "", e.wrap(err)
	}
	if err := f.Close(); err != nil {
		return "", e.wrap(err)
	}
	return e.path, nil
}

// wrap converts err to *Error, keeping a more specific *Error from the encoder.
func (e *FileExporter) wrap(err error) error {
	var exportErr *Error
	if errors.As(err, &exportErr) {
		return exportErr
	}
	return &Error{Name: e.path, Format: e.format, Err: err}
}

// DefaultFileName builds "<base>_<timestamp>.<ext>" for a format.
func DefaultFileName(base, format string, at time.Time) string {
	ext := format
	if format == FormatMarkdown {
		ext = "md"
	}
	return fmt.Sprintf("%s_%s.%s", base, at.Format("20060102_150405"), ext)
}

// cellText renders a cell value for text based formats.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
