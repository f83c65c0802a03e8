package config

import (
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"

	"github.com/nao1215/seoaudit/internal/pagetype"
)

// Output formats supported by the audit command.
const (
	// FormatXLSX writes a multi-sheet workbook, one sheet per report.
	FormatXLSX = "xlsx"

	// FormatMarkdown writes a GitHub Flavored Markdown document.
	FormatMarkdown = "markdown"

	// FormatJSON writes the full audit result as JSON.
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatXLSX, FormatMarkdown, FormatJSON}

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "seoaudit"

	// DefaultFormat is the workbook format, the format SEO teams usually
	// share and filter by hand.
	DefaultFormat = FormatXLSX

	// DefaultConcurrency is the number of categories evaluated at once when
	// parallel evaluation is enabled. There are ten categories, so a small
	// number already removes most of the wall time on large record sets.
	DefaultConcurrency = 4

	// DefaultReportBaseName is the file name prefix used when no output path
	// is given. The exporter appends a timestamp and the format extension.
	DefaultReportBaseName = "seoaudit"
)

// Config holds all configuration options for a seoaudit run.
// This struct is populated from CLI flags and the optional configuration file,
// then passed through the application rather than kept in global state.
//
// Design decision: We keep a single flat struct for run options and group
// only the rule tuning (Thresholds, PageTypes) into sub-structs, because those
// two are loaded as whole sections of the configuration file.
type Config struct {
	// Inputs are the record files to audit (.json arrays or .jsonl/.ndjson).
	Inputs []string

	// Format is the report output format. One of Formats.
	Format string

	// OutputPath is the report destination. When empty a timestamped file
	// name is generated in the current directory (stdout for JSON/Markdown
	// when OutputPath is "-").
	OutputPath string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Parallel evaluates categories concurrently. The result is identical to
	// the sequential run.
	Parallel bool

	// Concurrency bounds the number of categories evaluated at once when
	// Parallel is set.
	Concurrency int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .seoaudit in the current directory,
	// the user's home directory and the XDG config directory.
	ConfigFilePath string

	// Thresholds are the rule cut-offs.
	Thresholds Thresholds

	// PageTypes are the URL segments used by the page-type classifier.
	PageTypes pagetype.Segments

	// DisabledReports lists report categories that are skipped.
	DisabledReports []string

	// Label names the audited site in the history store, e.g. "example.com".
	// When empty the host of the first record URL is used.
	Label string

	// SaveToDB stores the audit result in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to XDG data directory (~/.local/share/seoaudit on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
// All fields are set to sensible defaults that work for most audits.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (thresholds, format,
// concurrency). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Format:      DefaultFormat,
		Concurrency: DefaultConcurrency,
		Thresholds:  DefaultThresholds(),
		PageTypes:   pagetype.DefaultSegments(),
		SaveToDB:    true,
		DBDir:       XDGDataDir(),
	}
}

// ApplyFile copies the rule tuning of a configuration file into c.
// A nil file leaves c untouched.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.Thresholds = f.Thresholds
	c.PageTypes = f.PageTypes
	c.DisabledReports = append([]string(nil), f.DisabledReports...)
	if c.Label == "" {
		c.Label = f.Label
	}
}

// ReportEnabled reports whether the category is not disabled.
func (c *Config) ReportEnabled(category string) bool {
	return !slices.Contains(c.DisabledReports, category)
}

// XDGDataDir returns the XDG data directory for seoaudit.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/seoaudit
// On macOS: ~/Library/Application Support/seoaudit
// On Windows: %LOCALAPPDATA%\seoaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seoaudit.
// On Linux: ~/.config/seoaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any record is read.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if !slices.Contains(Formats, c.Format) {
		return ErrInvalidFormat
	}

	if c.Parallel && c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	return c.Thresholds.Validate()
}
