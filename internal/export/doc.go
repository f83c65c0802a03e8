// Package export renders audit results for people and tools.
//
// This package contains encoders for the supported artifact formats:
//   - XLSXEncoder: a workbook with the raw data, the executive summary and
//     one sheet per category report
//   - MarkdownEncoder: a document for pull requests and wikis
//   - JSONEncoder: structured output for tool integration
//
// TextWriter prints a short overview for the terminal.
//
// Design decision: The engine hands over a Bundle and never sees a file
// format. Encoders only write to an io.Writer, and FileExporter owns the
// file handling, so a new format is a new Encoder and nothing else.
package export
