// Package model defines the core data structures used throughout seoaudit.
//
// This package contains the following main types:
//   - Record: the metric set of one audited URL, with optional fields
//   - Criticality: the ordinal severity label of a finding
//   - Issue: one finding about one URL in one category
//   - Report: the ordered issues of one category, or its all-clear/error marker
//   - Summary: dataset wide statistics
//   - AuditResult: every report plus the summary of one run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The rule packs, the engine, the exporters and the history store
// all need these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// history storage.
package model
