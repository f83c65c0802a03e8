// Package engine evaluates rule packs over a record set and assembles the
// category reports and the executive summary.
//
// The flow for each category is Detect, then Consolidate, then Assemble:
//
//	records -> Detect -> drafts -> Consolidate -> issues -> Assemble -> report
//
// Categories are independent. A failure inside one category is recovered
// and turned into a report carrying an error marker, so one broken rule never
// hides the findings of the others.
//
// The summary is computed once over the whole record set and does not depend
// on the category reports.
package engine
