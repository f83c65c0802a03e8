// Package main provides the entry point for the seoaudit CLI.
//
// seoaudit reads the page records produced by a site crawler, detects SEO
// issues per category and writes a consolidated report.
//
// Usage:
//
//	seoaudit audit crawl.json
//	seoaudit audit -f markdown -o report.md crawl.jsonl
//	seoaudit compare
//
// See --help for all available options.
package main

// main is the entry point for seoaudit.
func main() {
	Execute()
}
