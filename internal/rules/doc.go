// Package rules holds the detection rules of seoaudit, grouped into one
// ordered pack per report category.
//
// # Purpose
//
// A rule is a pure function over audited page records. It never performs I/O,
// never mutates its input and never fails: when a record does not carry the
// fields a rule needs, the rule is simply not applied to it.
//
// # Design Philosophy
//
// Each category is a Pack: a display name, a declared column list, an all
// clear marker, an ordered rule list and an optional secondary sort key.
// The pack is plain data rather than an interface with one implementation
// per category because:
//  1. The engine treats every category identically
//  2. Rule order inside a pack is meaningful and should be visible in one place
//  3. Tests can build ad hoc packs without defining new types
//
// Two rule kinds share the Rule type. Record rules look at one page at a time.
// Dataset rules see the whole record set and are used for cross-page checks
// such as duplicate titles.
//
// # Categories
//
//   - status: HTTP status codes other than 200
//   - title, meta: presence, length and uniqueness
//   - headings, h1_h2, empty_headings: heading outline
//   - images: ALT text, broken images, image count and dimensions
//   - technical: canonical, robots directives, head markup, structured data
//   - performance: response time, page weight, resource count, text ratio
//   - mixed_content: HTTP resources on HTTPS pages, HTTP links and forms
//
// All numeric cut-offs come from config.Thresholds.
package rules
