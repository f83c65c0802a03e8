// Package log provides secure logging built on top of the standard slog package.
//
// The SecureHandler masks sensitive information before it reaches the
// underlying handler:
//   - values under sensitive keys (Authorization, Cookie, token, session)
//   - bearer, basic and JWT credentials detected by pattern
//   - session ids, tokens and signatures in the query string of crawled URLs
//
// Audited URLs are logged often (failed categories, skipped records), and
// crawler exports regularly capture URLs with session or signed parameters.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("record skipped", "url", "https://shop.com/p?sid=abc&page=2")
//	// url=https://shop.com/p?sid=***REDACTED***&page=2
package log
