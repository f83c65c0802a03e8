// Package history provides SQLite-based storage for audit runs.
//
// Every audit can be saved with a label naming the site. Stored runs can be
// listed, read back in full, and compared: Diff reports the issues that
// appeared and the ones that were resolved between two runs.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// history is a single local file and the CGO-free driver keeps the binary
// easy to cross-compile.
package history
