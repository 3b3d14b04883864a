// Package diag defines the diagnostic model shared by the lexer, the driver
// and the CLI.
//
// Diagnostic is the central record: a Severity, a compact numeric Code with a
// stable string form (LEX1001, IO4001, ...), a short Message, the Primary span
// and optional Notes pointing at related locations.
//
// Producers emit through a Reporter so they are not coupled to storage. The
// lenient lexer reports every skipped character this way; the driver collects
// them with BagReporter into a Bag, which enforces the --max-diagnostics limit
// and supports sorting and deduplication.
//
// Package diag performs no formatting or IO. Rendering lives in internal/diagfmt.
package diag
