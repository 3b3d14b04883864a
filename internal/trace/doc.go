// Package trace is the structured event log of minilex.
//
// Tracing is off by default. When enabled from the CLI the driver opens one
// span per run and one per file, and the lexer emits point events for sealed
// tokens and skipped characters:
//
//	minilex tokenize --trace=- --trace-level=detail src/
//
// # Tracers
//
//   - Nop: zero-overhead no-op tracer
//   - StreamTracer: immediate write to a file or stderr (text or NDJSON)
//   - RingTracer: in-memory circular buffer, dumped on demand
//   - MultiTracer: fan-out to several tracers
//
// # Levels and scopes
//
// LevelError lets through only KindError events. LevelPhase adds ScopeDriver
// spans, LevelDetail adds ScopeFile, LevelDebug adds ScopeToken.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "lex", parent)
//	defer span.End("")
package trace
