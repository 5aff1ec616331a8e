// Package trace records what the symbol table and the front end do while a
// file is analyzed.
//
// Enable tracing via command-line flags:
//
//	symtab dump --trace=- --trace-level=detail Library.java
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope describing their granularity: ScopeDriver (CLI
// commands), ScopePass (one analyzed file), ScopeTable (scope creation and
// teardown) and ScopeNode (individual inserts and lookups). The Level decides
// which scopes are emitted: phase keeps driver and pass events, detail adds
// table events, debug keeps everything.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "analyze", parentID)
//	defer span.End("")
package trace
