// Package trace records what the compiler driver is doing.
//
// Enable tracing via command-line flags:
//
//	dmc check --trace=- --trace-level=phase main.dms
//
// Events are grouped in spans. The driver opens one span per unit and one
// per phase (preprocess, tokenize, parse, sema). Every event carries the
// session id of the run so traces of parallel invocations can be told apart.
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelPhase: Driver and phase boundaries
//   - LevelDetail: Unit-level events
//   - LevelDebug: Everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
