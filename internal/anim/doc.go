// Package anim provides the animation sequencing engine for effectlab.
//
// The engine serializes timed visual mutations (fades, slides, moves and
// batched group effects) against named targets on a rendering surface.
// Callers enqueue tasks through an Engine handle; a single dispatcher pulls
// one task at a time, runs it through the executor and advances only once
// the task's completion signal resolves.
//
// # Architecture
//
//	caller ──► Engine (facade) ──► TaskQueue ──► Dispatcher
//	                                                 │
//	                                                 ▼
//	                              Executor ◄── Config snapshot
//	                                 │
//	               ┌─────────────────┼──────────────────┐
//	               ▼                 ▼                  ▼
//	           Surface        BaselineRegistry     notify.Bus
//
// # Completion detection
//
// Most operations complete on a fixed timer derived from the configured
// duration. Slides wait for the surface to report that the height transition
// finished, bounded by a fallback timer of duration + 80ms. Marker toggles use
// a fixed 120ms timer regardless of the configured duration.
//
// # Configuration snapshot
//
// The Config is read exactly once per task, when that task starts. Changing
// the duration or easing while a task runs only affects tasks that have not
// started yet.
//
// # Cancellation
//
// StopAll is the only cancellation primitive. It empties the queue, abandons
// the in-flight task and freezes every known target at the value the surface
// currently reports. Restore reverts a single target to the values first
// observed for it.
//
// # Thread Safety
//
// All engine state is owned by a serial execution context. Facade calls,
// timer callbacks and surface signals post closures into it; exactly one
// goroutine drains them at a time. State returns a published copy and never
// waits on the drain, so it is safe to call from notification observers.
package anim
