// Package engine implements the plan lifecycle and persistence
// synchronization engine: profile intake, generation admission control,
// draft-isolated editing, the completion ledger, and the load-before-write
// persistence gate.
//
// All state transitions are serialized under one engine mutex. The only
// long-running call - plan generation - runs outside the lock and its
// result is applied in a second serialized turn guarded by a generation
// token, so a superseded result is discarded instead of clobbering newer
// state. Durable writes are handed to the Synchronizer, a single background
// worker that never blocks a state transition.
package engine
