// Package plan defines the shared domain types for a user's weekly fitness
// plan and the pure rules that operate on them: deep-copy isolation, typed
// edit operations, the completion ledger, and the BMI derivation.
//
// Everything in this package is pure and synchronous. Ownership, persistence
// and sequencing live in internal/engine.
package plan
