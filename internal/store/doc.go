// Package store is the SQLite implementation of the per-user profile
// store: one upserted profile record per user (profile and committed plan
// as JSON columns) plus an append-only workout log.
//
// The engine depends only on the engine.ProfileStore contract; this
// package is the durable implementation of it.
package store
