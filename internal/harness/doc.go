// Package harness runs YAML-defined lifecycle scenarios against the real
// engine and compares the resulting state trace to golden files.
//
// Each scenario runs in a fresh in-memory SQLite database with a fixed
// clock, a fixed token source, and a scripted plan generator, so traces
// are byte-for-byte reproducible. Steps drive actual engine operations;
// nothing in the trace is manufactured from the expectations.
package harness
