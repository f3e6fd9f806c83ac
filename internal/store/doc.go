// Package store provides SQLite-backed durable storage for generated scenes.
//
// The store keeps two tables:
//   - scenes: content-addressed Scene-IR documents (id = ir.SceneID)
//   - generations: one record per model call, successful or not
//
// # Patterns
//
// Content-addressed, idempotent writes
//   - Scene ids are SHA-256 over canonical JSON, so writing the same scene
//     twice is a no-op (INSERT ... ON CONFLICT(id) DO NOTHING)
//
// Deterministic query results
//   - All list queries order by: seq ASC, id ASC COLLATE BINARY
//   - seq is the insertion counter, never a timestamp
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
