// Package store is the persistence layer of the FinanceHub backend.
//
// Three market entity kinds (stocks, currency pairs, indices) share one
// upsert pattern: insert-or-replace keyed on a natural business key, with
// UpdatedAt refreshed on every write. News is append-only; favorites are
// add/remove by (user, type, id) triple; users are upserted on login keyed
// by the external identity subject.
//
// Two implementations carry the same contract: Postgres (production, upsert
// atomicity delegated to ON CONFLICT on the schema's unique constraints) and
// Memory (demo mode and tests).
package store
