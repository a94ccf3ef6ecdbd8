// Package database provides PostgreSQL connection pool management and schema
// bootstrap for the FinanceHub backend.
//
// All five logical tables are created idempotently at startup. Natural-key
// uniqueness (stock symbol, pair symbol, index name and symbol, user email)
// is enforced by the schema, not by application logic.
package database
