// Package model defines the shared data types of the FinanceHub backend.
//
// Conventions:
//   - Monetary and rate fields: decimal.Decimal (exact, never binary float)
//   - Display-only magnitudes (volume, market cap): preformatted strings
//   - Natural keys: ticker/pair symbols and index names, unique per kind
//   - Timestamps: time.Time in UTC
package model
