// Package seed provides the synthetic market-data source: a deterministic
// sample dataset applied through the store's upsert path, and a background
// refresher that jitters prices so the push channel has movement to show.
package seed
