// Package snapshot assembles the full-market view pushed to dashboard
// clients: all stocks, all currency pairs, all indices, and the ten most
// recent news articles, read concurrently from the store.
package snapshot
