// Package server exposes the FinanceHub HTTP surface: JSON read endpoints
// for market data and news, authenticated favorites and login, admin-gated
// margin updates and user listing, and the /ws push endpoint.
//
// Status mapping: absent key 404, malformed input 400, missing identity 401,
// missing role 403, storage failure 500. Validation happens here, before the
// store is touched.
package server
