// Package config loads and validates server configuration from YAML.
//
// Config files may reference environment variables with ${VAR} syntax;
// they are expanded before parsing. Defaults are applied for every optional
// field, so a minimal file only needs the database credentials — or just
// `storage: {driver: memory}` for a database-free demo run.
package config
