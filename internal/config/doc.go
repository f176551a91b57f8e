// Package config loads, normalizes, and validates cutlist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CUTLIST_API_TOKEN environment
// fallback. Title resource files (strategies, blacklist, series index) are
// optional; when set they must exist.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
