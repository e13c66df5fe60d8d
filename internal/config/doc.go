// Package config loads, normalizes, and validates phototools configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts) and reads TOML files. The Config type centralizes the copy
// behaviour, external tool names, video reader selection, logging and journal
// settings so the CLI can resolve everything in one pass before flags are
// layered on top.
package config
