// Package config loads the bridge configuration file.
//
// Loading happens in three steps: strict YAML decoding over DefaultFile,
// TAGBRIDGE_* environment overrides, then Validate. BuildTable turns the
// mapping sections into an address.Table.
package config
