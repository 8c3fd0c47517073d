// Package config loads and validates the application configuration.
//
// Configuration is read from an optional config.yml, an optional .env
// file, and environment variables, in increasing precedence. Struct
// fields carry validate tags; cross-field constraints that tags cannot
// express are checked programmatically.
package config
