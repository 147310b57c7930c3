// Package config loads and validates the server configuration from
// environment variables and an optional config file. It gives the rest of
// the application type-safe access to settings (HTTP port, data directory,
// auth secrets, LLM credentials) without spreading lookup logic around.
package config
