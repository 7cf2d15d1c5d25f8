// Package config defines the application configuration structure and
// loading logic. Configuration is sourced from environment variables and an
// optional config file, then validated before use.
package config
