// Package config loads the YAML runtime configuration. Values from the
// file are merged over Defaults; command-line flags override both.
package config
