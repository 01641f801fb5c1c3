// Package config handles application configuration loading and validation.
//
// Configuration is loaded from a YAML file and validated using struct tags.
// Every setting has a sensible default, so running without a config file is
// fine.
package config
