// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct
// tags. Every key has a usable default, so a missing file is not an
// error. The upstream API credential is deliberately kept out of the
// file: it is read from the environment at run time.
package config
