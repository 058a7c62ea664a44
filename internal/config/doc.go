// Package config manages CLI-level settings stored at ~/.box/config.yaml and
// the BOX_* environment. It resolves the test/debug switches, the default
// package registry, and the location of the user preferences document.
package config
