// Package cli defines the Cobra command tree for the box CLI. Each file in
// this package registers one top-level command (invoke, config, preset,
// etc.) with the root command. Command implementations delegate to internal
// packages for business logic and only handle argument parsing, I/O
// formatting, and user interaction.
package cli
