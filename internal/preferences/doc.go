// Package preferences persists user-wide settings (cached version-check
// results, package manager choice, named presets) in a JSON document under
// the user's home directory. Documents are validated against an embedded
// JSON Schema; invalid documents produce warnings but remain readable.
package preferences
