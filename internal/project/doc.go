// Package project reads and writes the package.json manifest of a
// JavaScript project and snapshots the project's files.
package project
