// Package ui renders user-facing CLI output: styled status lines and a
// spinner for long-running steps. Styles degrade to plain text when the
// destination is not a terminal.
package ui
