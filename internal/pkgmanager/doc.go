// Package pkgmanager drives the project's JavaScript package manager (npm,
// yarn or pnpm) and queries the package registry for published versions.
package pkgmanager
