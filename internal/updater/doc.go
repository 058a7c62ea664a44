// Package updater reports the running CLI version and the latest published
// release. Results are cached in the user preferences for a day; within that
// window the cached value is returned immediately and refreshed in the
// background for the next invocation.
package updater
