// Package invoke runs a single plugin generator against an existing
// project: it resolves the plugin from the manifest, gathers its options,
// applies the generator, installs new dependencies, runs completion hooks
// and reports what changed.
package invoke
