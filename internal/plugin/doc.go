// Package plugin resolves generator plugins declared in a project manifest
// and loads their capability bundles.
//
// A bundle pairs a generator with an optional prompt source. Bundles come
// from a Loader: an in-process Registry for plugins compiled into the
// binary, or a ScriptLoader that interprets Go scripts shipped inside the
// plugin package under node_modules.
package plugin
