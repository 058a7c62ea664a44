// Package generator applies plugin generators to a project snapshot and
// writes the resulting manifest and files back to disk. It does no
// templating: plugins hand it finished file contents.
package generator
