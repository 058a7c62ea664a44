// Package prompt defines the question model plugins use to request options
// and a line-oriented terminal implementation that asks them.
package prompt
