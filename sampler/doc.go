// Package sampler drives the external py-spy stack sampler.
//
// A [Locator] finds a usable py-spy executable: an explicit path, one on
// PATH, or a private copy under the cache directory, installing that copy
// with pip when nothing else is available. A [Sampler] runs `py-spy dump`
// against a pid and returns its text output for the stack package to parse.
package sampler
