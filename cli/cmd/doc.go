// Package cmd implements the spyview subcommands.
//
// Every command has a Run(context.Context) method called by kong. The
// context carries the parsed [kong.Context] and the global [Options].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
