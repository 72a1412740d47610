// Package cli contains the command line interface for spyview.
//
// # Usage
//
//	spyview [flags] [view]          browse stacks in the terminal
//	spyview ps                      list Python processes
//	spyview dump --pid 4242         print one dump
//	spyview serve --addr :8642      HTTP host
//	spyview history list | show ID  recorded dumps
//	spyview install                 fetch py-spy into the cache
//	spyview init                    write the configuration file
//
// # Configuration
//
// Flags may also be set in config.yaml under the user configuration
// directory, one key per flag. Command-line flags take precedence. Use
// "spyview init" to write the current values.
//
//	log-level: debug
//	where: Label == "app.py"
//	history-keep: 100
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: text or json
//   - --log-time-layout: timestamp layout name or Go layout
//   - --log-file: append to a file; the terminal viewer logs to spyview.log
//     in the cache directory unless this is set
//   - --log-caller, --log-pretty
//
// # Profiling Options
//
// Only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profile kind (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: output directory (default: <cache>/pprof)
package cli
