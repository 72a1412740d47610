// Package profile starts optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	spyview --pprof-mode cpu --pprof-dir ./profiles dump --pid 4242
//
// Without the tag, [Start] always returns a no-op [Stopper] and [Modes]
// reports nothing. With the tag, the package also imports [net/http/pprof],
// so the /debug/pprof/ handlers are available to any server that uses
// [net/http.DefaultServeMux].
//
// Analyze the output with the pprof tool:
//
//	go tool pprof -http=: ./profiles/cpu.pprof
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
