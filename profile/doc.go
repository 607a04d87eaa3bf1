// Package profile wraps [github.com/pkg/profile] so that runtime profiling
// can be compiled in on demand.
//
// Profiling is only available in binaries built with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] returns a no-op [Stopper] and [Modes] is
// empty, and neither this package nor its callers pull in the profiler.
//
// With the tag, nixeval accepts --pprof-mode and --pprof-dir:
//
//	nixeval --pprof-mode cpu eval big.nix
//	go tool pprof -http=: ~/.cache/nixeval/pprof/cpu.pprof
//
// Building with the tag also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile
