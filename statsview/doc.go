// Package statsview is an optional package that is built only when the
// statsview build constraint is present.
//
// It provides a local HTTP server offering runtime statistics of the
// emulator process, using "github.com/go-echarts/statsview".
//
// After launch, graphs are viewable at:
//
//	localhost:12600/debug/statsview
//
// And the standard Go pprof pages at:
//
//	localhost:12600/debug/pprof/
package statsview
