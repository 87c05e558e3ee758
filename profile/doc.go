// Package profile wraps github.com/pkg/profile behind the pprof build
// tag so profiling support costs nothing in default builds. The CLI
// exposes the available modes as a flag enum.
package profile
