//go:build !pprof

package profile

// Tag names the build tag and default output subdirectory for profiling.
const Tag = "pprof"

// Enabled reports whether the binary was built with profiling support.
const Enabled = false

// Modes returns the list of supported profiling modes. Without the pprof
// build tag there are none.
func Modes() []string { return nil }

// Stopper stops a running profile session.
type Stopper interface{ Stop() }

// Start is a no-op without the pprof build tag.
func Start(string, string) Stopper { return noop{} }

type noop struct{}

func (noop) Stop() {}
