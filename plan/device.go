package plan

// DefaultMinTouch is the minimum touch-target edge length, in points,
// assumed when no device profile is supplied.
const DefaultMinTouch = 44.0

// Device exposes the only device constraint this compiler consumes: the
// minimum touch-target size used by the post-compile advisory check.
// Enforcement at render time is a collaborator's concern.
type Device interface {
	MinTouchSize() float64
}

// Profile is a minimal device profile suitable for the advisory check.
type Profile struct {
	Name     string  `json:"name,omitempty"      yaml:"name,omitempty"`
	MinTouch float64 `json:"min_touch,omitempty" yaml:"min_touch,omitempty"`
}

// MinTouchSize implements [Device], falling back to [DefaultMinTouch]
// when the profile does not declare a positive value.
func (p Profile) MinTouchSize() float64 {
	if p.MinTouch > 0 {
		return p.MinTouch
	}

	return DefaultMinTouch
}
