package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnknownProfile indicates a selector outside the closed set of profiles.
	ErrUnknownProfile = errors.New("field: unknown profile")

	// ErrCustomUndefined indicates the Custom profile was selected without a field function.
	ErrCustomUndefined = errors.New("field: custom profile has no field function")
)

// Profile selects a field model. The numeric values match the selectors
// accepted on the command line.
type Profile int

const (
	SimpleGyration Profile = iota + 1
	ExBDrift
	GradientDrift
	Custom
)

// Gradient profile field strengths on either side of x=0.
const (
	GradientLow  = 1.0
	GradientHigh = 3.5
)

// Sample is the field seen at one position.
type Sample struct {
	Magnetic r3.Vec
	Electric r3.Vec
}

// Func maps a position to the field at that position. Implementations
// must be pure.
type Func func(r r3.Vec) Sample

var names = map[Profile]string{
	SimpleGyration: "gyration",
	ExBDrift:       "exb",
	GradientDrift:  "gradient",
	Custom:         "custom",
}

func (p Profile) String() string {
	if n, ok := names[p]; ok {
		return n
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// Valid reports whether p is one of the declared profiles.
func (p Profile) Valid() bool {
	_, ok := names[p]
	return ok
}

// ParseProfile accepts a profile name or its numeric selector.
func ParseProfile(s string) (Profile, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		p := Profile(n)
		if !p.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrUnknownProfile, n)
		}
		return p, nil
	}
	for p, name := range names {
		if name == s {
			return p, nil
		}
	}
	switch s {
	case "simple_gyration", "simple-gyration":
		return SimpleGyration, nil
	case "exb_drift", "exb-drift", "e_cross_b":
		return ExBDrift, nil
	case "gradient_drift", "gradient-drift", "gradb":
		return GradientDrift, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProfile, s)
}

// Profiles lists the selectable profiles in selector order.
func Profiles() []Profile {
	return []Profile{SimpleGyration, ExBDrift, GradientDrift, Custom}
}

// Gyration is a uniform unit field along z with no electric field.
func Gyration(r r3.Vec) Sample {
	return Sample{Magnetic: r3.Vec{Z: 1}}
}

// ExB is a uniform unit B along z crossed with E=0.1 along y.
func ExB(r r3.Vec) Sample {
	return Sample{
		Magnetic: r3.Vec{Z: 1},
		Electric: r3.Vec{Y: 0.1},
	}
}

// Gradient is a coarse stand-in for a field gradient: Bz jumps from
// GradientLow to halfway towards GradientHigh for x>0.
func Gradient(r r3.Vec) Sample {
	bz := GradientLow
	if r.X > 0 {
		bz += 0.5 * (GradientHigh - GradientLow)
	}
	return Sample{Magnetic: r3.Vec{Z: bz}}
}

// Resolve returns the evaluator for p. The Custom profile is the extension
// point: it resolves to custom, which must be non-nil.
func Resolve(p Profile, custom Func) (Func, error) {
	switch p {
	case SimpleGyration:
		return Gyration, nil
	case ExBDrift:
		return ExB, nil
	case GradientDrift:
		return Gradient, nil
	case Custom:
		if custom == nil {
			return nil, ErrCustomUndefined
		}
		return custom, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownProfile, int(p))
	}
}

// Evaluate samples a built-in profile at r.
func Evaluate(r r3.Vec, p Profile) (Sample, error) {
	fn, err := Resolve(p, nil)
	if err != nil {
		return Sample{}, err
	}
	return fn(r), nil
}

// Uniform returns a Func with the same sample everywhere. It is the common
// building block for Custom profiles.
func Uniform(b, e r3.Vec) Func {
	return func(r3.Vec) Sample {
		return Sample{Magnetic: b, Electric: e}
	}
}
