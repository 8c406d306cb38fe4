// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package sta

// A Corner is a single operating point. One corner is analyzed per
// model extraction run.
type Corner struct {
	Name string
}

// PathEndType tags what terminates a timing path.
type PathEndType int

const (
	// PathEndCheck is a setup or hold check against a clocked element.
	PathEndCheck PathEndType = iota
	// PathEndOutputDelay is a path constrained at a primary output.
	PathEndOutputDelay
)

func (t PathEndType) String() string {
	if t == PathEndCheck {
		return "check"
	}
	return "output delay"
}

// A PathEnd is the termination of a timing path together with the
// quantities needed to derive a model arc from it.
type PathEnd struct {
	Type             PathEndType
	Pin              *Pin
	Transition       RiseFall // data transition at the endpoint
	MinMax           MinMax
	Arrival          float64
	Slew             float64
	TargetClkEdge    ClockEdge // zero Clock when unclocked
	TargetClkLatency float64
	CheckMargin      float64
}

// A Path is one arrival recorded at a graph vertex, tagged with the
// query scope that produced it.
type Path struct {
	Pin            *Pin
	Transition     RiseFall
	MinMax         MinMax
	Arrival        float64
	Slew           float64
	FromPin        *Pin
	FromTransition RiseFall
}

// ExceptionFrom restricts a search to paths originating at the given
// pins or clock edges. Scopes are plain values built immediately before
// a query and never outlive it.
type ExceptionFrom struct {
	Pins       []*Pin
	Clocks     []*Clock
	Transition RiseFall
}

// ExceptionTo restricts a search to paths terminating at the given pins
// with the given transition.
type ExceptionTo struct {
	Pins       []*Pin
	Transition RiseFall
}
