// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package sta

// A Clock is a design clock and the top level source pins it is
// defined on.
type Clock struct {
	Name   string
	Period float64
	Pins   []*Pin
}

// A ClockEdge identifies one active edge of a clock.
type ClockEdge struct {
	Clock      *Clock
	Transition RiseFall
}

func (e ClockEdge) Name() string {
	return e.Clock.Name + " " + e.Transition.String()
}
