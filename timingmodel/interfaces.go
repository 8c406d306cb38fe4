// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

// Package timingmodel reduces the internal timing of a design to a
// boundary model: a cell with the design's external ports and the
// minimal set of arcs (setup/hold checks, combinational delays,
// register clock to output delays) reproducing its worst case timing
// at the boundary.
package timingmodel

import (
	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/liberty"
)

// Design exposes the flattened boundary of the analyzed block.
type Design interface {
	Name() string
	// Ports returns the top level ports, bus members folded under
	// their bus port.
	Ports() []*sta.Port
	// Pins returns the bit level top ports' pins.
	Pins() []*sta.Pin
	Clocks() []*sta.Clock
	IsClockSrc(pin *sta.Pin) bool
	// DefaultLibrary returns the library whose units, thresholds,
	// delay model and nominal conditions the output library copies.
	DefaultLibrary() *liberty.Library
}

// DelayCalc answers load and slew queries at one operating point.
type DelayCalc interface {
	LoadCap(pin *sta.Pin, corner *sta.Corner, mm sta.MinMax) float64
	Slew(pin *sta.Pin, rf sta.RiseFall, corner *sta.Corner, mm sta.MinMax) float64
}

// Search drives the path search engine. Queries are synchronous and
// strictly sequenced: each extraction step installs a transient
// arrival or constraint, queries, reads the results and removes the
// constraint before the next step begins. ClearFilteredArrivals must
// be called before every FindFilteredArrivals; the filtered arrival
// cache is shared engine state and stale entries would leak across
// queries.
type Search interface {
	SetPropagatedClock(clk *sta.Clock)

	SetInputDelay(pin *sta.Pin, rf sta.RiseFall, delay float64)
	RemoveInputDelay(pin *sta.Pin, rf sta.RiseFall)
	SetOutputDelay(pin *sta.Pin, rf sta.RiseFall, clk *sta.Clock, clkRF sta.RiseFall, delay float64)
	RemoveOutputDelay(pin *sta.Pin, rf sta.RiseFall, clk *sta.Clock, clkRF sta.RiseFall)

	ClearFilteredArrivals()
	FindFilteredArrivals(from sta.ExceptionFrom) error
	Endpoints() []*sta.Pin
	PathEnds(end *sta.Pin, corner *sta.Corner) []*sta.PathEnd
	Arrivals(pin *sta.Pin) []*sta.Path
	MatchesFilter(p *sta.Path) bool
	FindPathEnds(from sta.ExceptionFrom, to sta.ExceptionTo, corner *sta.Corner, mm sta.MinMax, limit int) ([]*sta.PathEnd, error)
}
