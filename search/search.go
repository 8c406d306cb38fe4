// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

// Package search answers timing path queries over one elaborated
// design at a single operating corner: filtered arrival searches from
// a chosen origin, check path ends at register data pins, and best
// path queries from a clock edge to an output.
//
// The engine is synchronous. Every query runs to completion before the
// next begins, and the caller installs a transient arrival or
// constraint, queries, then removes it; two such windows must never
// interleave.
package search

import (
	"github.com/pkg/errors"

	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/network"
)

type inputDelayKey struct {
	pin *sta.Pin
	rf  sta.RiseFall
}

type outputDelayKey struct {
	pin   *sta.Pin
	rf    sta.RiseFall
	clk   *sta.Clock
	clkRF sta.RiseFall
}

type netRF struct {
	net *network.Net
	rf  sta.RiseFall
}

type arrival struct {
	time float64
	slew float64
}

type filterScope struct {
	pin *sta.Pin
	rf  sta.RiseFall
}

type clockTreeKey struct {
	clk *sta.Clock
	mm  sta.MinMax
	rf  sta.RiseFall // transition at the clock source
}

// Engine answers timing queries over one elaborated design.
type Engine struct {
	design *network.Design
	corner *sta.Corner

	fanout    map[*network.Net][]*network.Gate
	regByData map[*sta.Pin]*network.Register

	propagated   map[*sta.Clock]bool
	inputDelays  map[inputDelayKey]float64
	outputDelays map[outputDelayKey]float64

	filter   *filterScope
	filtered map[sta.MinMax]map[netRF]arrival

	clockTrees map[clockTreeKey]map[netRF]arrival
}

// NewEngine returns an engine over design analyzing the given corner.
func NewEngine(design *network.Design, corner *sta.Corner) *Engine {
	e := &Engine{
		design:       design,
		corner:       corner,
		fanout:       make(map[*network.Net][]*network.Gate),
		regByData:    make(map[*sta.Pin]*network.Register),
		propagated:   make(map[*sta.Clock]bool),
		inputDelays:  make(map[inputDelayKey]float64),
		outputDelays: make(map[outputDelayKey]float64),
		clockTrees:   make(map[clockTreeKey]map[netRF]arrival),
	}
	for _, g := range design.Gates() {
		for _, in := range g.Inputs {
			e.fanout[in] = append(e.fanout[in], g)
		}
	}
	for _, r := range design.Registers() {
		e.regByData[r.DataPin] = r
	}
	return e
}

// Corner returns the operating corner the engine analyzes.
func (e *Engine) Corner() *sta.Corner { return e.corner }

// SetPropagatedClock marks clk propagated: its latency at register
// clock pins is the computed network delay from the clock source.
func (e *Engine) SetPropagatedClock(clk *sta.Clock) {
	e.propagated[clk] = true
}

// SetInputDelay installs a transient arrival on (pin, rf).
func (e *Engine) SetInputDelay(pin *sta.Pin, rf sta.RiseFall, delay float64) {
	e.inputDelays[inputDelayKey{pin, rf}] = delay
}

// RemoveInputDelay removes the transient arrival on (pin, rf).
func (e *Engine) RemoveInputDelay(pin *sta.Pin, rf sta.RiseFall) {
	delete(e.inputDelays, inputDelayKey{pin, rf})
}

// SetOutputDelay installs a transient output constraint on (pin, rf)
// relative to an edge of clk.
func (e *Engine) SetOutputDelay(pin *sta.Pin, rf sta.RiseFall, clk *sta.Clock, clkRF sta.RiseFall, delay float64) {
	e.outputDelays[outputDelayKey{pin, rf, clk, clkRF}] = delay
}

// RemoveOutputDelay removes the transient output constraint.
func (e *Engine) RemoveOutputDelay(pin *sta.Pin, rf sta.RiseFall, clk *sta.Clock, clkRF sta.RiseFall) {
	delete(e.outputDelays, outputDelayKey{pin, rf, clk, clkRF})
}

// TransientConstraints returns the number of installed transient input
// and output delays.
func (e *Engine) TransientConstraints() (inputs, outputs int) {
	return len(e.inputDelays), len(e.outputDelays)
}

// ClearFilteredArrivals drops the filtered arrival cache and the scope
// that produced it. Callers must clear before every new filtered
// search; stale arrivals would otherwise leak into the next query's
// results.
func (e *Engine) ClearFilteredArrivals() {
	e.filter = nil
	e.filtered = nil
}

// FindFilteredArrivals searches for arrivals on paths originating at
// the scope's single origin pin and transition. Arrivals exist only if
// a transient input arrival is installed on that origin.
func (e *Engine) FindFilteredArrivals(from sta.ExceptionFrom) error {
	if len(from.Pins) != 1 || len(from.Clocks) != 0 {
		return errors.New("filtered search expects exactly one origin pin")
	}
	pin := from.Pins[0]
	net := e.design.PinNet(pin)
	if net == nil {
		return errors.New("pin " + pin.Name + " is not a top level pin")
	}
	e.filter = &filterScope{pin: pin, rf: from.Transition}
	e.filtered = make(map[sta.MinMax]map[netRF]arrival)
	delay, ok := e.inputDelays[inputDelayKey{pin, from.Transition}]
	if !ok {
		return nil
	}
	for _, mm := range sta.MinMaxRange {
		arrivals, err := e.propagate([]seed{{net: net, rf: from.Transition, at: arrival{time: delay}}}, mm)
		if err != nil {
			return err
		}
		e.filtered[mm] = arrivals
	}
	return nil
}

// Endpoints returns the path end vertices of the design: register data
// pins and primary output pins.
func (e *Engine) Endpoints() []*sta.Pin {
	var ends []*sta.Pin
	for _, r := range e.design.Registers() {
		ends = append(ends, r.DataPin)
	}
	for _, pin := range e.design.Pins() {
		if pin.Direction.IsOutput() {
			ends = append(ends, pin)
		}
	}
	return ends
}

// PathEnds returns the check path ends recorded at the given endpoint
// by the last filtered search, for both extremes. Output endpoints
// carry no checks; their arrivals are read with Arrivals.
func (e *Engine) PathEnds(end *sta.Pin, corner *sta.Corner) []*sta.PathEnd {
	reg := e.regByData[end]
	if reg == nil || e.filtered == nil {
		return nil
	}
	clk, srcRF, ok := e.regClock(reg)
	if !ok {
		return nil
	}
	var ends []*sta.PathEnd
	for _, mm := range sta.MinMaxRange {
		for _, rf := range sta.RiseFallRange {
			at, ok := e.filtered[mm][netRF{reg.Data, rf}]
			if !ok {
				continue
			}
			margin := reg.Hold
			if mm == sta.Max {
				margin = reg.Setup
			}
			ends = append(ends, &sta.PathEnd{
				Type:             sta.PathEndCheck,
				Pin:              end,
				Transition:       rf,
				MinMax:           mm,
				Arrival:          at.time,
				Slew:             at.slew,
				TargetClkEdge:    sta.ClockEdge{Clock: clk, Transition: srcRF},
				TargetClkLatency: e.clockLatency(clk, srcRF, reg.Clock, mm),
				CheckMargin:      margin,
			})
		}
	}
	return ends
}

// Arrivals returns the arrival paths recorded at pin's vertex by the
// last filtered search.
func (e *Engine) Arrivals(pin *sta.Pin) []*sta.Path {
	net := e.design.PinNet(pin)
	if net == nil || e.filtered == nil || e.filter == nil {
		return nil
	}
	var paths []*sta.Path
	for _, mm := range sta.MinMaxRange {
		for _, rf := range sta.RiseFallRange {
			at, ok := e.filtered[mm][netRF{net, rf}]
			if !ok {
				continue
			}
			paths = append(paths, &sta.Path{
				Pin:            pin,
				Transition:     rf,
				MinMax:         mm,
				Arrival:        at.time,
				Slew:           at.slew,
				FromPin:        e.filter.pin,
				FromTransition: e.filter.rf,
			})
		}
	}
	return paths
}

// MatchesFilter reports whether a path originated from the scope of
// the last filtered search.
func (e *Engine) MatchesFilter(p *sta.Path) bool {
	return e.filter != nil && p.FromPin == e.filter.pin && p.FromTransition == e.filter.rf
}

// FindPathEnds returns up to limit most critical path ends from the
// scope's clock edge to the scope's output pin and transition. The
// output must carry a matching transient output constraint; an
// unconstrained output yields no ends.
func (e *Engine) FindPathEnds(from sta.ExceptionFrom, to sta.ExceptionTo, corner *sta.Corner, mm sta.MinMax, limit int) ([]*sta.PathEnd, error) {
	if len(from.Clocks) != 1 || len(from.Pins) != 0 {
		return nil, errors.New("path end search expects exactly one origin clock")
	}
	if len(to.Pins) != 1 {
		return nil, errors.New("path end search expects exactly one destination pin")
	}
	clk, clkRF := from.Clocks[0], from.Transition
	outPin, outRF := to.Pins[0], to.Transition
	if _, ok := e.outputDelays[outputDelayKey{outPin, outRF, clk, clkRF}]; !ok {
		return nil, nil
	}
	outNet := e.design.PinNet(outPin)
	if outNet == nil {
		return nil, errors.New("pin " + outPin.Name + " is not a top level pin")
	}

	var seeds []seed
	for _, reg := range e.design.Registers() {
		regClk, srcRF, ok := e.regClock(reg)
		if !ok || regClk != clk || srcRF != clkRF {
			continue
		}
		latency := e.clockLatency(clk, srcRF, reg.Clock, mm)
		for _, qRF := range sta.RiseFallRange {
			seeds = append(seeds, seed{
				net: reg.Out,
				rf:  qRF,
				at:  arrival{time: latency + reg.ClkToQ[qRF.Index()], slew: reg.Slew[qRF.Index()]},
			})
		}
	}
	if len(seeds) == 0 {
		return nil, nil
	}
	arrivals, err := e.propagate(seeds, mm)
	if err != nil {
		return nil, err
	}
	at, ok := arrivals[netRF{outNet, outRF}]
	if !ok {
		return nil, nil
	}
	// propagation retains only the worst arrival per (net, transition),
	// so at most one end exists regardless of limit
	return []*sta.PathEnd{{
		Type:          sta.PathEndOutputDelay,
		Pin:           outPin,
		Transition:    outRF,
		MinMax:        mm,
		Arrival:       at.time,
		Slew:          at.slew,
		TargetClkEdge: sta.ClockEdge{Clock: clk, Transition: clkRF},
	}}, nil
}

// regClock resolves the clock driving a register's clock pin, together
// with the clock source transition that produces the register's active
// edge there. Latency is measured on the max extreme tree.
func (e *Engine) regClock(reg *network.Register) (*sta.Clock, sta.RiseFall, bool) {
	for _, clk := range e.design.Clocks() {
		for _, srcRF := range sta.RiseFallRange {
			tree := e.clockTree(clk, srcRF, sta.Max)
			if _, ok := tree[netRF{reg.Clock, reg.Edge}]; ok {
				return clk, srcRF, true
			}
		}
	}
	return nil, 0, false
}

// clockLatency returns the insertion delay of the clock edge at a
// register clock net. Ideal (non propagated) clocks have no latency.
func (e *Engine) clockLatency(clk *sta.Clock, srcRF sta.RiseFall, at *network.Net, mm sta.MinMax) float64 {
	if !e.propagated[clk] {
		return 0
	}
	tree := e.clockTree(clk, srcRF, mm)
	// the register's active edge transition at its clock net may be
	// either sense depending on the tree polarity
	for _, rf := range sta.RiseFallRange {
		if v, ok := tree[netRF{at, rf}]; ok {
			return v.time
		}
	}
	return 0
}

func (e *Engine) clockTree(clk *sta.Clock, srcRF sta.RiseFall, mm sta.MinMax) map[netRF]arrival {
	key := clockTreeKey{clk: clk, mm: mm, rf: srcRF}
	if tree, ok := e.clockTrees[key]; ok {
		return tree
	}
	var seeds []seed
	for _, pin := range clk.Pins {
		if net := e.design.PinNet(pin); net != nil {
			seeds = append(seeds, seed{net: net, rf: srcRF})
		}
	}
	tree, err := e.propagate(seeds, mm)
	if err != nil {
		// a loop through the clock network; treat the tree as empty
		tree = make(map[netRF]arrival)
	}
	e.clockTrees[key] = tree
	return tree
}
