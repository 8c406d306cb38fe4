// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/network"
)

// One register behind a data buffer, with a buffer in the clock tree so
// propagated clock latency is visible.
const dffDesign = `
name: dffclk
ports:
  - {name: clk, direction: input}
  - {name: din, direction: input}
  - {name: q, direction: output}
clocks:
  - {name: clk1, port: clk, period: 10}
gates:
  - name: u1
    kind: buf
    inputs: [din]
    output: r1d
    delay: {rise: 0.5, fall: 0.6}
    slew: {rise: 0.1, fall: 0.1}
    input_cap: 0.02
  - name: uc
    kind: buf
    inputs: [clk]
    output: cko
    delay: {rise: 0.2, fall: 0.2}
    slew: {rise: 0.05, fall: 0.05}
    input_cap: 0.01
registers:
  - name: r1
    data: r1d
    clock: cko
    out: q
    edge: rise
    setup: 0.3
    hold: 0.1
    clk_to_q: {rise: 0.8, fall: 0.9}
    slew: {rise: 0.15, fall: 0.15}
    data_cap: 0.01
    clock_cap: 0.01
`

func elaborate(t *testing.T, src string) *network.Design {
	t.Helper()
	nl, err := network.Load(strings.NewReader(src))
	require.NoError(t, err)
	d, err := network.Elaborate(nl)
	require.NoError(t, err)
	return d
}

func findPin(t *testing.T, d *network.Design, name string) *sta.Pin {
	t.Helper()
	for _, pin := range d.Pins() {
		if pin.Name == name {
			return pin
		}
	}
	t.Fatalf("pin %s not found", name)
	return nil
}

func newTestEngine(t *testing.T, src string) (*Engine, *network.Design) {
	t.Helper()
	d := elaborate(t, src)
	return NewEngine(d, &sta.Corner{Name: "default"}), d
}

func TestFilteredArrivals(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	din := findPin(t, d, "din")
	q := findPin(t, d, "q")

	e.SetInputDelay(din, sta.Rise, 0)
	defer e.RemoveInputDelay(din, sta.Rise)
	e.ClearFilteredArrivals()
	require.NoError(t, e.FindFilteredArrivals(sta.ExceptionFrom{
		Pins: []*sta.Pin{din}, Transition: sta.Rise,
	}))

	// the buffer is positive unate so only the rise arrival exists at q;
	// the register output blocks data propagation onto the q net
	paths := e.Arrivals(q)
	assert.Empty(t, paths, "register output must terminate the data path")

	// the register data net carries the buffered arrival
	ends := e.PathEnds(d.Registers()[0].DataPin, e.Corner())
	require.Len(t, ends, 2, "one check end per extreme")
	for _, end := range ends {
		assert.Equal(t, sta.PathEndCheck, end.Type)
		assert.Equal(t, sta.Rise, end.Transition)
		assert.Equal(t, 0.5, end.Arrival)
		assert.Equal(t, "clk1", end.TargetClkEdge.Clock.Name)
		assert.Equal(t, sta.Rise, end.TargetClkEdge.Transition)
	}
}

func TestFilteredArrivalsCombinationalOutput(t *testing.T) {
	e, d := newTestEngine(t, `
name: inv1
ports:
  - {name: a, direction: input}
  - {name: z, direction: output}
gates:
  - name: u1
    kind: not
    inputs: [a]
    output: z
    delay: {rise: 1.5, fall: 1.2}
    slew: {rise: 0.1, fall: 0.1}
`)
	a := findPin(t, d, "a")
	z := findPin(t, d, "z")

	e.SetInputDelay(a, sta.Rise, 0)
	defer e.RemoveInputDelay(a, sta.Rise)
	e.ClearFilteredArrivals()
	require.NoError(t, e.FindFilteredArrivals(sta.ExceptionFrom{
		Pins: []*sta.Pin{a}, Transition: sta.Rise,
	}))

	// an inverter maps the rise origin to a falling output
	paths := e.Arrivals(z)
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, sta.Fall, p.Transition)
		assert.Equal(t, 1.2, p.Arrival)
		assert.Same(t, a, p.FromPin)
		assert.Equal(t, sta.Rise, p.FromTransition)
		assert.True(t, e.MatchesFilter(p))
	}

	e.ClearFilteredArrivals()
	assert.Empty(t, e.Arrivals(z), "cleared cache must yield no arrivals")
}

func TestFilteredArrivalsWithoutInputDelay(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	din := findPin(t, d, "din")

	// no transient arrival installed: the search is empty but not an error
	e.ClearFilteredArrivals()
	require.NoError(t, e.FindFilteredArrivals(sta.ExceptionFrom{
		Pins: []*sta.Pin{din}, Transition: sta.Rise,
	}))
	assert.Empty(t, e.PathEnds(d.Registers()[0].DataPin, e.Corner()))
}

func TestFilteredArrivalsScope(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	din := findPin(t, d, "din")

	err := e.FindFilteredArrivals(sta.ExceptionFrom{})
	assert.Error(t, err, "empty scope must be rejected")

	err = e.FindFilteredArrivals(sta.ExceptionFrom{
		Pins: []*sta.Pin{din, findPin(t, d, "clk")},
	})
	assert.Error(t, err, "multi pin scope must be rejected")
}

func TestPropagatedClockLatency(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	din := findPin(t, d, "din")

	e.SetInputDelay(din, sta.Rise, 0)
	defer e.RemoveInputDelay(din, sta.Rise)
	e.ClearFilteredArrivals()
	require.NoError(t, e.FindFilteredArrivals(sta.ExceptionFrom{
		Pins: []*sta.Pin{din}, Transition: sta.Rise,
	}))

	ends := e.PathEnds(d.Registers()[0].DataPin, e.Corner())
	require.Len(t, ends, 2)
	for _, end := range ends {
		assert.Equal(t, 0.0, end.TargetClkLatency, "ideal clock has no latency")
	}

	e.SetPropagatedClock(d.Clocks()[0])
	ends = e.PathEnds(d.Registers()[0].DataPin, e.Corner())
	require.Len(t, ends, 2)
	for _, end := range ends {
		assert.Equal(t, 0.2, end.TargetClkLatency, "clock buffer delay")
	}
}

func TestPathEndMargins(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	din := findPin(t, d, "din")

	e.SetInputDelay(din, sta.Rise, 0)
	defer e.RemoveInputDelay(din, sta.Rise)
	e.ClearFilteredArrivals()
	require.NoError(t, e.FindFilteredArrivals(sta.ExceptionFrom{
		Pins: []*sta.Pin{din}, Transition: sta.Rise,
	}))

	margins := map[sta.MinMax]float64{}
	for _, end := range e.PathEnds(d.Registers()[0].DataPin, e.Corner()) {
		margins[end.MinMax] = end.CheckMargin
	}
	assert.Equal(t, 0.3, margins[sta.Max], "max end carries the setup margin")
	assert.Equal(t, 0.1, margins[sta.Min], "min end carries the hold margin")
}

func TestFindPathEnds(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	clk := d.Clocks()[0]
	q := findPin(t, d, "q")
	e.SetPropagatedClock(clk)

	from := sta.ExceptionFrom{Clocks: []*sta.Clock{clk}, Transition: sta.Rise}
	to := sta.ExceptionTo{Pins: []*sta.Pin{q}, Transition: sta.Rise}

	// no matching output constraint: no ends
	ends, err := e.FindPathEnds(from, to, e.Corner(), sta.Max, 1)
	require.NoError(t, err)
	assert.Empty(t, ends)

	e.SetOutputDelay(q, sta.Rise, clk, sta.Rise, 0)
	defer e.RemoveOutputDelay(q, sta.Rise, clk, sta.Rise)

	ends, err = e.FindPathEnds(from, to, e.Corner(), sta.Max, 1)
	require.NoError(t, err)
	require.Len(t, ends, 1)
	end := ends[0]
	assert.Equal(t, sta.PathEndOutputDelay, end.Type)
	// clock tree latency plus clock to output delay
	assert.InDelta(t, 1.0, end.Arrival, 1e-12)
	assert.Equal(t, 0.15, end.Slew)
	assert.Same(t, clk, end.TargetClkEdge.Clock)
}

func TestTransientConstraints(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	din := findPin(t, d, "din")
	q := findPin(t, d, "q")
	clk := d.Clocks()[0]

	in, out := e.TransientConstraints()
	assert.Zero(t, in)
	assert.Zero(t, out)

	e.SetInputDelay(din, sta.Rise, 0)
	e.SetOutputDelay(q, sta.Fall, clk, sta.Rise, 0)
	in, out = e.TransientConstraints()
	assert.Equal(t, 1, in)
	assert.Equal(t, 1, out)

	e.RemoveInputDelay(din, sta.Rise)
	e.RemoveOutputDelay(q, sta.Fall, clk, sta.Rise)
	in, out = e.TransientConstraints()
	assert.Zero(t, in)
	assert.Zero(t, out)
}

func TestCombinationalLoop(t *testing.T) {
	e, d := newTestEngine(t, `
name: ring
ports:
  - {name: a, direction: input}
  - {name: z, direction: output}
gates:
  - {name: u1, kind: and, inputs: [a, n2], output: n1, delay: {rise: 1, fall: 1}}
  - {name: u2, kind: buf, inputs: [n1], output: n2, delay: {rise: 1, fall: 1}}
  - {name: u3, kind: buf, inputs: [n2], output: z, delay: {rise: 1, fall: 1}}
`)
	a := findPin(t, d, "a")

	e.SetInputDelay(a, sta.Rise, 0)
	defer e.RemoveInputDelay(a, sta.Rise)
	e.ClearFilteredArrivals()
	err := e.FindFilteredArrivals(sta.ExceptionFrom{
		Pins: []*sta.Pin{a}, Transition: sta.Rise,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "combinational loop")
}

func TestEndpoints(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	ends := e.Endpoints()
	require.Len(t, ends, 2)
	assert.Same(t, d.Registers()[0].DataPin, ends[0])
	assert.Same(t, findPin(t, d, "q"), ends[1])
}

func TestLoadCap(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	corner := e.Corner()

	// din drives the data buffer input
	assert.Equal(t, 0.02, e.LoadCap(findPin(t, d, "din"), corner, sta.Max))
	// clk drives the clock buffer input
	assert.Equal(t, 0.01, e.LoadCap(findPin(t, d, "clk"), corner, sta.Max))
	// q has no load inside the block
	assert.Equal(t, 0.0, e.LoadCap(findPin(t, d, "q"), corner, sta.Max))
}

func TestSlew(t *testing.T) {
	e, d := newTestEngine(t, dffDesign)
	corner := e.Corner()

	// q is driven by the register
	assert.Equal(t, 0.15, e.Slew(findPin(t, d, "q"), sta.Rise, corner, sta.Max))
	// din is driven from outside the block
	assert.Equal(t, 0.0, e.Slew(findPin(t, d, "din"), sta.Rise, corner, sta.Max))
}
