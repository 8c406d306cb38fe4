// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package network

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/liberty"
)

const dffNetlist = `
name: dff1
library:
  name: testlib
  time_unit: 1ns
  cap_unit: 1pf
  thresholds:
    input: 50
    output: 50
    slew_lower: 20
    slew_upper: 80
  nominal:
    voltage: 1.1
    temperature: 25
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
registers:
  - name: r1
    data: r1d
    clock: clk
    out: q
    edge: rise
    setup: 0.3
    hold: 0.1
    clk_to_q: {rise: 0.8, fall: 0.9}
    slew: {rise: 0.15, fall: 0.15}
    data_cap: 0.01
    clock_cap: 0.01
`

func loadDesign(t *testing.T, src string) *Design {
	t.Helper()
	nl, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	d, err := Elaborate(nl)
	require.NoError(t, err)
	return d
}

func TestLoad(t *testing.T) {
	nl, err := Load(strings.NewReader(dffNetlist))
	require.NoError(t, err)
	assert.Equal(t, "dff1", nl.Name)
	assert.Len(t, nl.Ports, 3)
	assert.Len(t, nl.Clocks, 1)
	assert.Len(t, nl.Gates, 1)
	assert.Len(t, nl.Registers, 1)
	assert.Equal(t, 0.5, nl.Gates[0].Delay.Rise)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader("ports: []"))
	assert.Error(t, err, "netlist without a name must be rejected")

	_, err = Load(strings.NewReader("name: x\nbogus_field: 1"))
	assert.Error(t, err, "unknown fields must be rejected")
}

func TestElaborate(t *testing.T) {
	d := loadDesign(t, dffNetlist)

	assert.Equal(t, "dff1", d.Name())
	assert.Len(t, d.Ports(), 3)
	assert.Len(t, d.Pins(), 3)
	require.Len(t, d.Clocks(), 1)
	require.Len(t, d.Gates(), 1)
	require.Len(t, d.Registers(), 1)

	clk := d.Clocks()[0]
	assert.Equal(t, "clk1", clk.Name)
	assert.Equal(t, 10.0, clk.Period)
	require.Len(t, clk.Pins, 1)
	assert.True(t, d.IsClockSrc(clk.Pins[0]))

	g := d.Gates()[0]
	assert.Equal(t, liberty.PositiveUnate, g.Sense)
	assert.Same(t, d.FindNet("r1d"), g.Output)
	assert.Same(t, g, g.Output.DriverGate)

	r := d.Registers()[0]
	assert.Equal(t, sta.Rise, r.Edge)
	assert.Same(t, d.FindNet("q"), r.Out)
	assert.Same(t, r, r.Out.DriverReg)
	assert.Equal(t, "r1/D", r.DataPin.Name)

	// input port pins drive the net of the same name
	din := d.FindNet("din")
	require.NotNil(t, din.DriverPin)
	assert.Equal(t, "din", din.DriverPin.Name)
}

func TestElaborateLibrary(t *testing.T) {
	d := loadDesign(t, dffNetlist)
	lib := d.DefaultLibrary()
	require.NotNil(t, lib)
	assert.Equal(t, "testlib", lib.Name)
	assert.Equal(t, "1ns", lib.Units.Time)
	assert.Equal(t, 1.1, lib.NominalVoltage)
	assert.Equal(t, 50.0, lib.InputThreshold(sta.Rise))
	assert.Equal(t, 80.0, lib.SlewUpperThreshold(sta.Fall))
	assert.NotNil(t, lib.FindTableTemplate(liberty.ScalarTemplateName))
}

func TestElaborateBusPort(t *testing.T) {
	d := loadDesign(t, `
name: busblk
ports:
  - {name: d, direction: input, bus: {from: 2, to: 0}}
  - {name: z, direction: output}
gates:
  - name: u1
    kind: or
    inputs: ["d[0]", "d[1]", "d[2]"]
    output: z
    delay: {rise: 1, fall: 1}
    slew: {rise: 0.1, fall: 0.1}
`)
	require.Len(t, d.Ports(), 2)
	bus := d.Ports()[0]
	assert.True(t, bus.IsBus)
	require.Len(t, bus.Members, 3)
	assert.Equal(t, "d[2]", bus.Members[0].Name)
	assert.Equal(t, "d[0]", bus.Members[2].Name)
	// one pin per bus bit plus the scalar output
	assert.Len(t, d.Pins(), 4)
	assert.Same(t, d.FindNet("d[1]"), d.PinNet(bus.Members[1].Pin))
}

func TestElaborateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"multiple drivers",
			`
name: x
ports:
  - {name: a, direction: input}
  - {name: z, direction: output}
gates:
  - {name: u1, kind: buf, inputs: [a], output: z, delay: {rise: 1, fall: 1}}
  - {name: u2, kind: buf, inputs: [a], output: z, delay: {rise: 1, fall: 1}}
`,
			"driven by more than one output",
		},
		{
			"undriven output port",
			`
name: x
ports:
  - {name: z, direction: output}
`,
			"not connected to any driver",
		},
		{
			"unknown clock port",
			`
name: x
ports:
  - {name: a, direction: input}
clocks:
  - {name: clk1, port: ck, period: 10}
`,
			"unknown port",
		},
		{
			"clock on output port",
			`
name: x
ports:
  - {name: a, direction: input}
  - {name: z, direction: output}
gates:
  - {name: u1, kind: buf, inputs: [a], output: z, delay: {rise: 1, fall: 1}}
clocks:
  - {name: clk1, port: z, period: 10}
`,
			"not an input",
		},
		{
			"bad direction",
			`
name: x
ports:
  - {name: a, direction: inout}
`,
			"invalid direction",
		},
		{
			"bad gate kind",
			`
name: x
ports:
  - {name: a, direction: input}
gates:
  - {name: u1, kind: mux, inputs: [a], output: z}
`,
			"unknown gate kind",
		},
		{
			"bad register edge",
			`
name: x
ports:
  - {name: a, direction: input}
registers:
  - {name: r1, data: a, clock: a, out: q, edge: both}
`,
			"invalid edge",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nl, err := Load(strings.NewReader(tt.src))
			require.NoError(t, err)
			_, err = Elaborate(nl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGateSenseOverride(t *testing.T) {
	d := loadDesign(t, `
name: x
ports:
  - {name: a, direction: input}
  - {name: z, direction: output}
gates:
  - name: u1
    kind: buf
    sense: non_unate
    inputs: [a]
    output: z
    delay: {rise: 1, fall: 1}
`)
	assert.Equal(t, liberty.NonUnate, d.Gates()[0].Sense)
}
