// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package network

import (
	"github.com/pkg/errors"

	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/liberty"
)

// A Net is a named connection point of the elaborated design. A net
// has at most one driver: a gate output, a register output or a top
// level input pin.
type Net struct {
	Name       string
	DriverGate *Gate
	DriverReg  *Register
	DriverPin  *sta.Pin
}

func (n *Net) driven() bool {
	return n.DriverGate != nil || n.DriverReg != nil || n.DriverPin != nil
}

// A Gate is one combinational timing arc bundle from its input nets to
// its output net. Delay and Slew are indexed by output transition.
type Gate struct {
	Name     string
	Sense    liberty.TimingSense
	Inputs   []*Net
	Output   *Net
	Delay    [2]float64
	Slew     [2]float64
	InputCap float64
}

// A Register is an edge triggered sequential element. ClkToQ and Slew
// are indexed by output transition. DataPin is the timing graph vertex
// setup and hold checks end at.
type Register struct {
	Name     string
	Data     *Net
	Clock    *Net
	Out      *Net
	Edge     sta.RiseFall
	Setup    float64
	Hold     float64
	ClkToQ   [2]float64
	Slew     [2]float64
	DataCap  float64
	ClockCap float64
	DataPin  *sta.Pin
}

// A Design is an elaborated netlist.
type Design struct {
	name       string
	defaultLib *liberty.Library
	ports      []*sta.Port
	pins       []*sta.Pin
	clocks     []*sta.Clock
	clockSrc   map[*sta.Pin]*sta.Clock
	nets       map[string]*Net
	netSeq     []*Net
	gates      []*Gate
	registers  []*Register
	pinNet     map[*sta.Pin]*Net
}

// Elaborate builds a design from its netlist description.
func Elaborate(nl *Netlist) (*Design, error) {
	d := &Design{
		name:     nl.Name,
		clockSrc: make(map[*sta.Pin]*sta.Clock),
		nets:     make(map[string]*Net),
		pinNet:   make(map[*sta.Pin]*Net),
	}
	d.defaultLib = makeDefaultLibrary(&nl.Library)

	for i := range nl.Ports {
		if err := d.elabPort(&nl.Ports[i]); err != nil {
			return nil, err
		}
	}
	for i := range nl.Gates {
		if err := d.elabGate(&nl.Gates[i]); err != nil {
			return nil, err
		}
	}
	for i := range nl.Registers {
		if err := d.elabRegister(&nl.Registers[i]); err != nil {
			return nil, err
		}
	}
	for i := range nl.Clocks {
		if err := d.elabClock(&nl.Clocks[i]); err != nil {
			return nil, err
		}
	}

	// every output port must be driven by something inside the block
	for _, pin := range d.pins {
		if pin.Direction.IsOutput() && !d.pinNet[pin].driven() {
			return nil, errors.New("port " + pin.Name + " not connected to any driver")
		}
	}
	return d, nil
}

func makeDefaultLibrary(desc *LibraryDesc) *liberty.Library {
	name := desc.Name
	if name == "" {
		name = "default"
	}
	lib := liberty.NewLibrary(name)
	if desc.TimeUnit != "" {
		lib.Units.Time = desc.TimeUnit
	}
	if desc.CapUnit != "" {
		lib.Units.Capacitance = desc.CapUnit
	}
	lib.DelayModel = liberty.DelayModelTable
	lib.NominalProcess = desc.Nominal.Process
	lib.NominalVoltage = desc.Nominal.Voltage
	lib.NominalTemperature = desc.Nominal.Temperature
	for _, rf := range sta.RiseFallRange {
		lib.SetInputThreshold(rf, desc.Thresholds.Input)
		lib.SetOutputThreshold(rf, desc.Thresholds.Output)
		lib.SetSlewLowerThreshold(rf, desc.Thresholds.SlewLower)
		lib.SetSlewUpperThreshold(rf, desc.Thresholds.SlewUpper)
	}
	lib.MakeTableTemplate(liberty.ScalarTemplateName)
	return lib
}

func (d *Design) elabPort(desc *PortDesc) error {
	dir, err := parseDirection(desc.Direction)
	if err != nil {
		return errors.Wrap(err, "port "+desc.Name)
	}
	if desc.Bus == nil {
		port := &sta.Port{Name: desc.Name, Direction: dir}
		if err := d.connectPortBit(port, desc.Name); err != nil {
			return err
		}
		d.ports = append(d.ports, port)
		return nil
	}
	bus := &sta.Port{
		Name:      desc.Name,
		Direction: dir,
		IsBus:     true,
		FromIndex: desc.Bus.From,
		ToIndex:   desc.Bus.To,
	}
	step := 1
	if desc.Bus.From > desc.Bus.To {
		step = -1
	}
	for i := desc.Bus.From; ; i += step {
		bitName := sta.BusPinName(desc.Name, i)
		bit := &sta.Port{Name: bitName, Direction: dir}
		if err := d.connectPortBit(bit, bitName); err != nil {
			return err
		}
		bus.Members = append(bus.Members, bit)
		if i == desc.Bus.To {
			break
		}
	}
	d.ports = append(d.ports, bus)
	return nil
}

// connectPortBit creates the pin of a scalar or bit port and ties it
// to the net of the same name.
func (d *Design) connectPortBit(port *sta.Port, netName string) error {
	pin := &sta.Pin{Name: port.Name, Direction: port.Direction, Port: port}
	port.Pin = pin
	net := d.netOrNew(netName)
	if port.Direction.IsInput() {
		if net.driven() {
			return errors.New("net " + netName + " driven by more than one output")
		}
		net.DriverPin = pin
	}
	d.pins = append(d.pins, pin)
	d.pinNet[pin] = net
	return nil
}

func (d *Design) elabGate(desc *GateDesc) error {
	sense, err := gateSense(desc)
	if err != nil {
		return errors.Wrap(err, "gate "+desc.Name)
	}
	if len(desc.Inputs) == 0 {
		return errors.New("gate " + desc.Name + " has no inputs")
	}
	if desc.Output == "" {
		return errors.New("gate " + desc.Name + " has no output")
	}
	g := &Gate{
		Name:     desc.Name,
		Sense:    sense,
		Output:   d.netOrNew(desc.Output),
		Delay:    [2]float64{desc.Delay.Rise, desc.Delay.Fall},
		Slew:     [2]float64{desc.Slew.Rise, desc.Slew.Fall},
		InputCap: desc.InputCap,
	}
	for _, in := range desc.Inputs {
		g.Inputs = append(g.Inputs, d.netOrNew(in))
	}
	if g.Output.driven() {
		return errors.New("net " + desc.Output + " driven by more than one output")
	}
	g.Output.DriverGate = g
	d.gates = append(d.gates, g)
	return nil
}

func (d *Design) elabRegister(desc *RegisterDesc) error {
	edge := sta.Rise
	switch desc.Edge {
	case "", "rise":
	case "fall":
		edge = sta.Fall
	default:
		return errors.New("register " + desc.Name + ": invalid edge " + desc.Edge)
	}
	if desc.Data == "" || desc.Clock == "" || desc.Out == "" {
		return errors.New("register " + desc.Name + " needs data, clock and out nets")
	}
	r := &Register{
		Name:     desc.Name,
		Data:     d.netOrNew(desc.Data),
		Clock:    d.netOrNew(desc.Clock),
		Out:      d.netOrNew(desc.Out),
		Edge:     edge,
		Setup:    desc.Setup,
		Hold:     desc.Hold,
		ClkToQ:   [2]float64{desc.ClkToQ.Rise, desc.ClkToQ.Fall},
		Slew:     [2]float64{desc.Slew.Rise, desc.Slew.Fall},
		DataCap:  desc.DataCap,
		ClockCap: desc.ClockCap,
		DataPin:  &sta.Pin{Name: desc.Name + "/D", Direction: sta.Input},
	}
	if r.Out.driven() {
		return errors.New("net " + desc.Out + " driven by more than one output")
	}
	r.Out.DriverReg = r
	d.registers = append(d.registers, r)
	return nil
}

func (d *Design) elabClock(desc *ClockDesc) error {
	port := d.findPort(desc.Port)
	if port == nil {
		return errors.New("clock " + desc.Name + ": unknown port " + desc.Port)
	}
	if port.IsBus {
		return errors.New("clock " + desc.Name + ": port " + desc.Port + " is a bus")
	}
	if !port.Direction.IsInput() {
		return errors.New("clock " + desc.Name + ": port " + desc.Port + " is not an input")
	}
	clk := &sta.Clock{
		Name:   desc.Name,
		Period: desc.Period,
		Pins:   []*sta.Pin{port.Pin},
	}
	d.clocks = append(d.clocks, clk)
	d.clockSrc[port.Pin] = clk
	return nil
}

func (d *Design) findPort(name string) *sta.Port {
	for _, p := range d.ports {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// netOrNew returns the net with the given name, allocating it on first
// use.
func (d *Design) netOrNew(name string) *Net {
	if n, ok := d.nets[name]; ok {
		return n
	}
	n := &Net{Name: name}
	d.nets[name] = n
	d.netSeq = append(d.netSeq, n)
	return n
}

func parseDirection(s string) (sta.Direction, error) {
	switch s {
	case "input":
		return sta.Input, nil
	case "output":
		return sta.Output, nil
	default:
		return 0, errors.New("invalid direction " + s)
	}
}

func gateSense(desc *GateDesc) (liberty.TimingSense, error) {
	switch desc.Sense {
	case "positive":
		return liberty.PositiveUnate, nil
	case "negative":
		return liberty.NegativeUnate, nil
	case "non_unate":
		return liberty.NonUnate, nil
	case "":
	default:
		return 0, errors.New("invalid sense " + desc.Sense)
	}
	switch desc.Kind {
	case "buf", "and", "or":
		return liberty.PositiveUnate, nil
	case "not", "nand", "nor":
		return liberty.NegativeUnate, nil
	case "xor", "xnor":
		return liberty.NonUnate, nil
	default:
		return 0, errors.New("unknown gate kind " + desc.Kind)
	}
}

// Name returns the design name.
func (d *Design) Name() string { return d.name }

// Ports returns the top level ports, bus members folded under their
// bus port.
func (d *Design) Ports() []*sta.Port { return d.ports }

// Pins returns the bit level top ports' pins.
func (d *Design) Pins() []*sta.Pin { return d.pins }

// Clocks returns the defined clocks.
func (d *Design) Clocks() []*sta.Clock { return d.clocks }

// IsClockSrc reports whether pin is the source pin of a clock.
func (d *Design) IsClockSrc(pin *sta.Pin) bool {
	_, ok := d.clockSrc[pin]
	return ok
}

// DefaultLibrary returns the library design timing is expressed in.
func (d *Design) DefaultLibrary() *liberty.Library { return d.defaultLib }

// Gates returns the combinational gates.
func (d *Design) Gates() []*Gate { return d.gates }

// Registers returns the sequential elements.
func (d *Design) Registers() []*Register { return d.registers }

// Nets returns the design nets in first use order.
func (d *Design) Nets() []*Net { return d.netSeq }

// FindNet returns the net with the given name, or nil.
func (d *Design) FindNet(name string) *Net { return d.nets[name] }

// PinNet returns the net a top level pin connects to.
func (d *Design) PinNet(pin *sta.Pin) *Net { return d.pinNet[pin] }
