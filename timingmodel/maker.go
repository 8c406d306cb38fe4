// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package timingmodel

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/liberty"
)

// Maker extracts the boundary timing model of a design at a single
// operating corner.
type Maker struct {
	design Design
	search Search
	dcalc  DelayCalc
	corner *sta.Corner
	minMax sta.MinMax
	log    *zap.Logger

	builder *liberty.Builder
	lib     *liberty.Library
	cell    *liberty.Cell
}

// New returns a maker analyzing the given corner. A nil logger
// disables the debug traces.
func New(design Design, search Search, dcalc DelayCalc, corner *sta.Corner, log *zap.Logger) *Maker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Maker{
		design:  design,
		search:  search,
		dcalc:   dcalc,
		corner:  corner,
		minMax:  sta.Max,
		log:     log,
		builder: liberty.NewBuilder(),
	}
}

// MakeTimingModel builds a library holding one cell with the design's
// boundary ports and its synthesized timing arcs. On error the partial
// library is discarded.
func (m *Maker) MakeTimingModel(cellName string) (*liberty.Library, error) {
	if err := m.makeLibrary(cellName); err != nil {
		return nil, err
	}
	if err := m.makeCell(cellName); err != nil {
		return nil, err
	}
	if err := m.makePorts(); err != nil {
		return nil, err
	}

	for _, clk := range m.design.Clocks() {
		m.search.SetPropagatedClock(clk)
	}

	if err := m.findTimingFromInputs(); err != nil {
		return nil, err
	}
	if err := m.findClkedOutputPaths(); err != nil {
		return nil, err
	}

	if err := m.cell.Finish(); err != nil {
		return nil, err
	}
	return m.lib, nil
}

// makeLibrary creates the output library and copies units, thresholds,
// delay model, nominal conditions and table templates from the
// design's default library.
func (m *Maker) makeLibrary(cellName string) error {
	def := m.design.DefaultLibrary()
	if def == nil {
		return errors.New("design " + m.design.Name() + " has no default library")
	}
	lib := liberty.NewLibrary(cellName)
	lib.Units = def.Units
	for _, rf := range sta.RiseFallRange {
		lib.SetInputThreshold(rf, def.InputThreshold(rf))
		lib.SetOutputThreshold(rf, def.OutputThreshold(rf))
		lib.SetSlewLowerThreshold(rf, def.SlewLowerThreshold(rf))
		lib.SetSlewUpperThreshold(rf, def.SlewUpperThreshold(rf))
	}
	lib.DelayModel = def.DelayModel
	lib.NominalProcess = def.NominalProcess
	lib.NominalVoltage = def.NominalVoltage
	lib.NominalTemperature = def.NominalTemperature
	for _, tmpl := range def.TableTemplates() {
		lib.MakeTableTemplate(tmpl.Name)
	}
	m.lib = lib
	return nil
}

func (m *Maker) makeCell(cellName string) error {
	cell, err := m.builder.MakeCell(m.lib, cellName)
	if err != nil {
		return err
	}
	m.cell = cell
	return nil
}

// makePorts creates one model port per top level port, seeding each
// bit level port with the load capacitance measured on its pin.
func (m *Maker) makePorts() error {
	for _, port := range m.design.Ports() {
		if port.IsBus {
			dcl := &liberty.BusDcl{
				Name:      port.Name,
				FromIndex: port.FromIndex,
				ToIndex:   port.ToIndex,
			}
			m.lib.AddBusDcl(dcl)
			busPort, err := m.builder.MakeBusPort(m.cell, port.Name, port.FromIndex, port.ToIndex, dcl)
			if err != nil {
				return err
			}
			busPort.Direction = port.Direction
			for _, bit := range port.Members {
				libBit := m.cell.FindPort(bit.Name)
				libBit.Direction = bit.Direction
				libBit.Capacitance = m.dcalc.LoadCap(bit.Pin, m.corner, m.minMax)
			}
		} else {
			libPort, err := m.builder.MakePort(m.cell, port.Name)
			if err != nil {
				return err
			}
			libPort.Direction = port.Direction
			libPort.Capacitance = m.dcalc.LoadCap(port.Pin, m.corner, m.minMax)
		}
	}
	return nil
}

// modelPort returns the model port created for pin's port.
func (m *Maker) modelPort(pin *sta.Pin) *liberty.Port {
	if pin.Port == nil {
		return nil
	}
	return m.cell.FindPort(pin.Port.Name)
}

// findTimingFromInputs searches, for every primary input that is not a
// clock source, the paths from that input to downstream register
// checks and to primary outputs, then synthesizes the check and
// combinational arcs for that input.
func (m *Maker) findTimingFromInputs() error {
	visitor := &endVisitor{log: m.log}
	for _, pin := range m.design.Pins() {
		if !pin.Direction.IsInput() || m.design.IsClockSrc(pin) {
			continue
		}
		visitor.setInputPin(pin)
		outputDelays := make(OutputPinDelays)
		for _, rf := range sta.RiseFallRange {
			if err := m.findInputArrivals(pin, rf, visitor, outputDelays); err != nil {
				return err
			}
		}
		if err := m.makeSetupHoldTimingArcs(pin, visitor.margins); err != nil {
			return err
		}
		if err := m.makeInputOutputTimingArcs(pin, outputDelays); err != nil {
			return err
		}
	}
	return nil
}

// findInputArrivals installs a transient zero arrival on (pin, rf),
// runs a search restricted to that origin and collects the resulting
// path ends. The arrival is removed on every exit path.
func (m *Maker) findInputArrivals(pin *sta.Pin, rf sta.RiseFall, visitor *endVisitor, outputDelays OutputPinDelays) error {
	m.search.SetInputDelay(pin, rf, 0)
	defer m.search.RemoveInputDelay(pin, rf)

	from := sta.ExceptionFrom{Pins: []*sta.Pin{pin}, Transition: rf}
	m.search.ClearFilteredArrivals()
	if err := m.search.FindFilteredArrivals(from); err != nil {
		return errors.Wrap(err, "filtered arrivals from "+pin.Name)
	}

	visitor.setInputRF(rf)
	for _, end := range m.search.Endpoints() {
		for _, pe := range m.search.PathEnds(end, m.corner) {
			visitor.visit(pe)
		}
	}
	m.findOutputDelays(rf, outputDelays)
	return nil
}

// findOutputDelays folds the arrivals the current filtered search
// produced at every primary output into the per output delay matrices.
func (m *Maker) findOutputDelays(inputRF sta.RiseFall, outputDelays OutputPinDelays) {
	for _, pin := range m.design.Pins() {
		if !pin.Direction.IsOutput() {
			continue
		}
		for _, path := range m.search.Arrivals(pin) {
			if !m.search.MatchesFilter(path) {
				continue
			}
			delays := outputDelays[pin]
			if delays == nil {
				delays = &OutputDelays{}
				outputDelays[pin] = delays
			}
			delays.Delays.MergeValue(path.Transition, path.MinMax, path.Arrival)
			delays.RFPathExists[inputRF.Index()][path.Transition.Index()] = true
		}
	}
}

// makeSetupHoldTimingArcs emits one checking arc per clock pin and
// extreme for the margins accumulated against inputPin: max margins
// become setup checks, min margins hold checks.
func (m *Maker) makeSetupHoldTimingArcs(inputPin *sta.Pin, margins ClockMargins) error {
	for _, edge := range sortedClockEdges(margins) {
		values := margins[edge]
		for _, mm := range sta.MinMaxRange {
			setup := mm == sta.Max
			var attrs *liberty.ArcAttrs
			for _, rf := range sta.RiseFallRange {
				margin, ok := values.Value(rf, mm)
				if !ok {
					continue
				}
				m.log.Debug("check arc",
					zap.String("pin", inputPin.Name),
					zap.String("transition", rf.ShortName()),
					zap.String("clock", edge.Name()),
					zap.Bool("setup", setup),
					zap.Float64("margin", margin))
				scale := liberty.ScaleFactorHold
				if setup {
					scale = liberty.ScaleFactorSetup
				}
				model, err := m.makeScalarCheckModel(margin, scale, rf)
				if err != nil {
					return err
				}
				if attrs == nil {
					attrs = liberty.NewArcAttrs()
				}
				attrs.SetModel(rf, model)
			}
			if attrs == nil {
				continue
			}
			inputPort := m.modelPort(inputPin)
			role := liberty.RoleHold
			if setup {
				role = liberty.RoleSetup
			}
			for _, clkPin := range edge.Clock.Pins {
				clkPort := m.modelPort(clkPin)
				err := m.builder.MakeFromTransitionArcs(m.cell, clkPort, inputPort,
					edge.Transition, role, attrs)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// makeInputOutputTimingArcs emits one combinational gate arc per
// output pin reached from inputPin, carrying the worst max delay per
// transition and the unateness observed across both input transitions.
func (m *Maker) makeInputOutputTimingArcs(inputPin *sta.Pin, outputDelays OutputPinDelays) error {
	for _, outputPin := range sortedOutputPins(outputDelays) {
		delays := outputDelays[outputPin]
		var attrs *liberty.ArcAttrs
		for _, rf := range sta.RiseFallRange {
			delay, ok := delays.Delays.Value(rf, sta.Max)
			if !ok {
				continue
			}
			slew := m.dcalc.Slew(outputPin, rf, m.corner, m.minMax)
			m.log.Debug("gate arc",
				zap.String("from", inputPin.Name),
				zap.String("to", outputPin.Name),
				zap.String("transition", rf.ShortName()),
				zap.Float64("delay", delay))
			model, err := m.makeScalarGateModel(delay, slew, rf)
			if err != nil {
				return err
			}
			if attrs == nil {
				attrs = liberty.NewArcAttrs()
			}
			attrs.SetModel(rf, model)
		}
		if attrs == nil {
			continue
		}
		sense := delays.TimingSense()
		if sense == liberty.SenseNone {
			// no propagated combination: emit no arc rather than a
			// zero delay one
			continue
		}
		attrs.SetTimingSense(sense)
		err := m.builder.MakeCombinationalArcs(m.cell, m.modelPort(inputPin),
			m.modelPort(outputPin), attrs)
		if err != nil {
			return err
		}
	}
	return nil
}

// findClkedOutputPaths synthesizes, for every output pin and defined
// clock edge, a register clock to output arc from the single most
// critical path of each output transition.
func (m *Maker) findClkedOutputPaths() error {
	for _, outputPin := range m.design.Pins() {
		if !outputPin.Direction.IsOutput() {
			continue
		}
		outputPort := m.modelPort(outputPin)
		for _, clk := range m.design.Clocks() {
			for _, clkPin := range clk.Pins {
				clkPort := m.modelPort(clkPin)
				for _, clkRF := range sta.RiseFallRange {
					var attrs *liberty.ArcAttrs
					for _, outputRF := range sta.RiseFallRange {
						end, err := m.findClkedOutputPath(outputPin, outputRF, clk, clkRF)
						if err != nil {
							return err
						}
						if end == nil {
							continue
						}
						m.log.Debug("clock to output arc",
							zap.String("clock", clk.Name),
							zap.String("output", outputPin.Name),
							zap.String("transition", outputRF.ShortName()),
							zap.Float64("delay", end.Arrival))
						model, err := m.makeScalarGateModel(end.Arrival, end.Slew, outputRF)
						if err != nil {
							return err
						}
						if attrs == nil {
							attrs = liberty.NewArcAttrs()
						}
						attrs.SetModel(outputRF, model)
					}
					if attrs == nil {
						continue
					}
					err := m.builder.MakeFromTransitionArcs(m.cell, clkPort, outputPort,
						clkRF, liberty.RoleRegClkToQ, attrs)
					if err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// findClkedOutputPath finds the single most critical path from one
// clock edge to one output transition. The transient output delay
// constraint is removed whether or not a path is found.
func (m *Maker) findClkedOutputPath(outputPin *sta.Pin, outputRF sta.RiseFall, clk *sta.Clock, clkRF sta.RiseFall) (*sta.PathEnd, error) {
	m.search.SetOutputDelay(outputPin, outputRF, clk, clkRF, 0)
	defer m.search.RemoveOutputDelay(outputPin, outputRF, clk, clkRF)

	from := sta.ExceptionFrom{Clocks: []*sta.Clock{clk}, Transition: clkRF}
	to := sta.ExceptionTo{Pins: []*sta.Pin{outputPin}, Transition: outputRF}
	ends, err := m.search.FindPathEnds(from, to, m.corner, m.minMax, 1)
	if err != nil {
		return nil, errors.Wrap(err, "paths "+clk.Name+" -> "+outputPin.Name)
	}
	if len(ends) == 0 {
		return nil, nil
	}
	return ends[0], nil
}

// sortedClockEdges returns the margin map keys in a stable order so
// repeated extractions emit arcs in the same sequence.
func sortedClockEdges(margins ClockMargins) []sta.ClockEdge {
	edges := make([]sta.ClockEdge, 0, len(margins))
	for edge := range margins {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Clock.Name != edges[j].Clock.Name {
			return edges[i].Clock.Name < edges[j].Clock.Name
		}
		return edges[i].Transition < edges[j].Transition
	})
	return edges
}

// sortedOutputPins returns the delay map keys in a stable order.
func sortedOutputPins(outputDelays OutputPinDelays) []*sta.Pin {
	pins := make([]*sta.Pin, 0, len(outputDelays))
	for pin := range outputDelays {
		pins = append(pins, pin)
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i].Name < pins[j].Name })
	return pins
}
