// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

// Package liberty models the timing library a boundary model is
// written into: libraries, cells, ports, bus declarations, timing arcs
// and the scalar table models attached to them.
package liberty

import (
	"github.com/pkg/errors"

	sta "github.com/smunaut/OpenSTA"
)

// DelayModelType names the delay model a library was characterized
// with.
type DelayModelType int

const (
	DelayModelTable DelayModelType = iota
	DelayModelCMOSLinear
)

func (t DelayModelType) String() string {
	if t == DelayModelTable {
		return "table_lookup"
	}
	return "generic_cmos"
}

// Units groups the engineering units a library is expressed in, in
// their textual library form (e.g. "1ns").
type Units struct {
	Time              string
	Capacitance       string
	Voltage           string
	Resistance        string
	PullingResistance string
	Power             string
	Distance          string
}

// A BusDcl declares a bus type shared by the bus ports referencing it.
type BusDcl struct {
	Name      string
	FromIndex int
	ToIndex   int
}

// Width returns the number of bus members.
func (d *BusDcl) Width() int {
	if d.FromIndex >= d.ToIndex {
		return d.FromIndex - d.ToIndex + 1
	}
	return d.ToIndex - d.FromIndex + 1
}

// A Library owns cells, bus declarations and table templates together
// with the units, thresholds and nominal operating conditions they are
// expressed under.
type Library struct {
	Name               string
	Units              Units
	DelayModel         DelayModelType
	NominalProcess     float64
	NominalVoltage     float64
	NominalTemperature float64

	inputThreshold     [2]float64
	outputThreshold    [2]float64
	slewLowerThreshold [2]float64
	slewUpperThreshold [2]float64

	busDcls   map[string]*BusDcl
	templates map[string]*TableTemplate
	cells     map[string]*Cell
	cellSeq   []*Cell
}

// NewLibrary returns an empty library with default units.
func NewLibrary(name string) *Library {
	return &Library{
		Name: name,
		Units: Units{
			Time:              "1ns",
			Capacitance:       "1pf",
			Voltage:           "1V",
			Resistance:        "1kohm",
			PullingResistance: "1kohm",
			Power:             "1mW",
			Distance:          "1um",
		},
		busDcls:   make(map[string]*BusDcl),
		templates: make(map[string]*TableTemplate),
		cells:     make(map[string]*Cell),
	}
}

// SetInputThreshold sets the input switching threshold for rf, in
// percent of the rail.
func (l *Library) SetInputThreshold(rf sta.RiseFall, pct float64) {
	l.inputThreshold[rf.Index()] = pct
}

// InputThreshold returns the input switching threshold for rf.
func (l *Library) InputThreshold(rf sta.RiseFall) float64 {
	return l.inputThreshold[rf.Index()]
}

// SetOutputThreshold sets the output switching threshold for rf.
func (l *Library) SetOutputThreshold(rf sta.RiseFall, pct float64) {
	l.outputThreshold[rf.Index()] = pct
}

// OutputThreshold returns the output switching threshold for rf.
func (l *Library) OutputThreshold(rf sta.RiseFall) float64 {
	return l.outputThreshold[rf.Index()]
}

// SetSlewLowerThreshold sets the lower slew measurement threshold for rf.
func (l *Library) SetSlewLowerThreshold(rf sta.RiseFall, pct float64) {
	l.slewLowerThreshold[rf.Index()] = pct
}

// SlewLowerThreshold returns the lower slew measurement threshold for rf.
func (l *Library) SlewLowerThreshold(rf sta.RiseFall) float64 {
	return l.slewLowerThreshold[rf.Index()]
}

// SetSlewUpperThreshold sets the upper slew measurement threshold for rf.
func (l *Library) SetSlewUpperThreshold(rf sta.RiseFall, pct float64) {
	l.slewUpperThreshold[rf.Index()] = pct
}

// SlewUpperThreshold returns the upper slew measurement threshold for rf.
func (l *Library) SlewUpperThreshold(rf sta.RiseFall) float64 {
	return l.slewUpperThreshold[rf.Index()]
}

// MakeTableTemplate registers a table template under the given name
// and returns it. Registering an existing name returns the previous
// template.
func (l *Library) MakeTableTemplate(name string) *TableTemplate {
	if t := l.templates[name]; t != nil {
		return t
	}
	t := &TableTemplate{Name: name}
	l.templates[name] = t
	return t
}

// FindTableTemplate returns the template registered under name, or nil.
func (l *Library) FindTableTemplate(name string) *TableTemplate {
	return l.templates[name]
}

// TableTemplates returns all registered templates.
func (l *Library) TableTemplates() []*TableTemplate {
	ts := make([]*TableTemplate, 0, len(l.templates))
	for _, t := range l.templates {
		ts = append(ts, t)
	}
	return ts
}

// AddBusDcl registers a bus declaration.
func (l *Library) AddBusDcl(d *BusDcl) {
	l.busDcls[d.Name] = d
}

// BusDcls returns all registered bus declarations.
func (l *Library) BusDcls() map[string]*BusDcl {
	return l.busDcls
}

// FindCell returns the cell registered under name, or nil.
func (l *Library) FindCell(name string) *Cell {
	return l.cells[name]
}

// Cells returns the library cells in creation order.
func (l *Library) Cells() []*Cell {
	return l.cellSeq
}

func (l *Library) addCell(c *Cell) error {
	if _, ok := l.cells[c.Name]; ok {
		return errors.New("cell " + c.Name + " already exists in library " + l.Name)
	}
	l.cells[c.Name] = c
	l.cellSeq = append(l.cellSeq, c)
	return nil
}
