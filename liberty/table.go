// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package liberty

import sta "github.com/smunaut/OpenSTA"

// A TableTemplate names the axes of a delay table. The "scalar"
// template has no axes: its tables are constant functions of operating
// conditions.
type TableTemplate struct {
	Name string
}

// ScalarTemplateName is the template used by single value tables.
const ScalarTemplateName = "scalar"

// A Table is a zero dimensional delay table holding a single value.
type Table struct {
	Value float64
}

// ScaleFactorType selects the derating group a table model scales
// with.
type ScaleFactorType int

const (
	ScaleFactorCell ScaleFactorType = iota
	ScaleFactorSetup
	ScaleFactorHold
)

// A TableModel pairs a table with its template for one transition.
type TableModel struct {
	Table      *Table
	Template   *TableTemplate
	ScaleType  ScaleFactorType
	Transition sta.RiseFall
}

// A TimingModel is the timing payload of an arc for one transition:
// either a check margin or a delay/slew pair.
type TimingModel interface {
	timingModel()
}

// A CheckModel holds the margin of a setup or hold check.
type CheckModel struct {
	Check *TableModel
}

// A GateModel pairs a propagation delay with the resulting output
// slew.
type GateModel struct {
	Delay *TableModel
	Slew  *TableModel
}

func (*CheckModel) timingModel() {}
func (*GateModel) timingModel()  {}
