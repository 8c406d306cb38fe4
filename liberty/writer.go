// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package liberty

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	sta "github.com/smunaut/OpenSTA"
)

// Write serializes lib in the standard library exchange syntax.
func Write(w io.Writer, lib *Library) error {
	bw := bufio.NewWriter(w)
	lw := &libWriter{w: bw}
	lw.writeLibrary(lib)
	if lw.err != nil {
		return lw.err
	}
	return errors.Wrap(bw.Flush(), "write library "+lib.Name)
}

type libWriter struct {
	w      *bufio.Writer
	indent int
	err    error
}

func (lw *libWriter) printf(format string, args ...interface{}) {
	if lw.err != nil {
		return
	}
	for i := 0; i < lw.indent; i++ {
		if _, err := lw.w.WriteString("  "); err != nil {
			lw.err = err
			return
		}
	}
	if _, err := fmt.Fprintf(lw.w, format, args...); err != nil {
		lw.err = err
	}
}

func (lw *libWriter) open(format string, args ...interface{}) {
	lw.printf(format+" {\n", args...)
	lw.indent++
}

func (lw *libWriter) close() {
	lw.indent--
	lw.printf("}\n")
}

func (lw *libWriter) writeLibrary(lib *Library) {
	lw.open("library (%s)", lib.Name)
	lw.printf("delay_model : %s;\n", lib.DelayModel)
	lw.printf("time_unit : \"%s\";\n", lib.Units.Time)
	lw.printf("capacitive_load_unit : \"%s\";\n", lib.Units.Capacitance)
	lw.printf("voltage_unit : \"%s\";\n", lib.Units.Voltage)
	lw.printf("pulling_resistance_unit : \"%s\";\n", lib.Units.PullingResistance)
	lw.printf("nom_process : %g;\n", lib.NominalProcess)
	lw.printf("nom_voltage : %g;\n", lib.NominalVoltage)
	lw.printf("nom_temperature : %g;\n", lib.NominalTemperature)
	for _, rf := range sta.RiseFallRange {
		lw.printf("input_threshold_pct_%s : %g;\n", rf, lib.InputThreshold(rf))
		lw.printf("output_threshold_pct_%s : %g;\n", rf, lib.OutputThreshold(rf))
		lw.printf("slew_lower_threshold_pct_%s : %g;\n", rf, lib.SlewLowerThreshold(rf))
		lw.printf("slew_upper_threshold_pct_%s : %g;\n", rf, lib.SlewUpperThreshold(rf))
	}
	lw.writeBusDcls(lib)
	for _, cell := range lib.Cells() {
		lw.writeCell(cell)
	}
	lw.close()
}

func (lw *libWriter) writeBusDcls(lib *Library) {
	names := make([]string, 0, len(lib.BusDcls()))
	for name := range lib.BusDcls() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dcl := lib.BusDcls()[name]
		lw.open("type (bus_%s)", dcl.Name)
		lw.printf("base_type : array;\n")
		lw.printf("data_type : bit;\n")
		lw.printf("bit_width : %d;\n", dcl.Width())
		lw.printf("bit_from : %d;\n", dcl.FromIndex)
		lw.printf("bit_to : %d;\n", dcl.ToIndex)
		lw.close()
	}
}

func (lw *libWriter) writeCell(cell *Cell) {
	lw.open("cell (%s)", cell.Name)
	for _, port := range cell.Ports() {
		if port.IsBus {
			lw.writeBusPort(cell, port)
		} else {
			lw.writePort(cell, port)
		}
	}
	lw.close()
}

func (lw *libWriter) writeBusPort(cell *Cell, port *Port) {
	lw.open("bus (%s)", port.Name)
	lw.printf("bus_type : bus_%s;\n", port.BusDcl.Name)
	lw.printf("direction : %s;\n", port.Direction)
	for _, bit := range port.Members {
		lw.writePort(cell, bit)
	}
	lw.close()
}

func (lw *libWriter) writePort(cell *Cell, port *Port) {
	lw.open("pin (%s)", port.Name)
	lw.printf("direction : %s;\n", port.Direction)
	lw.printf("capacitance : %g;\n", port.Capacitance)
	for _, arc := range cell.Arcs() {
		if arc.To == port {
			lw.writeArc(arc)
		}
	}
	lw.close()
}

func (lw *libWriter) writeArc(arc *TimingArc) {
	lw.open("timing ()")
	lw.printf("related_pin : \"%s\";\n", arc.From.Name)
	if tt := timingType(arc); tt != "" {
		lw.printf("timing_type : %s;\n", tt)
	}
	if s := arc.Attrs.TimingSense(); s != SenseUnknown && s != SenseNone {
		lw.printf("timing_sense : %s;\n", s)
	}
	for _, rf := range sta.RiseFallRange {
		model := arc.Attrs.Model(rf)
		switch m := model.(type) {
		case *CheckModel:
			lw.writeTable(constraintGroup(rf), m.Check)
		case *GateModel:
			lw.writeTable(cellGroup(rf), m.Delay)
			lw.writeTable(transitionGroup(rf), m.Slew)
		}
	}
	lw.close()
}

func (lw *libWriter) writeTable(group string, m *TableModel) {
	if m == nil {
		return
	}
	lw.open("%s (%s)", group, m.Template.Name)
	lw.printf("values(\"%g\");\n", m.Table.Value)
	lw.close()
}

func timingType(arc *TimingArc) string {
	switch arc.Role {
	case RoleSetup:
		if arc.FromTransition == sta.Rise {
			return "setup_rising"
		}
		return "setup_falling"
	case RoleHold:
		if arc.FromTransition == sta.Rise {
			return "hold_rising"
		}
		return "hold_falling"
	case RoleRegClkToQ:
		if arc.FromTransition == sta.Rise {
			return "rising_edge"
		}
		return "falling_edge"
	default:
		return ""
	}
}

func constraintGroup(rf sta.RiseFall) string {
	if rf == sta.Rise {
		return "rise_constraint"
	}
	return "fall_constraint"
}

func cellGroup(rf sta.RiseFall) string {
	if rf == sta.Rise {
		return "cell_rise"
	}
	return "cell_fall"
}

func transitionGroup(rf sta.RiseFall) string {
	if rf == sta.Rise {
		return "rise_transition"
	}
	return "fall_transition"
}
