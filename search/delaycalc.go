// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package search

import (
	sta "github.com/smunaut/OpenSTA"
)

// LoadCap returns the capacitive load presented at pin: the sum of the
// input capacitances hanging off its net.
func (e *Engine) LoadCap(pin *sta.Pin, corner *sta.Corner, mm sta.MinMax) float64 {
	net := e.design.PinNet(pin)
	if net == nil {
		return 0
	}
	var total float64
	for _, g := range e.design.Gates() {
		for _, in := range g.Inputs {
			if in == net {
				total += g.InputCap
			}
		}
	}
	for _, r := range e.design.Registers() {
		if r.Data == net {
			total += r.DataCap
		}
		if r.Clock == net {
			total += r.ClockCap
		}
	}
	return total
}

// Slew returns the slew at pin's vertex for one transition, as set by
// the net's driver.
func (e *Engine) Slew(pin *sta.Pin, rf sta.RiseFall, corner *sta.Corner, mm sta.MinMax) float64 {
	net := e.design.PinNet(pin)
	if net == nil {
		return 0
	}
	switch {
	case net.DriverGate != nil:
		return net.DriverGate.Slew[rf.Index()]
	case net.DriverReg != nil:
		return net.DriverReg.Slew[rf.Index()]
	default:
		return 0
	}
}
