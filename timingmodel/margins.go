// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package timingmodel

import (
	"go.uber.org/zap"

	sta "github.com/smunaut/OpenSTA"
)

// ClockMargins accumulates check margins keyed by target clock edge,
// one matrix of (input transition x extreme) scalar margins per edge.
// It is rebuilt per input pin and consumed immediately by setup/hold
// arc synthesis.
type ClockMargins map[sta.ClockEdge]*sta.RiseFallMinMax

// endVisitor records one margin per check path end for the input pin
// and transition being searched.
type endVisitor struct {
	log      *zap.Logger
	inputPin *sta.Pin
	inputRF  sta.RiseFall
	margins  ClockMargins
}

func (v *endVisitor) setInputPin(pin *sta.Pin) {
	v.inputPin = pin
	v.margins = make(ClockMargins)
}

func (v *endVisitor) setInputRF(rf sta.RiseFall) {
	v.inputRF = rf
}

// visit records the margin of one check path end. Each slot is
// overwritten, not merged: the engine returns one end per scope and
// only the current search's margin is kept.
func (v *endVisitor) visit(end *sta.PathEnd) {
	if end.Type != sta.PathEndCheck || end.TargetClkEdge.Clock == nil {
		return
	}
	margin := end.Arrival - end.TargetClkLatency + end.CheckMargin
	v.log.Debug("check path end",
		zap.String("pin", v.inputPin.Name),
		zap.String("transition", v.inputRF.ShortName()),
		zap.String("clock", end.TargetClkEdge.Name()),
		zap.String("extreme", end.MinMax.String()),
		zap.Float64("margin", margin))
	values := v.margins[end.TargetClkEdge]
	if values == nil {
		values = &sta.RiseFallMinMax{}
		v.margins[end.TargetClkEdge] = values
	}
	values.SetValue(v.inputRF, end.MinMax, margin)
}
