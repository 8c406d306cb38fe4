// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package timingmodel

import (
	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/liberty"
)

// OutputDelays accumulates the worst arrivals observed at one output
// pin, together with which (input transition, output transition)
// combinations were realized by a propagated path.
type OutputDelays struct {
	Delays       sta.RiseFallMinMax
	RFPathExists [2][2]bool
}

// OutputPinDelays maps output pins to their accumulated delays. It is
// scoped to one input pin's analysis and discarded once that input's
// arcs are synthesized.
type OutputPinDelays map[*sta.Pin]*OutputDelays

// TimingSense classifies the unateness of the input/output dependency
// from the existence matrix. Partially populated matrices (one or
// three combinations) classify conservatively as non unate.
func (d *OutputDelays) TimingSense() liberty.TimingSense {
	rr := d.RFPathExists[sta.Rise.Index()][sta.Rise.Index()]
	rf := d.RFPathExists[sta.Rise.Index()][sta.Fall.Index()]
	fr := d.RFPathExists[sta.Fall.Index()][sta.Rise.Index()]
	ff := d.RFPathExists[sta.Fall.Index()][sta.Fall.Index()]
	switch {
	case rr && rf && fr && ff:
		return liberty.NonUnate
	case rr && ff && !rf && !fr:
		return liberty.PositiveUnate
	case rf && fr && !rr && !ff:
		return liberty.NegativeUnate
	case rr || rf || fr || ff:
		return liberty.NonUnate
	default:
		return liberty.SenseNone
	}
}
