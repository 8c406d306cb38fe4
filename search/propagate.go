// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package search

import (
	"github.com/pkg/errors"

	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/liberty"
	"github.com/smunaut/OpenSTA/network"
)

type seed struct {
	net *network.Net
	rf  sta.RiseFall
	at  arrival
}

// propagate relaxes arrivals from the seeds through the combinational
// fanout under one extreme, keeping the worst arrival per (net,
// transition). Registers terminate traversal: their data and clock
// nets are leaves.
func (e *Engine) propagate(seeds []seed, mm sta.MinMax) (map[netRF]arrival, error) {
	arrivals := make(map[netRF]arrival)
	var queue []netRF

	relax := func(net *network.Net, rf sta.RiseFall, at arrival) {
		key := netRF{net, rf}
		if cur, ok := arrivals[key]; ok && !mm.Worse(at.time, cur.time) {
			return
		}
		arrivals[key] = at
		queue = append(queue, key)
	}

	for _, s := range seeds {
		relax(s.net, s.rf, s.at)
	}

	// a DAG converges well within this bound; exceeding it means the
	// netlist has a combinational loop
	maxOps := (len(e.design.Gates()) + len(e.design.Nets()) + 1) * 16
	ops := 0
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		if ops++; ops > maxOps {
			return nil, errors.New("combinational loop detected in design " + e.design.Name())
		}
		at := arrivals[key]
		for _, g := range e.fanout[key.net] {
			for _, outRF := range gateOutputTransitions(g.Sense, key.rf) {
				relax(g.Output, outRF, arrival{
					time: at.time + g.Delay[outRF.Index()],
					slew: g.Slew[outRF.Index()],
				})
			}
		}
	}
	return arrivals, nil
}

// gateOutputTransitions returns the output transitions a gate produces
// for one input transition.
func gateOutputTransitions(sense liberty.TimingSense, inRF sta.RiseFall) []sta.RiseFall {
	switch sense {
	case liberty.PositiveUnate:
		return []sta.RiseFall{inRF}
	case liberty.NegativeUnate:
		return []sta.RiseFall{inRF.Opposite()}
	default:
		return []sta.RiseFall{sta.Rise, sta.Fall}
	}
}
