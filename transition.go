// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package sta

import "strconv"

// RiseFall identifies the sense of a signal transition.
type RiseFall int

const (
	Rise RiseFall = iota
	Fall
)

// RiseFallRange lists both transitions in iteration order.
var RiseFallRange = [2]RiseFall{Rise, Fall}

// Opposite returns the other transition.
func (rf RiseFall) Opposite() RiseFall {
	if rf == Rise {
		return Fall
	}
	return Rise
}

// Index returns the transition as a matrix index.
func (rf RiseFall) Index() int { return int(rf) }

func (rf RiseFall) String() string {
	if rf == Rise {
		return "rise"
	}
	return "fall"
}

// ShortName returns the one letter transition name used in reports.
func (rf RiseFall) ShortName() string {
	if rf == Rise {
		return "r"
	}
	return "f"
}

// BusPinName returns the name of bit i of the given bus, e.g. "d[3]".
func BusPinName(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}
