// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package sta

// MinMax selects one of the two operating extremes timing is checked
// under. Max corresponds to setup checks, Min to hold checks.
type MinMax int

const (
	Min MinMax = iota
	Max
)

// MinMaxRange lists both extremes in iteration order.
var MinMaxRange = [2]MinMax{Min, Max}

// Index returns the extreme as a matrix index.
func (mm MinMax) Index() int { return int(mm) }

func (mm MinMax) String() string {
	if mm == Min {
		return "min"
	}
	return "max"
}

// Worse reports whether a is worse than b under mm: larger for max,
// smaller for min.
func (mm MinMax) Worse(a, b float64) bool {
	if mm == Max {
		return a > b
	}
	return a < b
}

// RiseFallMinMax is a scalar value matrix indexed by transition and
// analysis extreme. Slots are unset until written.
type RiseFallMinMax struct {
	value  [2][2]float64
	exists [2][2]bool
}

// SetValue overwrites the slot for (rf, mm).
func (m *RiseFallMinMax) SetValue(rf RiseFall, mm MinMax, v float64) {
	m.value[rf.Index()][mm.Index()] = v
	m.exists[rf.Index()][mm.Index()] = true
}

// MergeValue writes v into the slot for (rf, mm), keeping the worse of
// the existing and new values under mm.
func (m *RiseFallMinMax) MergeValue(rf RiseFall, mm MinMax, v float64) {
	if m.exists[rf.Index()][mm.Index()] && !mm.Worse(v, m.value[rf.Index()][mm.Index()]) {
		return
	}
	m.SetValue(rf, mm, v)
}

// Value returns the slot for (rf, mm) and whether it has been written.
func (m *RiseFallMinMax) Value(rf RiseFall, mm MinMax) (float64, bool) {
	return m.value[rf.Index()][mm.Index()], m.exists[rf.Index()][mm.Index()]
}

// Empty reports whether no slot has been written.
func (m *RiseFallMinMax) Empty() bool {
	for _, rf := range RiseFallRange {
		for _, mm := range MinMaxRange {
			if m.exists[rf.Index()][mm.Index()] {
				return false
			}
		}
	}
	return true
}

// Clear unsets all slots.
func (m *RiseFallMinMax) Clear() {
	*m = RiseFallMinMax{}
}
