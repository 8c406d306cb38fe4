// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package sta

import "testing"

func TestWorse(t *testing.T) {
	tests := []struct {
		mm   MinMax
		a, b float64
		want bool
	}{
		{Max, 2, 1, true},
		{Max, 1, 2, false},
		{Max, 1, 1, false},
		{Min, 1, 2, true},
		{Min, 2, 1, false},
		{Min, 1, 1, false},
	}
	for _, tt := range tests {
		if got := tt.mm.Worse(tt.a, tt.b); got != tt.want {
			t.Errorf("%s.Worse(%g, %g) = %v, want %v", tt.mm, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRiseFallMinMaxSetValue(t *testing.T) {
	var m RiseFallMinMax
	if !m.Empty() {
		t.Fatal("new matrix should be empty")
	}
	if _, ok := m.Value(Rise, Max); ok {
		t.Fatal("unset slot should not exist")
	}

	m.SetValue(Rise, Max, 1.5)
	if v, ok := m.Value(Rise, Max); !ok || v != 1.5 {
		t.Errorf("Value(Rise, Max) = %g, %v; want 1.5, true", v, ok)
	}
	if m.Empty() {
		t.Error("matrix with one slot set should not be empty")
	}

	// SetValue overwrites even with a less critical value
	m.SetValue(Rise, Max, 0.5)
	if v, _ := m.Value(Rise, Max); v != 0.5 {
		t.Errorf("after overwrite Value(Rise, Max) = %g, want 0.5", v)
	}

	// other slots stay unset
	if _, ok := m.Value(Fall, Max); ok {
		t.Error("Value(Fall, Max) should not exist")
	}
	if _, ok := m.Value(Rise, Min); ok {
		t.Error("Value(Rise, Min) should not exist")
	}
}

func TestRiseFallMinMaxMergeValue(t *testing.T) {
	tests := []struct {
		name string
		mm   MinMax
		old  float64
		new  float64
		want float64
	}{
		{"max keeps larger", Max, 2, 1, 2},
		{"max takes larger", Max, 1, 2, 2},
		{"min keeps smaller", Min, 1, 2, 1},
		{"min takes smaller", Min, 2, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m RiseFallMinMax
			m.MergeValue(Rise, tt.mm, tt.old)
			m.MergeValue(Rise, tt.mm, tt.new)
			if v, ok := m.Value(Rise, tt.mm); !ok || v != tt.want {
				t.Errorf("Value(Rise, %s) = %g, %v; want %g, true", tt.mm, v, ok, tt.want)
			}
		})
	}
}

func TestRiseFallMinMaxClear(t *testing.T) {
	var m RiseFallMinMax
	m.SetValue(Rise, Max, 1)
	m.SetValue(Fall, Min, 2)
	m.Clear()
	if !m.Empty() {
		t.Error("cleared matrix should be empty")
	}
}

func TestRiseFallOpposite(t *testing.T) {
	if Rise.Opposite() != Fall || Fall.Opposite() != Rise {
		t.Error("Opposite should swap transitions")
	}
}

func TestBusPinName(t *testing.T) {
	if got := BusPinName("d", 3); got != "d[3]" {
		t.Errorf("BusPinName(d, 3) = %q, want d[3]", got)
	}
	if got := BusPinName("addr", 0); got != "addr[0]" {
		t.Errorf("BusPinName(addr, 0) = %q, want addr[0]", got)
	}
}
