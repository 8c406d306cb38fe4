// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package sta

// Direction of a port or pin as seen from outside the block.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// IsInput reports whether the direction is input.
func (d Direction) IsInput() bool { return d == Input }

// IsOutput reports whether the direction is output.
func (d Direction) IsOutput() bool { return d == Output }

// A Port is a top level port of the analyzed block. A bus port carries
// its bit ports in Members and has no pin of its own.
type Port struct {
	Name      string
	Direction Direction
	IsBus     bool
	FromIndex int
	ToIndex   int
	Members   []*Port
	Pin       *Pin
}

// A Pin is a vertex of the timing graph. Top level pins carry a back
// reference to their port; pins internal to the block (register data
// and clock pins) have a nil Port.
type Pin struct {
	Name      string
	Direction Direction
	Port      *Port
}

func (p *Pin) String() string { return p.Name }
