// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package liberty

import (
	"github.com/pkg/errors"

	sta "github.com/smunaut/OpenSTA"
)

// TimingRole tags what a timing arc models.
type TimingRole int

const (
	RoleCombinational TimingRole = iota
	RoleSetup
	RoleHold
	RoleRegClkToQ
)

func (r TimingRole) String() string {
	switch r {
	case RoleSetup:
		return "setup"
	case RoleHold:
		return "hold"
	case RoleRegClkToQ:
		return "reg_clk_to_q"
	default:
		return "combinational"
	}
}

// TimingSense classifies how an output transition depends on an input
// transition.
type TimingSense int

const (
	SenseUnknown TimingSense = iota
	PositiveUnate
	NegativeUnate
	NonUnate
	SenseNone
)

func (s TimingSense) String() string {
	switch s {
	case PositiveUnate:
		return "positive_unate"
	case NegativeUnate:
		return "negative_unate"
	case NonUnate:
		return "non_unate"
	case SenseNone:
		return "none"
	default:
		return "unknown"
	}
}

// ArcAttrs bundles the per transition models shared by the arcs
// created from one synthesis step.
type ArcAttrs struct {
	models [2]TimingModel
	sense  TimingSense
}

// NewArcAttrs returns an empty attribute bundle.
func NewArcAttrs() *ArcAttrs {
	return &ArcAttrs{}
}

// SetModel attaches the model for transition rf.
func (a *ArcAttrs) SetModel(rf sta.RiseFall, m TimingModel) {
	a.models[rf.Index()] = m
}

// Model returns the model attached for transition rf, or nil.
func (a *ArcAttrs) Model(rf sta.RiseFall) TimingModel {
	return a.models[rf.Index()]
}

// SetTimingSense sets the unateness of the arcs sharing the bundle.
func (a *ArcAttrs) SetTimingSense(s TimingSense) {
	a.sense = s
}

// TimingSense returns the unateness of the arcs sharing the bundle.
func (a *ArcAttrs) TimingSense() TimingSense {
	return a.sense
}

// Empty reports whether no model is attached.
func (a *ArcAttrs) Empty() bool {
	return a.models[0] == nil && a.models[1] == nil
}

// A TimingArc is a directed timing relation between two ports of a
// cell. Edge sensitive arcs (checks, register outputs) carry the
// driving transition they apply to.
type TimingArc struct {
	From           *Port
	To             *Port
	FromTransition sta.RiseFall
	Role           TimingRole
	Attrs          *ArcAttrs
}

// A Port of a model cell. Bus ports carry their bit ports in Members
// and reference their bus declaration.
type Port struct {
	Name        string
	Direction   sta.Direction
	Capacitance float64
	IsBus       bool
	BusDcl      *BusDcl
	Members     []*Port
}

// A Cell is a model cell under construction until Finish seals it.
type Cell struct {
	Name    string
	Library *Library

	ports   map[string]*Port
	portSeq []*Port
	arcs    []*TimingArc
	sealed  bool
}

// FindPort returns the cell port with the given name, or nil. Bus bit
// ports are found under their bit name, e.g. "d[2]".
func (c *Cell) FindPort(name string) *Port {
	return c.ports[name]
}

// Ports returns the cell ports in creation order, bus members
// excluded.
func (c *Cell) Ports() []*Port {
	return c.portSeq
}

// Arcs returns the timing arcs in creation order.
func (c *Cell) Arcs() []*TimingArc {
	return c.arcs
}

// Finish validates the cell and seals it against further mutation.
func (c *Cell) Finish() error {
	if c.sealed {
		return errors.New("cell " + c.Name + " already finished")
	}
	for _, arc := range c.arcs {
		if arc.From == nil || arc.To == nil {
			return errors.New("cell " + c.Name + ": arc with missing port")
		}
		if c.ports[arc.From.Name] != arc.From || c.ports[arc.To.Name] != arc.To {
			return errors.New("cell " + c.Name + ": arc references port of another cell")
		}
		if arc.Attrs == nil || arc.Attrs.Empty() {
			return errors.New("cell " + c.Name + ": arc " + arc.From.Name + " -> " +
				arc.To.Name + " has no timing model")
		}
	}
	c.sealed = true
	return nil
}

func (c *Cell) addPort(p *Port) error {
	if c.sealed {
		return errors.New("cell " + c.Name + " is finished")
	}
	if _, ok := c.ports[p.Name]; ok {
		return errors.New("port " + p.Name + " already exists in cell " + c.Name)
	}
	c.ports[p.Name] = p
	c.portSeq = append(c.portSeq, p)
	return nil
}

// addMemberPort registers a bus bit port under its bit name without
// listing it among the cell's top ports.
func (c *Cell) addMemberPort(p *Port) error {
	if c.sealed {
		return errors.New("cell " + c.Name + " is finished")
	}
	if _, ok := c.ports[p.Name]; ok {
		return errors.New("port " + p.Name + " already exists in cell " + c.Name)
	}
	c.ports[p.Name] = p
	return nil
}

func (c *Cell) addArc(a *TimingArc) error {
	if c.sealed {
		return errors.New("cell " + c.Name + " is finished")
	}
	c.arcs = append(c.arcs, a)
	return nil
}
