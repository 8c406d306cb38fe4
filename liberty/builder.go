// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package liberty

import (
	"github.com/pkg/errors"

	sta "github.com/smunaut/OpenSTA"
)

// A Builder creates cells, ports and timing arcs in an output library.
type Builder struct{}

// NewBuilder returns a library builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// MakeCell creates a cell in lib.
func (b *Builder) MakeCell(lib *Library, name string) (*Cell, error) {
	c := &Cell{
		Name:    name,
		Library: lib,
		ports:   make(map[string]*Port),
	}
	if err := lib.addCell(c); err != nil {
		return nil, err
	}
	return c, nil
}

// MakePort creates a scalar port in cell.
func (b *Builder) MakePort(cell *Cell, name string) (*Port, error) {
	p := &Port{Name: name}
	if err := cell.addPort(p); err != nil {
		return nil, err
	}
	return p, nil
}

// MakeBusPort creates a bus port in cell together with one bit port
// per member. Bit ports are registered under their bit names.
func (b *Builder) MakeBusPort(cell *Cell, name string, from, to int, dcl *BusDcl) (*Port, error) {
	p := &Port{Name: name, IsBus: true, BusDcl: dcl}
	if err := cell.addPort(p); err != nil {
		return nil, err
	}
	step := 1
	if from > to {
		step = -1
	}
	for i := from; ; i += step {
		bit := &Port{Name: sta.BusPinName(name, i)}
		if err := cell.addMemberPort(bit); err != nil {
			return nil, err
		}
		p.Members = append(p.Members, bit)
		if i == to {
			break
		}
	}
	return p, nil
}

// MakeCombinationalArcs creates a gate arc between two ports carrying
// the given attribute bundle.
func (b *Builder) MakeCombinationalArcs(cell *Cell, from, to *Port, attrs *ArcAttrs) error {
	if attrs == nil || attrs.Empty() {
		return errors.New("combinational arc " + from.Name + " -> " + to.Name + " has no model")
	}
	return cell.addArc(&TimingArc{
		From:  from,
		To:    to,
		Role:  RoleCombinational,
		Attrs: attrs,
	})
}

// MakeFromTransitionArcs creates an edge sensitive arc (a check or a
// register output arc) triggered by the given transition of from.
func (b *Builder) MakeFromTransitionArcs(cell *Cell, from, to *Port, fromRF sta.RiseFall, role TimingRole, attrs *ArcAttrs) error {
	if attrs == nil || attrs.Empty() {
		return errors.New(role.String() + " arc " + from.Name + " -> " + to.Name + " has no model")
	}
	return cell.addArc(&TimingArc{
		From:           from,
		To:             to,
		FromTransition: fromRF,
		Role:           role,
		Attrs:          attrs,
	})
}
