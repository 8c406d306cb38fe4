// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package timingmodel

import (
	"github.com/pkg/errors"

	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/liberty"
)

// makeScalarCheckModel wraps a check margin into a one entry table
// keyed by the scalar template.
func (m *Maker) makeScalarCheckModel(value float64, scale liberty.ScaleFactorType, rf sta.RiseFall) (liberty.TimingModel, error) {
	tmpl, err := m.scalarTemplate()
	if err != nil {
		return nil, err
	}
	return &liberty.CheckModel{
		Check: &liberty.TableModel{
			Table:      &liberty.Table{Value: value},
			Template:   tmpl,
			ScaleType:  scale,
			Transition: rf,
		},
	}, nil
}

// makeScalarGateModel wraps a delay and its slew into a pair of one
// entry tables keyed by the scalar template.
func (m *Maker) makeScalarGateModel(delay, slew float64, rf sta.RiseFall) (liberty.TimingModel, error) {
	tmpl, err := m.scalarTemplate()
	if err != nil {
		return nil, err
	}
	return &liberty.GateModel{
		Delay: &liberty.TableModel{
			Table:      &liberty.Table{Value: delay},
			Template:   tmpl,
			ScaleType:  liberty.ScaleFactorCell,
			Transition: rf,
		},
		Slew: &liberty.TableModel{
			Table:      &liberty.Table{Value: slew},
			Template:   tmpl,
			ScaleType:  liberty.ScaleFactorCell,
			Transition: rf,
		},
	}, nil
}

// scalarTemplate returns the scalar table template of the output
// library. Its absence is a configuration error that aborts model
// construction.
func (m *Maker) scalarTemplate() (*liberty.TableTemplate, error) {
	tmpl := m.lib.FindTableTemplate(liberty.ScalarTemplateName)
	if tmpl == nil {
		return nil, errors.New("table template \"" + liberty.ScalarTemplateName +
			"\" not found in library " + m.lib.Name)
	}
	return tmpl, nil
}
