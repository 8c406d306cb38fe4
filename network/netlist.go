// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

// Package network elaborates a YAML design description into the
// flattened form the search engine analyzes: top level ports and pins,
// named nets, combinational gates and edge triggered registers.
package network

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Netlist is the YAML description of a design and of the default
// library its timing is expressed in.
type Netlist struct {
	Name      string         `yaml:"name"`
	Library   LibraryDesc    `yaml:"library"`
	Ports     []PortDesc     `yaml:"ports"`
	Clocks    []ClockDesc    `yaml:"clocks"`
	Gates     []GateDesc     `yaml:"gates"`
	Registers []RegisterDesc `yaml:"registers"`
}

// LibraryDesc describes the default library: units, measurement
// thresholds and nominal operating conditions.
type LibraryDesc struct {
	Name       string        `yaml:"name"`
	TimeUnit   string        `yaml:"time_unit"`
	CapUnit    string        `yaml:"cap_unit"`
	Thresholds ThresholdDesc `yaml:"thresholds"`
	Nominal    NominalDesc   `yaml:"nominal"`
}

// ThresholdDesc holds the switching and slew measurement thresholds in
// percent of the rail, applied to both transitions.
type ThresholdDesc struct {
	Input     float64 `yaml:"input"`
	Output    float64 `yaml:"output"`
	SlewLower float64 `yaml:"slew_lower"`
	SlewUpper float64 `yaml:"slew_upper"`
}

// NominalDesc holds the nominal process, voltage and temperature.
type NominalDesc struct {
	Process     float64 `yaml:"process"`
	Voltage     float64 `yaml:"voltage"`
	Temperature float64 `yaml:"temperature"`
}

// PortDesc describes a top level port. A port connects to the net of
// the same name; bus ports connect bit by bit ("d[0]", "d[1]", ...).
type PortDesc struct {
	Name      string    `yaml:"name"`
	Direction string    `yaml:"direction"`
	Bus       *BusRange `yaml:"bus"`
}

// BusRange declares the index range of a bus port.
type BusRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// ClockDesc defines a clock on a top level input port.
type ClockDesc struct {
	Name   string  `yaml:"name"`
	Port   string  `yaml:"port"`
	Period float64 `yaml:"period"`
}

// GateDesc describes one combinational gate. Kind selects the
// unateness and may be overridden with an explicit sense.
type GateDesc struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"`
	Sense    string        `yaml:"sense"`
	Inputs   []string      `yaml:"inputs"`
	Output   string        `yaml:"output"`
	Delay    RiseFallValue `yaml:"delay"`
	Slew     RiseFallValue `yaml:"slew"`
	InputCap float64       `yaml:"input_cap"`
}

// RegisterDesc describes one edge triggered register.
type RegisterDesc struct {
	Name     string        `yaml:"name"`
	Data     string        `yaml:"data"`
	Clock    string        `yaml:"clock"`
	Out      string        `yaml:"out"`
	Edge     string        `yaml:"edge"`
	Setup    float64       `yaml:"setup"`
	Hold     float64       `yaml:"hold"`
	ClkToQ   RiseFallValue `yaml:"clk_to_q"`
	Slew     RiseFallValue `yaml:"slew"`
	DataCap  float64       `yaml:"data_cap"`
	ClockCap float64       `yaml:"clock_cap"`
}

// RiseFallValue holds one value per transition.
type RiseFallValue struct {
	Rise float64 `yaml:"rise"`
	Fall float64 `yaml:"fall"`
}

// Load reads a netlist description from r.
func Load(r io.Reader) (*Netlist, error) {
	var nl Netlist
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&nl); err != nil {
		return nil, errors.Wrap(err, "decode netlist")
	}
	if nl.Name == "" {
		return nil, errors.New("netlist has no name")
	}
	return &nl, nil
}

// LoadFile reads a netlist description from a file.
func LoadFile(path string) (*Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open netlist")
	}
	defer f.Close()
	nl, err := Load(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return nl, nil
}
