// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

// Command stamodel extracts a boundary timing model from a design
// netlist and writes it in the library exchange syntax.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	sta "github.com/smunaut/OpenSTA"
	"github.com/smunaut/OpenSTA/liberty"
	"github.com/smunaut/OpenSTA/network"
	"github.com/smunaut/OpenSTA/search"
	"github.com/smunaut/OpenSTA/timingmodel"
)

var (
	designPath string
	cellName   string
	outPath    string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stamodel",
	Short: "Extract a boundary timing model from a design netlist",
	Long: `stamodel reduces the internal timing of a design to a boundary model:
a single cell with the design's external ports and the minimal set of
timing arcs (setup/hold checks, combinational delays, register clock
to output delays) reproducing its worst case timing at the boundary.

The design is read from a YAML netlist and the model is written in the
library exchange syntax.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	nl, err := network.LoadFile(designPath)
	if err != nil {
		return err
	}
	design, err := network.Elaborate(nl)
	if err != nil {
		return err
	}
	name := cellName
	if name == "" {
		name = design.Name()
	}

	corner := &sta.Corner{Name: "default"}
	engine := search.NewEngine(design, corner)
	maker := timingmodel.New(design, engine, engine, corner, logger)

	logger.Info("extracting timing model",
		zap.String("design", design.Name()),
		zap.String("cell", name))
	lib, err := maker.MakeTimingModel(name)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return liberty.Write(out, lib)
}

func main() {
	rootCmd.Flags().StringVar(&designPath, "design", "", "design netlist (YAML)")
	rootCmd.Flags().StringVar(&cellName, "cell", "", "model cell name (default: design name)")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = rootCmd.MarkFlagRequired("design")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
