// OpenSTA, Static Timing Analyzer
// Copyright (c) 2022, Parallax Software, Inc.

package search

import "github.com/smunaut/OpenSTA/timingmodel"

var (
	_ timingmodel.Search    = (*Engine)(nil)
	_ timingmodel.DelayCalc = (*Engine)(nil)
)
