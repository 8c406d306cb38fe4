/*
Package sta provides the shared vocabulary of a static timing analyzer:
signal transitions, min/max analysis extremes, design pins, ports and
clocks, and the path ends returned by the timing search engine.

The packages built on top of it split along the analyzer's seams:
network elaborates a design description into a timing graph, search
answers path queries over it, liberty models the output library, and
timingmodel reduces a full design to a boundary-only timing model.
*/
package sta
