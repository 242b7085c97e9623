// Package vcd implements a streaming parser for Value Change Dump files,
// the event-log waveform format emitted by digital hardware simulators.
//
// Parsing is split into three layers that share a single forward cursor
// over the input: the Lexer tokenizes the byte stream, ParseHeader consumes
// the declaration section into an immutable Header (scope hierarchy plus
// the identifier-code table), and the Walker turns the remaining dump
// section into a pull-based sequence of value changes. Nothing buffers the
// whole file, so arbitrarily large dumps can be processed with bounded
// memory.
package vcd
