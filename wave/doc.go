// Package wave turns the irregular event stream of a VCD dump into
// fixed-grid sampled waveforms and renders them as WaveJSON.
//
// The Resampler walks the change stream exactly once for all requested
// signals, producing one sample per simulation tick inside the window.
// Sample sequences therefore have a length fixed by the window alone,
// regardless of how many raw events each signal saw, which is what keeps
// lanes aligned in the rendered diagram.
package wave
