// Package main hosts the cutlist CLI entrypoint and command graph.
//
// The Cobra-based command tree works directly on recordings and their
// sidecars: it lists media states, resolves titles, shows detector
// segments, commits EDL files and manages review sessions in the local
// session database. Commands share configuration resolution and output
// helpers so each one only describes its own behavior.
//
// The HTTP review surface lives in cutlistd; this package never talks to the
// daemon.
package main
