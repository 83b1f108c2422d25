// Package input caches per-frame input for guests.
//
// The host polls the frontend exactly once per frame, before any guest
// code runs, and answers every input query of that frame from the copy.
package input
