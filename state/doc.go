// Package state holds the host context: everything a guest can observe or
// change through host functions.
//
// A Context is created once per runtime and reset when a guest is
// unloaded. It is passed explicitly to every host function binding; there
// is no package-level state.
package state
