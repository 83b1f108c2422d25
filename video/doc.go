// Package video implements the host framebuffer and the 2D primitives the
// guest draws with.
//
// No primitive takes a color. Every call paints with the current draw color
// set by SetColor. Coordinates outside the framebuffer are clipped, never
// indexed, so any guest-supplied arguments are safe.
package video
