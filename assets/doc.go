// Package assets decodes the byte formats guests hand to the host: PNG,
// JPEG, GIF and SVG images, TrueType fonts, and OBJ, STL and MTL geometry.
//
// Decoders are pure functions of their input. They never touch host state,
// so a failed decode cannot disturb a resource that is already registered.
package assets
