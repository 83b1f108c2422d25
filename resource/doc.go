// Package resource provides keyed resource tables for guest-registered
// assets: fonts, images and meshes.
//
// The guest addresses resources by key. String keys are hashed to a Key
// with abi.HashKey before they reach a table.
//
// # Replacement
//
// Registration decodes first and swaps second:
//
//	err := table.Load(key, func() (*assets.Image, error) {
//	    return assets.DecodePNG(data)
//	})
//
// A failed decode leaves any previous entry in place. A successful one
// replaces it, calling Release on the old value when it implements
// Releaser.
//
// # Observers
//
// Observers receive EventCreated, EventReplaced and EventDropped for every
// change. The render backend uses them to drop uploaded textures; tests use
// them to count live resources.
package resource
