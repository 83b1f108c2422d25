// Package render implements the wasm96 3D pass.
//
// State holds the enable flag, the camera and the keyed mesh table, and
// tracks the external render context:
//
//	Uninitialized --ContextReset--> Ready --ContextDestroy--> Lost
//	                                  ^                        |
//	                                  +------ContextReset------+
//
// Meshes are logical: their geometry is kept across context loss and
// uploaded to the Backend lazily on the first draw after each reset.
//
// The shipped Backend is Software, a z-buffered rasterizer that lights each
// vertex with a fixed directional light and an ambient floor of 0.2. Its
// color target is composited under the 2D framebuffer, where 2D pixels of
// 0 let the 3D color through.
package render
