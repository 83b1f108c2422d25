package state

import (
	"sync"
	"time"

	wasm96 "github.com/wippyai/wasm96"
	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/assets"
	"github.com/wippyai/wasm96/audio"
	"github.com/wippyai/wasm96/input"
	"github.com/wippyai/wasm96/render"
	"github.com/wippyai/wasm96/resource"
	"github.com/wippyai/wasm96/storage"
	"github.com/wippyai/wasm96/video"
)

// Options configures a new Context
type Options struct {
	// Backend renders the 3D pass. Nil uses the software backend.
	Backend render.Backend
	// Storage backs storage_save/storage_load. Nil uses an in-memory store.
	Storage storage.Store
	// Clock is the time source for system_millis and GIF timing.
	Clock func() time.Time
	// Width and Height set the initial framebuffer. Zero uses 320×240.
	Width  int
	Height int
	// SampleRate is the initial audio rate. Zero uses 44100.
	SampleRate uint32
}

// Context is the host state shared by every host function of one runtime.
// Host functions hold the lock for the duration of their body only.
type Context struct {
	Video    *video.Framebuffer
	Audio    *audio.State
	Render   *render.State
	Fonts    *resource.Table[*assets.Font]
	PNGs     *resource.Table[*assets.Image]
	JPEGs    *resource.Table[*assets.Image]
	GIFs     *resource.Table[*assets.Animation]
	SVGs     *resource.Table[*assets.SVG]
	Textures *resource.Table[*assets.Image]
	// Resources counts live entries of every table above and the meshes
	Resources *resource.Counter
	Storage   storage.Store
	Input     input.State

	frontend wasm96.Frontend
	builtin  *assets.Font
	clock    func() time.Time
	start    time.Time
	opts     Options
	mu       sync.Mutex
}

// New creates a context with default video, audio and render state
func New(opts Options) *Context {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = video.DefaultWidth, video.DefaultHeight
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Storage == nil {
		opts.Storage = storage.NewMemory()
	}
	c := &Context{
		Video:     video.New(opts.Width, opts.Height),
		Audio:     audio.New(),
		Render:    render.New(opts.Backend, opts.Width, opts.Height),
		Fonts:     resource.NewTable[*assets.Font]("font"),
		PNGs:      resource.NewTable[*assets.Image]("png"),
		JPEGs:     resource.NewTable[*assets.Image]("jpeg"),
		GIFs:      resource.NewTable[*assets.Animation]("gif"),
		SVGs:      resource.NewTable[*assets.SVG]("svg"),
		Textures:  resource.NewTable[*assets.Image]("texture"),
		Resources: resource.NewCounter(),
		Storage:   opts.Storage,
		clock:     opts.Clock,
		opts:      opts,
	}
	c.Fonts.Subscribe(c.Resources)
	c.PNGs.Subscribe(c.Resources)
	c.JPEGs.Subscribe(c.Resources)
	c.GIFs.Subscribe(c.Resources)
	c.SVGs.Subscribe(c.Resources)
	c.Textures.Subscribe(c.Resources)
	c.Render.Meshes.Subscribe(c.Resources)
	if opts.SampleRate != 0 {
		c.Audio.Init(opts.SampleRate)
	}
	c.start = c.clock()
	return c
}

// Lock acquires the context for one host function body
func (c *Context) Lock() { c.mu.Lock() }

// Unlock releases the context
func (c *Context) Unlock() { c.mu.Unlock() }

// Reset returns every guest-visible piece of state to its initial value.
// The render context and the storage backend are kept.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Video = video.New(c.opts.Width, c.opts.Height)
	c.Audio.Reset()
	if c.opts.SampleRate != 0 {
		c.Audio.Init(c.opts.SampleRate)
	}
	c.Input.Reset()
	c.Render.Reset(c.opts.Width, c.opts.Height)
	c.Fonts.Clear()
	c.PNGs.Clear()
	c.JPEGs.Clear()
	c.GIFs.Clear()
	c.SVGs.Clear()
	c.Textures.Clear()
	c.frontend = nil
	c.start = c.clock()
}

// Bind attaches the frontend for the current frame and snapshots its input
func (c *Context) Bind(f wasm96.Frontend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frontend = f
	c.Input.Capture(f)
}

// Unbind detaches the frontend at the end of a frame
func (c *Context) Unbind() {
	c.mu.Lock()
	c.frontend = nil
	c.mu.Unlock()
}

// Frontend returns the bound frontend, or nil outside a frame
func (c *Context) Frontend() wasm96.Frontend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frontend
}

// Millis returns milliseconds elapsed since load or the last reset.
// Callers hold the lock.
func (c *Context) Millis() int64 {
	return c.clock().Sub(c.start).Milliseconds()
}

// Font resolves a font key. The built-in font's key resolves to the
// built-in font at its default size when nothing is registered under it.
// Callers hold the lock.
func (c *Context) Font(key abi.Key) *assets.Font {
	if f, ok := c.Fonts.Get(key); ok {
		return f
	}
	if key == abi.HashKey(abi.BuiltinFontKey) {
		if c.builtin == nil {
			c.builtin = assets.Builtin(assets.DefaultBuiltinSize)
		}
		return c.builtin
	}
	return nil
}

// Texture resolves an image key for a mesh: MTL textures first, then PNG,
// JPEG and the current GIF frame. Callers hold the lock.
func (c *Context) Texture(key abi.Key) *assets.Image {
	if img, ok := c.Textures.Get(key); ok {
		return img
	}
	if img, ok := c.PNGs.Get(key); ok {
		return img
	}
	if img, ok := c.JPEGs.Get(key); ok {
		return img
	}
	if anim, ok := c.GIFs.Get(key); ok {
		return anim.FrameAt(c.Millis())
	}
	return nil
}

// Present composites the 2D framebuffer over this frame's 3D output.
// Callers hold the lock.
func (c *Context) Present() video.Frame {
	frame := c.Video.Snapshot()
	if under := c.Render.Output(); under != nil && len(under) == len(frame.Pixels) {
		frame.Pixels = c.Video.Composite(under)
	}
	return frame
}
