package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/time/rate"

	"github.com/wippyai/wasm96/core"
	"github.com/wippyai/wasm96/input"
	"github.com/wippyai/wasm96/video"
)

// headless is a frontend without devices: no input, frames and audio are
// kept only for statistics and the final screenshot.
type headless struct {
	last    video.Frame
	frames  int
	samples int
	rate    uint32
}

func (h *headless) PollInput() input.Snapshot { return input.Snapshot{} }

func (h *headless) Present(f video.Frame) {
	h.last = f
	h.frames++
}

func (h *headless) PlayAudio(samples []int16, sampleRate uint32) {
	h.samples += len(samples)
	h.rate = sampleRate
}

// runHeadless runs frames frames at fps, or unpaced when fps is 0.
// Guest traps are logged and do not stop the run.
func runHeadless(ctx context.Context, rt *core.Runtime, frames, fps int) (*headless, error) {
	fe := &headless{}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if fps > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1)
	}
	traps := 0
	for i := 0; i < frames; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return fe, err
		}
		if err := rt.RunFrame(ctx, fe); err != nil {
			traps++
			core.Logger().Warn("frame failed", zap.Int("frame", i), zap.Error(err))
		}
	}
	if traps > 0 {
		core.Logger().Warn("guest trapped during run", zap.Int("traps", traps))
	}
	return fe, nil
}

func (h *headless) report(w io.Writer) {
	fmt.Fprintf(w, "frames: %d\n", h.frames)
	if h.frames > 0 {
		fmt.Fprintf(w, "resolution: %dx%d\n", h.last.Width, h.last.Height)
	}
	if h.rate > 0 {
		fmt.Fprintf(w, "audio: %d samples at %d Hz (%.2fs)\n",
			h.samples, h.rate, float64(h.samples/2)/float64(h.rate))
	}
}

// scaleFrame upscales a frame with nearest-neighbor sampling
func scaleFrame(f video.Frame, scale int) image.Image {
	src := f.Image()
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, f.Width*scale, f.Height*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// writeScreenshot encodes the frame as a PNG file
func writeScreenshot(path string, f video.Frame, scale int) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, scaleFrame(f, scale)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
