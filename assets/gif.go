package assets

import (
	"bytes"
	"image"
	"image/draw"
	"image/gif"

	"github.com/wippyai/wasm96/errors"
)

// Browsers clamp tiny GIF delays; so does the host.
const minGIFDelayMs = 20

// Animation is a decoded GIF with fully composited frames
type Animation struct {
	Frames  []*Image
	Delays  []int // per-frame display time in milliseconds
	TotalMs int
}

// DecodeGIF decodes every frame of a GIF, applying frame disposal so each
// frame is a complete picture.
func DecodeGIF(data []byte) (*Animation, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Decode("gif", err)
	}
	if len(g.Image) == 0 {
		return nil, errors.Decode("gif", errors.InvalidData(errors.PhaseDecode, nil, "no frames"))
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))

	anim := &Animation{}
	for i, frame := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var restore *image.NRGBA
		if disposal == gif.DisposalPrevious {
			restore = image.NewNRGBA(canvas.Bounds())
			copy(restore.Pix, canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		anim.Frames = append(anim.Frames, FromImage(canvas))

		delay := minGIFDelayMs
		if i < len(g.Delay) && g.Delay[i]*10 >= minGIFDelayMs {
			delay = g.Delay[i] * 10
		}
		anim.Delays = append(anim.Delays, delay)
		anim.TotalMs += delay

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, restore.Pix)
		}
	}
	return anim, nil
}

// Width returns the animation width
func (a *Animation) Width() int { return a.Frames[0].Width }

// Height returns the animation height
func (a *Animation) Height() int { return a.Frames[0].Height }

// FrameAt returns the frame shown elapsedMs after the animation started.
// Animations loop forever.
func (a *Animation) FrameAt(elapsedMs int64) *Image {
	if len(a.Frames) == 1 || a.TotalMs <= 0 {
		return a.Frames[0]
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	t := int(elapsedMs % int64(a.TotalMs))
	for i, d := range a.Delays {
		if t < d {
			return a.Frames[i]
		}
		t -= d
	}
	return a.Frames[len(a.Frames)-1]
}
