package nes

import (
	"fmt"
	"image"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"
)

// Display is the presentation adapter: a PixelGL window that blits the
// committed frame, polls the keyboard into the pad bitmask and forwards
// mouse input to the light gun. All protocol logic stays in the machine;
// the display only copies buffers and publishes input.
type Display struct {
	rgba *image.RGBA // Host-side staging image for the frame texture.

	window     *pixelgl.Window
	gameMatrix pixel.Matrix // Scale and position to render the running NES game.

	frame []uint32 // Copy-out buffer for the frame handoff.
	scale float64
}

func NewDisplay(scale float64) (*Display, error) {
	rect := image.Rect(0, 0, ScreenWidth, ScreenHeight)
	rgba := image.NewRGBA(rect)

	config := pixelgl.WindowConfig{
		Title:  "nesgo",
		Bounds: pixel.R(0, 0, ScreenWidth*scale, ScreenHeight*scale),
		VSync:  true,
	}
	window, err := pixelgl.NewWindow(config)
	if err != nil {
		return nil, err
	}

	// Matrix required to render the game to the display at the set scale.
	pic := pixel.PictureDataFromImage(rgba)
	matrix := pixel.IM.Moved(pic.Bounds().Center().Scaled(scale))
	matrix = matrix.Scaled(pic.Bounds().Center().Scaled(scale), scale)

	return &Display{
		rgba:       rgba,
		window:     window,
		gameMatrix: matrix,
		frame:      make([]uint32, screenPixels),
		scale:      scale,
	}, nil
}

// Run is the presentation loop: one render-and-poll iteration per pass
// until the window closes or the machine stops. Runs on the main thread
// under pixelgl.Run.
func (d *Display) Run(m *Machine) {
	title := ""

	for !d.window.Closed() && m.Running() {
		d.pollInput(m)
		d.drawFrame(m)

		if t := fmt.Sprintf("nesgo - FPS: %d", m.FPS()); t != title {
			title = t
			d.window.SetTitle(title)
		}

		d.window.Update()
	}

	m.Stop()
}

// drawFrame copies the latest committed frame out of the handoff and blits
// it. The packed pixels are RGBA8888, red in the top byte.
func (d *Display) drawFrame(m *Machine) {
	m.Frame.CopyOut(d.frame)

	for i, p := range d.frame {
		d.rgba.Pix[4*i+0] = byte(p >> 24)
		d.rgba.Pix[4*i+1] = byte(p >> 16)
		d.rgba.Pix[4*i+2] = byte(p >> 8)
		d.rgba.Pix[4*i+3] = byte(p)
	}

	d.window.Clear(colornames.Black)

	pic := pixel.PictureDataFromImage(d.rgba)
	sprite := pixel.NewSprite(pic, pic.Bounds())
	sprite.Draw(d.window, d.gameMatrix)
}

func (d *Display) pollInput(m *Machine) {
	m.Input.SetButtons(pollPads(d.window))

	// Control keys.
	if d.window.JustPressed(pixelgl.KeyP) {
		m.TogglePause()
	}
	if d.window.JustPressed(pixelgl.KeyR) {
		m.SoftReset()
	}
	if d.window.JustPressed(pixelgl.KeyZ) {
		m.ToggleZapper()
	}
	if d.window.JustPressed(pixelgl.KeyEscape) {
		d.window.SetClosed(true)
	}

	// Light gun: press aims and pulls the trigger, release fires.
	if m.Bus.ZapperConnected() {
		if d.window.JustPressed(pixelgl.MouseButtonLeft) {
			x, y := d.toScreenCoords(d.window.MousePosition())
			m.Bus.UpdateZapperCoordinates(x, y)
		}
		if d.window.JustReleased(pixelgl.MouseButtonLeft) {
			m.Bus.FireZapper()
		}
	}
}

// toScreenCoords translates a window position into emulated-screen pixels.
// PixelGL's origin is the bottom-left corner, the NES's is the top-left.
func (d *Display) toScreenCoords(pos pixel.Vec) (int, int) {
	x := int(pos.X / d.scale)
	y := ScreenHeight - 1 - int(pos.Y/d.scale)

	if x < 0 {
		x = 0
	} else if x >= ScreenWidth {
		x = ScreenWidth - 1
	}
	if y < 0 {
		y = 0
	} else if y >= ScreenHeight {
		y = ScreenHeight - 1
	}

	return x, y
}
