//go:build tinygo

package ledctl

import (
	"image/color"

	"tinygo.org/x/drivers/ws2812"
)

// Pixel mirrors the LED onto a single NeoPixel.
type Pixel struct {
	dev ws2812.Device
	On  color.RGBA
}

func NewPixel(dev ws2812.Device) *Pixel {
	return &Pixel{dev: dev, On: color.RGBA{R: 0x20, G: 0x20, B: 0x20}}
}

func (p *Pixel) Set(value bool) {
	c := color.RGBA{}
	if value {
		c = p.On
	}
	_ = p.dev.WriteColors([]color.RGBA{c})
}
