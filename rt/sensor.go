package rt

import "fmt"

// Sensor accumulates per-pixel sample sums and exposes them scaled by
// 1/MaxSamples, mirroring the accumulate-then-scale sensor design: the
// integrator sums every sample for a pixel itself and writes the sum once,
// so Sensor never needs locking on its own.
type Sensor struct {
	width, height int
	scalar        float64
	pixels        []Color
}

// NewSensor fails if maxSamples is less than one, or the image has no area -
// there is no meaningful scale factor or pixel buffer otherwise.
func NewSensor(width, height, maxSamples int) (*Sensor, error) {
	if maxSamples < 1 {
		return nil, fmt.Errorf("sensor: need at least one sample, got %d", maxSamples)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sensor: invalid dimensions %dx%d", width, height)
	}
	return &Sensor{
		width:  width,
		height: height,
		scalar: 1.0 / float64(maxSamples),
		pixels: make([]Color, width*height),
	}, nil
}

// Write stores colour, the sum over every sample drawn for pixel (x, y).
// Out-of-range coordinates are silently ignored.
func (s *Sensor) Write(x, y int, colour Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.pixels[x+y*s.width] = colour
}

// Read returns the accumulated sum at (x, y) scaled by 1/MaxSamples.
// Out-of-range coordinates read as Black.
func (s *Sensor) Read(x, y int) Color {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Color{}
	}
	return s.pixels[x+y*s.width].Scale(s.scalar)
}

func (s *Sensor) Width() int  { return s.width }
func (s *Sensor) Height() int { return s.height }
