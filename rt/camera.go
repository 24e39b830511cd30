// TODO add option for Depth of Field, so we can set a global flag that will enable/disable defocus blur
package rt

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"strings"
)

// =============================================================================
// CAMERA STRUCT
// =============================================================================
type Camera struct {
	AspectRatio     float64
	ImageWidth      int
	ImageHeight     int
	SamplesPerPixel int
	MaxDepth        int
	Vfov            float64
	LookFrom        Point3
	LookAt          Point3
	Vup             Vec3
	DefocusAngle    float64
	FocusDist       float64
	LookFrom2       Point3
	LookAt2         Point3
	CameraMotion    bool
	FreeCamera      bool
	Forward         Vec3
	Background      Color
	UseSkyGradient  bool

	pixelsSamplesScale float64
	center             Point3
	pixel00Loc         Point3
	pixelDeltaU        Vec3
	pixelDeltaV        Vec3
	u, v, w            Vec3
	defocusDiskU       Vec3
	defocusDiskV       Vec3
	centerMotion       Ray
	lookAtMotion       Ray
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

func NewCamera() *Camera {
	return &Camera{
		AspectRatio:     1.0,
		ImageWidth:      800,
		SamplesPerPixel: 10,
		MaxDepth:        50,
		Vfov:            90,
		LookFrom:        Point3{0, 0, 0},
		LookAt:          Point3{0, 0, -1},
		Vup:             Vec3{0, 1, 0},
		DefocusAngle:    0.0,
		FocusDist:       1.0,
		LookFrom2:       Point3{0, 0, 0},
		LookAt2:         Point3{0, 0, 0},
		CameraMotion:    false,
		FreeCamera:      false,
		Forward:         Vec3{0, 0, -1},
		Background:      Color{X: 0.0, Y: 0.0, Z: 0.0},
		UseSkyGradient:  false,
	}
}

// =============================================================================
// CAMERA PRESETS
// =============================================================================

type CameraPreset struct {
	AspectRatio     float64
	ImageWidth      int
	SamplesPerPixel int
	MaxDepth        int
	Vfov            float64
	DefocusAngle    float64
	FocusDist       float64
	LookFrom        Point3
	LookAt          Point3
	Vup             Vec3
	FreeCamera      bool
	Forward         Vec3
	Background      Color
	UseSkyGradient  bool
}

// camera presets
// TODO: add presets with blackground color
// TODO: add presets with free camera
// TODO: add skyColor a few presets
func QuickPreview() CameraPreset {
	return CameraPreset{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		Vfov:            20,
		DefocusAngle:    0.0,
		FocusDist:       10.0,
		LookFrom:        Point3{X: 13, Y: 2, Z: 3},
		LookAt:          Point3{X: 0, Y: 0, Z: 0},
		Vup:             Vec3{X: 0, Y: 1, Z: 0},
		Background:      Color{X: 0.5, Y: 0.7, Z: 1.0},
		UseSkyGradient:  true,
	}
}

func StandardQuality() CameraPreset {
	return CameraPreset{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      600,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Vfov:            20,
		DefocusAngle:    0.6,
		FocusDist:       10.0,
		LookFrom:        Point3{X: 13, Y: 2, Z: 3},
		LookAt:          Point3{X: 0, Y: 0, Z: 0},
		Vup:             Vec3{X: 0, Y: 1, Z: 0},
		Background:      Color{X: 0.5, Y: 0.7, Z: 1.0},
	}
}

func HighQuality() CameraPreset {
	return CameraPreset{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      1200,
		SamplesPerPixel: 500,
		MaxDepth:        50,
		Vfov:            20,
		DefocusAngle:    0.6,
		FocusDist:       10.0,
		LookFrom:        Point3{X: 13, Y: 2, Z: 3},
		LookAt:          Point3{X: 0, Y: 0, Z: 0},
		Vup:             Vec3{X: 0, Y: 1, Z: 0},
		Background:      Color{X: 0.5, Y: 0.7, Z: 1.0},
	}

}
func (c *Camera) ApplyPreset(preset CameraPreset) {
	c.AspectRatio = preset.AspectRatio
	c.ImageWidth = preset.ImageWidth
	c.SamplesPerPixel = preset.SamplesPerPixel
	c.MaxDepth = preset.MaxDepth
	c.Vfov = preset.Vfov
	c.DefocusAngle = preset.DefocusAngle
	c.FocusDist = preset.FocusDist
	c.LookFrom = preset.LookFrom
	c.LookAt = preset.LookAt
	c.Vup = preset.Vup
	c.FreeCamera = preset.FreeCamera
	c.Forward = preset.Forward
	c.Background = preset.Background
}

// =============================================================================
// BUILDER PATTERN METHODS
// =============================================================================

func NewCameraBuilder() *Camera {
	return NewCamera()
}

func (c *Camera) SetResolution(width int, aspectRatio float64) *Camera {
	c.ImageWidth = width
	c.AspectRatio = aspectRatio
	return c
}

func (c *Camera) SetQuality(samples, maxDepth int) *Camera {
	c.SamplesPerPixel = samples
	c.MaxDepth = maxDepth
	return c
}

func (c *Camera) SetPosition(lookFrom, lookAt Point3, vup Vec3) *Camera {
	c.LookFrom = lookFrom
	c.LookAt = lookAt
	c.Vup = vup
	return c
}

func (c *Camera) SetLens(vfov, defocusAngle, focusDist float64) *Camera {
	c.Vfov = vfov
	c.DefocusAngle = defocusAngle
	c.FocusDist = focusDist
	return c
}
func (c *Camera) SetMotion(lookFrom2, lookAt2 Point3) *Camera {
	c.LookFrom2 = lookFrom2
	c.LookAt2 = lookAt2
	c.CameraMotion = true
	return c
}

func (c *Camera) SetVFOV(vfov float64) *Camera {
	c.Vfov = vfov
	return c
}

func (c *Camera) SetDefocus(angle, focusDist float64) *Camera {
	c.DefocusAngle = angle
	c.FocusDist = focusDist
	return c
}

func (c *Camera) DisableMotion() *Camera {
	c.CameraMotion = false
	return c
}
func (c *Camera) EnableFreeCamera(position Point3, forward Vec3, vup Vec3) *Camera {
	c.LookFrom = position
	c.Forward = forward.Unit()
	c.Vup = vup.Unit()
	c.FreeCamera = true
	return c
}
func (c *Camera) SetBackground(color Color) *Camera {
	c.Background = color
	return c
}

func (c *Camera) EnableSkyGradient(enable bool) *Camera {
	c.UseSkyGradient = enable
	return c
}

func (c *Camera) Build() *Camera {
	c.Initialize()
	return c
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func (c *Camera) Initialize() {

	if c.CameraMotion {
		velocity := c.LookFrom2.Sub(c.LookFrom)
		c.centerMotion = NewRay(c.LookFrom, velocity, 0)

		lookAtVelocity := c.LookAt2.Sub(c.LookAt)
		c.lookAtMotion = NewRay(c.LookAt, lookAtVelocity, 0)

	} else {
		c.centerMotion = NewRay(c.LookFrom, Vec3{X: 0, Y: 0, Z: 0}, 0)
		c.lookAtMotion = NewRay(c.LookAt, Vec3{X: 0, Y: 0, Z: 0}, 0)
	}
	c.ImageHeight = max(int(float64(c.ImageWidth)/c.AspectRatio), 1)

	c.pixelsSamplesScale = 1.0 / float64(c.SamplesPerPixel)

	c.center = c.LookFrom

	theta := DegreesToRadians(c.Vfov)

	h := math.Tan(theta / 2)

	viewportHeight := 2 * h * c.FocusDist

	viewportWidth := viewportHeight * (float64(c.ImageWidth) / float64(c.ImageHeight))

	if c.FreeCamera {
		c.w = c.Forward.Neg()
	} else {
		c.w = c.center.Sub(c.LookAt).Unit()
	}

	c.u = Cross(c.Vup, c.w).Unit()

	c.v = Cross(c.w, c.u)

	viewportU := c.u.Scale(viewportWidth)

	viewportV := c.v.Neg().Scale(viewportHeight)

	c.pixelDeltaU = viewportU.Div(float64(c.ImageWidth))

	c.pixelDeltaV = viewportV.Div(float64(c.ImageHeight))

	viewportUpperLeft := c.center.
		Sub(c.w.Scale(c.FocusDist)).
		Sub(viewportU.Div(2)).
		Sub(viewportV.Div(2))

	c.pixel00Loc = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Scale(0.5))

	defocusRadius := c.FocusDist * math.Tan(DegreesToRadians(c.DefocusAngle/2))
	c.defocusDiskU = c.u.Scale(defocusRadius)
	c.defocusDiskV = c.v.Scale(defocusRadius)
}

func (c *Camera) sampleSquare(sampler *Sampler) Vec3 {
	return Vec3{
		X: sampler.Float64() - 0.5,
		Y: sampler.Float64() - 0.5,
		Z: 0,
	}
}

func (c *Camera) defocusDiskSample(center Point3, u, v Vec3, sampler *Sampler) Point3 {
	p := sampler.InUnitDisk()
	defocusRadius := c.FocusDist * math.Tan(DegreesToRadians(c.DefocusAngle/2))
	defocusDiskU := u.Scale(defocusRadius)
	defocusDiskV := v.Scale(defocusRadius)

	return center.Add(defocusDiskU.Scale(p.X)).Add(defocusDiskV.Scale(p.Y))
}

// =============================================================================
// RAY GENERATION
// =============================================================================

// GetRay draws one camera sample for pixel (i, j) using sampler, so a whole
// path's randomness - lens position, sub-pixel jitter, and every bounce that
// follows - comes from the same per-pixel stream the integrator seeded.
func (c *Camera) GetRay(i, j int, sampler *Sampler) Ray {
	offset := c.sampleSquare(sampler)
	rayTime := sampler.Float64()

	currentCenter := c.centerMotion.At(rayTime)
	var u, v, w Vec3

	if c.FreeCamera {
		w = c.Forward.Neg()
		u = Cross(c.Vup, w).Unit()
		v = Cross(w, u)
	} else {
		currentLookAt := c.lookAtMotion.At(rayTime)
		w = currentCenter.Sub(currentLookAt).Unit()
		u = Cross(c.Vup, w).Unit()
		v = Cross(w, u)
	}

	theta := DegreesToRadians(c.Vfov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * c.FocusDist
	viewportWidth := viewportHeight * (float64(c.ImageWidth) / float64(c.ImageHeight))

	viewportU := u.Scale(viewportWidth)
	viewportV := v.Neg().Scale(viewportHeight)

	pixelDeltaU := viewportU.Div(float64(c.ImageWidth))
	pixelDeltaV := viewportV.Div(float64(c.ImageHeight))

	viewportUpperLeft := currentCenter.
		Sub(w.Scale(c.FocusDist)).
		Sub(viewportU.Div(2)).
		Sub(viewportV.Div(2))

	pixel00Loc := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Scale(0.5))

	// Calculate pixel sample position
	pixelSample := pixel00Loc.
		Add(pixelDeltaU.Scale(float64(i) + offset.X)).
		Add(pixelDeltaV.Scale(float64(j) + offset.Y))

	// Apply defocus blur if enabled
	var rayOrigin Point3
	if c.DefocusAngle <= 0 {
		rayOrigin = currentCenter
	} else {
		// Defocus disk also moves with camera
		rayOrigin = c.defocusDiskSample(currentCenter, u, v, sampler)
	}

	rayDirection := pixelSample.Sub(rayOrigin)
	return NewRay(rayOrigin, rayDirection, rayTime)
}

func (c *Camera) SkyGradient(r Ray) Color {
	unitDirection := r.Direction().Unit()
	a := 0.5 * (unitDirection.Y + 1.0)
	white := Color{X: 1.0, Y: 1.0, Z: 1.0}
	blue := Color{X: 0.5, Y: 0.7, Z: 1.0}
	return white.Scale(1.0 - a).Add(blue.Scale(a))
}

var (
	BackgroundSkyColor = Color{X: 0.5, Y: 0.7, Z: 1.0}
	BackgroundBlack    = Color{X: 0.0, Y: 0.0, Z: 0.0}
	BackgroundWhite    = Color{X: 1.0, Y: 1.0, Z: 1.0}
	BackgroundGray     = Color{X: 0.5, Y: 0.5, Z: 0.5}
	BackgroundSunset   = Color{X: 1.0, Y: 0.5, Z: 0.3}
	BackgroundNight    = Color{X: 0.05, Y: 0.05, Z: 0.2}
)

// =============================================================================
// RENDERING
// =============================================================================

// Render drives a PathTracingIntegrator over every pixel, accumulating into
// a Sensor before writing a PNG. It is the non-interactive counterpart to
// BucketRenderer/ProgressiveRenderer's live ebiten loops.
func (c *Camera) Render(scene *Scene, enableNEE bool) error {
	c.Initialize()

	sensor, err := NewSensor(c.ImageWidth, c.ImageHeight, c.SamplesPerPixel)
	if err != nil {
		return err
	}
	integrator := NewPathTracingIntegrator(c, scene, enableNEE)

	img := image.NewRGBA(image.Rect(0, 0, c.ImageWidth, c.ImageHeight))

	const barWidth = 40

	for j := range c.ImageHeight {
		c.progressBar(j+1, c.ImageHeight, barWidth)
		for i := range c.ImageWidth {
			colour := integrator.Estimate(i, j, c.MaxDepth, c.SamplesPerPixel)
			if bg, isBackground := integrator.BackgroundColor(i, j); isBackground {
				colour = colour.Add(bg.Scale(float64(c.SamplesPerPixel)))
			}
			sensor.Write(i, j, colour)
		}
	}
	fmt.Fprintln(os.Stderr)

	for j := range c.ImageHeight {
		for i := range c.ImageWidth {
			c.writeColor(img, i, j, sensor.Read(i, j))
		}
	}

	c.saveImage(img, "image.png")
	fmt.Fprintln(os.Stdout, "Done. Image written to image.png")
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================
// writeColor expects pixelColor already averaged over samples (a Sensor.Read
// result, not a raw accumulate sum).
func (c *Camera) writeColor(img *image.RGBA, x, y int, pixelColor Color) {
	r := pixelColor.X
	g := pixelColor.Y
	b := pixelColor.Z

	// Apply gamma correction (gamma = 2.0)
	r = LinearToGamma(r)
	g = LinearToGamma(g)
	b = LinearToGamma(b)

	// Clamp to [0, 1] and convert to [0, 255]
	intensity := NewInterval(0.0, 0.999)
	rByte := uint8(256 * intensity.Clamp(r))
	gByte := uint8(256 * intensity.Clamp(g))
	bByte := uint8(256 * intensity.Clamp(b))

	img.SetRGBA(x, y, color.RGBA{R: rByte, G: gByte, B: bByte, A: 255})
}

func (c *Camera) saveImage(img *image.RGBA, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		panic(err)
	}

	fmt.Printf("Image saved to %s\n", filename)
}

func (c *Camera) progressBar(done, total, width int) {
	p := float64(done) / float64(total)
	filled := min(int(p*float64(width)+0.5), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	// happy  little accident enable to see each progress step
	//fmt.Fprintln(os.Stderr)
	//
	fmt.Fprintf(os.Stderr, "\r[%s] %3.0f%%  scanlines remaining: %d", bar, p*100, total-done)

}
