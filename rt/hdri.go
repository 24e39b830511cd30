package rt

import (
	"fmt"
	"math"
)

// =============================================================================
// ENVIRONMENT MAP EMITTER
// =============================================================================

// environmentDistance is how far along a sampled direction the environment's
// emitter point is placed. The integrator treats every emitter as occupying
// a point in space; an environment map has none, so one is manufactured far
// enough away that the inverse-square term in the area-to-solid-angle
// conversion cancels out against PdfLe's matching 1/distance^2 scaling,
// leaving the intended solid-angle PDF.
const environmentDistance = 1e6

// Environment is an equirectangular HDRI environment map, sampled as a
// distant area emitter with luminance-weighted importance sampling.
type Environment struct {
	image    *ImageLoader
	width    int
	height   int
	rotation float64 // radians

	useImportanceSampling bool
	pdf                   []float64   // per-pixel PDF (luminance-weighted)
	marginalCDF           []float64   // row-selection CDF
	conditionalCDFs       [][]float64 // per-row column-selection CDF
	totalPower            float64
}

// NewEnvironment loads an HDRI environment map and builds its importance
// sampling distribution. A failed load still returns a usable Environment
// that falls back to a flat sky colour.
func NewEnvironment(filename string) *Environment {
	env := &Environment{useImportanceSampling: true}

	env.image = NewImageLoaderFromHDR(filename)
	if env.image.data == nil {
		fmt.Printf("Warning: failed to load environment map '%s'\n", filename)
		return env
	}

	env.width = env.image.Width()
	env.height = env.image.Height()
	env.buildDistribution()

	return env
}

func (env *Environment) SetRotation(degrees float64) {
	env.rotation = degrees * math.Pi / 180.0
}

func (env *Environment) DisableImportanceSampling() {
	env.useImportanceSampling = false
	env.pdf = nil
	env.marginalCDF = nil
	env.conditionalCDFs = nil
}

func (env *Environment) IsValid() bool {
	return env.image != nil && env.image.data != nil
}

// =============================================================================
// EQUIRECTANGULAR MAPPING
// =============================================================================

func (env *Environment) directionToUV(dir Vec3) (u, v float64) {
	d := dir.Unit()

	phi := math.Atan2(d.Z, d.X) // [-pi, pi]
	theta := math.Asin(d.Y)     // [-pi/2, pi/2]

	u = 0.5 + phi/(2*math.Pi)
	v = 0.5 - theta/math.Pi

	u = u + env.rotation/(2*math.Pi)
	u = u - math.Floor(u)

	return u, v
}

func (env *Environment) uvToDirection(u, v float64) Vec3 {
	u = u - env.rotation/(2*math.Pi)
	u = u - math.Floor(u)

	phi := (u - 0.5) * 2 * math.Pi
	theta := (0.5 - v) * math.Pi

	cosTheta := math.Cos(theta)
	return Vec3{
		X: cosTheta * math.Cos(phi),
		Y: math.Sin(theta),
		Z: cosTheta * math.Sin(phi),
	}
}

func (env *Environment) lookup(dir Vec3) Color {
	if !env.IsValid() {
		return Color{X: 0.5, Y: 0.7, Z: 1.0}
	}
	u, v := env.directionToUV(dir)
	return env.image.PixelDataBilinear(u, v)
}

// =============================================================================
// IMPORTANCE SAMPLING
// =============================================================================

func (env *Environment) buildDistribution() {
	if !env.IsValid() {
		return
	}

	width := env.width
	height := env.height

	env.pdf = make([]float64, width*height)
	env.marginalCDF = make([]float64, height+1)
	env.conditionalCDFs = make([][]float64, height)

	env.totalPower = 0
	rowSums := make([]float64, height)

	for y := 0; y < height; y++ {
		v := (float64(y) + 0.5) / float64(height)
		theta := (0.5 - v) * math.Pi
		sinTheta := math.Cos(theta)

		env.conditionalCDFs[y] = make([]float64, width+1)

		for x := 0; x < width; x++ {
			idx := y*width + x

			weight := env.image.Luminance(x, y) * sinTheta
			if weight < 0 {
				weight = 0
			}

			env.pdf[idx] = weight
			rowSums[y] += weight
			env.totalPower += weight
			env.conditionalCDFs[y][x+1] = env.conditionalCDFs[y][x] + weight
		}
	}

	for y := 0; y < height; y++ {
		if rowSums[y] > 0 {
			for x := 0; x <= width; x++ {
				env.conditionalCDFs[y][x] /= rowSums[y]
			}
		}
	}

	for y := 0; y < height; y++ {
		env.marginalCDF[y+1] = env.marginalCDF[y] + rowSums[y]
	}

	if env.totalPower > 0 {
		for y := 0; y <= height; y++ {
			env.marginalCDF[y] /= env.totalPower
		}
		for i := range env.pdf {
			env.pdf[i] /= env.totalPower
		}
	}
}

func (env *Environment) sampleDirection(sampler *Sampler) (Vec3, float64) {
	if !env.IsValid() || !env.useImportanceSampling || env.totalPower == 0 {
		dir := sampler.UnitVector()
		return dir, 1.0 / (4.0 * math.Pi)
	}

	y := searchCDF(env.marginalCDF, sampler.Float64())
	x := searchCDF(env.conditionalCDFs[y], sampler.Float64())

	u := (float64(x) + 0.5) / float64(env.width)
	v := (float64(y) + 0.5) / float64(env.height)

	dir := env.uvToDirection(u, v)
	return dir, env.solidAnglePDF(dir)
}

func (env *Environment) solidAnglePDF(dir Vec3) float64 {
	if !env.IsValid() || !env.useImportanceSampling || env.totalPower == 0 {
		return 1.0 / (4.0 * math.Pi)
	}

	u, v := env.directionToUV(dir)

	x := clamp(int(u*float64(env.width)), 0, env.width)
	y := clamp(int(v*float64(env.height)), 0, env.height)
	idx := y*env.width + x

	theta := (0.5 - v) * math.Pi
	sinTheta := math.Cos(theta)
	if sinTheta < 1e-10 {
		sinTheta = 1e-10
	}

	pdfSolidAngle := env.pdf[idx] * float64(env.width*env.height) / (2.0 * math.Pi * math.Pi * sinTheta)
	if pdfSolidAngle < 1e-10 {
		return 1e-10
	}
	return pdfSolidAngle
}

func searchCDF(cdf []float64, xi float64) int {
	n := len(cdf) - 1
	low, high := 0, n

	for low < high {
		mid := (low + high) / 2
		if cdf[mid+1] <= xi {
			low = mid + 1
		} else {
			high = mid
		}
	}

	if low >= n {
		low = n - 1
	}
	if low < 0 {
		low = 0
	}
	return low
}

func (env *Environment) TotalPower() float64 { return env.totalPower }

// =============================================================================
// EMITTER INTERFACE
// =============================================================================

// Sample draws an importance-sampled direction and places a point
// environmentDistance away along it.
func (env *Environment) Sample(sampler *Sampler) Vec3 {
	dir, _ := env.sampleDirection(sampler)
	return dir.Scale(environmentDistance)
}

// Radiance returns the environment colour looking from point back toward
// directionAway's origin, i.e. along -directionAway.
func (env *Environment) Radiance(point Vec3, directionAway Vec3) Color {
	return env.lookup(directionAway.Neg())
}

// PdfLe returns an area-measure PDF that, once the integrator multiplies it
// by distance^2 (environmentDistance^2, since cosTheta is fixed at 1 here),
// recovers the map's own solid-angle PDF for directionAway.
func (env *Environment) PdfLe(point Vec3, directionAway Vec3) (pdfArea, cosTheta float64) {
	pdfSolidAngle := env.solidAnglePDF(directionAway.Neg())
	return pdfSolidAngle / (environmentDistance * environmentDistance), 1.0
}

func (env *Environment) Type() EmitterType { return EmitterEnvironment }
func (env *Environment) IsDirac() bool     { return false }
