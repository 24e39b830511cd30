package rt

import (
	"math"
	"math/rand"
)

// Seed constants for per-pixel sampler construction. Odd and distinct so that
// neighbouring pixels decorrelate instead of sharing a stream.
const (
	seedConstantA = 0x1337
	seedConstantB = 0xbeef
)

// Sampler is a per-pixel pseudo-random source. Seeding it from pixel
// coordinates instead of drawing from a single global generator is what
// makes a render reproducible: the same (x, y) always yields the same
// sequence of draws, regardless of goroutine scheduling.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler builds the deterministic stream for pixel (x, y).
func NewSampler(x, y int) *Sampler {
	seed := uint64(x+1)*seedConstantA ^ uint64(y+1)*seedConstantB
	return &Sampler{rng: rand.New(rand.NewSource(int64(seed)))}
}

// Float64 draws a uniform real in [0, 1).
func (s *Sampler) Float64() float64 {
	return s.rng.Float64()
}

// Range draws a uniform real in [min, max).
func (s *Sampler) Range(min, max float64) float64 {
	return min + (max-min)*s.Float64()
}

// Vec2 draws two independent uniform reals, convenient for area/hemisphere warps.
func (s *Sampler) Vec2() (float64, float64) {
	return s.Float64(), s.Float64()
}

// UnitVector draws a point uniformly on the unit sphere via rejection sampling.
func (s *Sampler) UnitVector() Vec3 {
	for {
		p := Vec3{
			X: s.Range(-1, 1),
			Y: s.Range(-1, 1),
			Z: s.Range(-1, 1),
		}
		lensq := p.Len2()
		if 1e-160 < lensq && lensq <= 1 {
			return p.Div(math.Sqrt(lensq))
		}
	}
}

// CosineHemisphere draws a direction around the local +Z axis with probability
// density proportional to the cosine of the polar angle.
func (s *Sampler) CosineHemisphere() Vec3 {
	u1, u2 := s.Vec2()
	r := math.Sqrt(u1)
	phi := 2 * Pi * u2
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	z := math.Sqrt(math.Max(0, 1-u1))
	return Vec3{X: x, Y: y, Z: z}
}

// InUnitDisk draws a point uniformly inside the unit disk, used for
// depth-of-field lens sampling.
func (s *Sampler) InUnitDisk() Vec3 {
	for {
		p := Vec3{X: s.Range(-1, 1), Y: s.Range(-1, 1), Z: 0}
		if p.Len2() < 1 {
			return p
		}
	}
}
