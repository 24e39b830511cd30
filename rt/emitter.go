package rt

import "math"

// Thresholds shared by the emitter and integrator code. Kept as named
// constants rather than inline literals because both the area-to-solid-angle
// conversion and the NEE shadow ray depend on them staying in sync.
const (
	EpsilonRay      = 1e-4
	EpsilonCosTheta = 1e-6
)

// EmitterID identifies an emitter registered with a Scene.
type EmitterID int

// EmitterType distinguishes how an emitter occupies space, mirroring the
// four emitter kinds a physically based renderer is expected to support.
type EmitterType int

const (
	EmitterArea EmitterType = iota
	EmitterDirectional
	EmitterEnvironment
	EmitterPoint
)

// Emitter is the light-transport contract for anything that can terminate a
// next-event-estimation shadow ray or be hit directly by a BSDF sample.
type Emitter interface {
	// Sample returns a point on the emitter distributed according to its
	// area measure (or an area-equivalent point, for Dirac/Environment kinds).
	Sample(sampler *Sampler) Vec3
	// Radiance returns the emission leaving point toward directionAway.
	Radiance(point Vec3, directionAway Vec3) Color
	// PdfLe returns the area-measure PDF of point and the cosine between the
	// emitter's normal and directionAway. Returns (0, 0) when the emitter
	// faces away, signalling the caller to drop the contribution.
	PdfLe(point Vec3, directionAway Vec3) (pdfArea, cosTheta float64)
	Type() EmitterType
	// IsDirac is true for emitters that cannot be hit by a BSDF sample
	// (point and directional lights): NEE is their only route to the image.
	IsDirac() bool
}

// =============================================================================
// TRIANGLE LIGHT
// =============================================================================

// TriangleLight is a one-sided area emitter over a triangle.
type TriangleLight struct {
	position Vec3 // a
	edge1    Vec3 // b - a
	edge2    Vec3 // c - a
	normal   Vec3
	energy   Color
	pdfArea  float64
}

func NewTriangleLight(a, b, c Vec3, energy Color) *TriangleLight {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	cross := Cross(edge1, edge2)
	return &TriangleLight{
		position: a,
		edge1:    edge1,
		edge2:    edge2,
		normal:   cross.Unit(),
		energy:   energy,
		pdfArea:  1.0 / (0.5 * cross.Len()),
	}
}

// NewTriangleLightFromTriangle derives a TriangleLight's geometry from a
// placed Triangle, so a mesh-loaded emissive face lights the scene through
// the exact same vertices it renders as.
func NewTriangleLightFromTriangle(tri *Triangle, energy Color) *TriangleLight {
	a, b, c := tri.Vertices()
	return NewTriangleLight(a, b, c, energy)
}

// Sample draws a uniform point on the triangle via the standard two-uniform
// warp (u, v) = (1 - sqrt(xi1), xi2 * sqrt(xi1)).
func (t *TriangleLight) Sample(sampler *Sampler) Vec3 {
	xi1, xi2 := sampler.Vec2()
	sqrtXi1 := math.Sqrt(xi1)
	u := 1 - sqrtXi1
	v := xi2 * sqrtXi1
	return t.position.Add(t.edge1.Scale(u)).Add(t.edge2.Scale(v))
}

func (t *TriangleLight) Radiance(point Vec3, directionAway Vec3) Color {
	if Dot(t.normal, directionAway) > 0 {
		return t.energy
	}
	return Color{}
}

func (t *TriangleLight) PdfLe(point Vec3, directionAway Vec3) (float64, float64) {
	cosTheta := Dot(t.normal, directionAway)
	if cosTheta < EpsilonCosTheta {
		return 0, 0
	}
	return t.pdfArea, cosTheta
}

func (t *TriangleLight) Type() EmitterType { return EmitterArea }
func (t *TriangleLight) IsDirac() bool     { return false }

// =============================================================================
// QUAD LIGHT
// =============================================================================

// QuadLight is a one-sided area emitter over a parallelogram spanned by u, v
// from corner Q.
type QuadLight struct {
	q, u, v Vec3
	normal  Vec3
	energy  Color
	area    float64
}

func NewQuadLight(q, u, v Vec3, energy Color) *QuadLight {
	cross := Cross(u, v)
	return &QuadLight{
		q:      q,
		u:      u,
		v:      v,
		normal: cross.Unit(),
		energy: energy,
		area:   cross.Len(),
	}
}

// NewQuadLightFromQuad derives a QuadLight's geometry straight from a placed
// Quad, so the visible light panel and its NEE sampling distribution can
// never drift apart the way two independently-specified corners could.
func NewQuadLightFromQuad(quad *Quad, energy Color) *QuadLight {
	return NewQuadLight(quad.Q, quad.U(), quad.V(), energy)
}

func (q *QuadLight) Sample(sampler *Sampler) Vec3 {
	alpha, beta := sampler.Vec2()
	return q.q.Add(q.u.Scale(alpha)).Add(q.v.Scale(beta))
}

func (q *QuadLight) Radiance(point Vec3, directionAway Vec3) Color {
	if Dot(q.normal, directionAway) > 0 {
		return q.energy
	}
	return Color{}
}

func (q *QuadLight) PdfLe(point Vec3, directionAway Vec3) (float64, float64) {
	cosTheta := Dot(q.normal, directionAway)
	if cosTheta < EpsilonCosTheta {
		return 0, 0
	}
	return 1.0 / q.area, cosTheta
}

func (q *QuadLight) Type() EmitterType { return EmitterArea }
func (q *QuadLight) IsDirac() bool     { return false }

// =============================================================================
// POINT LIGHT (DIRAC)
// =============================================================================

// PointLight radiates uniformly from a single point. It is Dirac: a BSDF
// sample can never intersect it, so it only ever contributes through NEE.
type PointLight struct {
	position  Vec3
	intensity Color
}

func NewPointLight(position Vec3, intensity Color) *PointLight {
	return &PointLight{position: position, intensity: intensity}
}

func (p *PointLight) Sample(sampler *Sampler) Vec3 { return p.position }

func (p *PointLight) Radiance(point Vec3, directionAway Vec3) Color {
	return p.intensity
}

// PdfLe returns a unit area-PDF and unit cosine: a Dirac point has no area
// measure, so the integrator's area-to-solid-angle conversion degenerates to
// the inverse-square law alone.
func (p *PointLight) PdfLe(point Vec3, directionAway Vec3) (float64, float64) {
	return 1, 1
}

func (p *PointLight) Type() EmitterType { return EmitterPoint }
func (p *PointLight) IsDirac() bool     { return true }
