package rt

import (
	"math"
	"testing"
)

// testCamera returns a tiny, fully initialised camera looking down -Z, cheap
// enough to trace per-pixel in a unit test.
func testCamera() *Camera {
	c := NewCamera()
	c.ImageWidth = 4
	c.AspectRatio = 1.0
	c.SamplesPerPixel = 1
	c.MaxDepth = 4
	c.LookFrom = Point3{X: 0, Y: 0, Z: 0}
	c.LookAt = Point3{X: 0, Y: 0, Z: -1}
	c.Vup = Vec3{X: 0, Y: 1, Z: 0}
	c.Initialize()
	return c
}

func emptyScene() *Scene {
	return NewScene(NewHittableList(), nil, nil)
}

// S1: an empty scene contributes nothing, in either mode, and BackgroundColor
// is the only path by which a pixel can end up non-black.
func TestEstimateEmptySceneIsBlack(t *testing.T) {
	camera := testCamera()
	scene := emptyScene()

	for _, nee := range []bool{false, true} {
		pt := NewPathTracingIntegrator(camera, scene, nee)
		for y := 0; y < camera.ImageHeight; y++ {
			for x := 0; x < camera.ImageWidth; x++ {
				got := pt.Estimate(x, y, camera.MaxDepth, 4)
				if got != (Color{}) {
					t.Fatalf("nee=%v pixel (%d,%d): got %v, want Black", nee, x, y, got)
				}
			}
		}
	}
}

// BackgroundColor must report isBackground=false for any pixel whose camera
// ray hits geometry, and must never be consulted by Estimate itself.
func TestBackgroundColorOnlyFiresOnMiss(t *testing.T) {
	camera := testCamera()
	scene := emptyScene()
	scene.Background = Color{X: 0.2, Y: 0.3, Z: 0.4}

	pt := NewPathTracingIntegrator(camera, scene, true)
	bg, isBackground := pt.BackgroundColor(camera.ImageWidth/2, camera.ImageHeight/2)
	if !isBackground {
		t.Fatalf("expected background hit on an empty scene")
	}
	if bg != scene.Background {
		t.Fatalf("got background %v, want %v", bg, scene.Background)
	}

	world := NewHittableList()
	world.Add(NewSphere(Point3{X: 0, Y: 0, Z: -1}, 0.5, NewLambertian(Color{X: 1, Y: 0, Z: 0})))
	occluded := NewScene(world, nil, nil)
	occluded.Background = scene.Background
	pt2 := NewPathTracingIntegrator(camera, occluded, true)
	_, isBackground = pt2.BackgroundColor(camera.ImageWidth/2, camera.ImageHeight/2)
	if isBackground {
		t.Fatalf("expected a geometry hit to suppress the background")
	}
}

// fakeMaterial hands back a scripted sequence of SampleResults, one per call,
// repeating the last entry once exhausted - a minimal stand-in for Lambertian
// or Emissive that lets a test dictate the exact event sequence a path walks
// through instead of relying on real BSDF sampling probabilities.
type fakeMaterial struct {
	results []SampleResult
	calls   int
	emitter EmitterID
	isLight bool
}

func (m *fakeMaterial) Sample(hit *HitRecord, sampler *Sampler) SampleResult {
	i := m.calls
	if i >= len(m.results) {
		i = len(m.results) - 1
	}
	m.calls++
	return m.results[i]
}
func (m *fakeMaterial) Evaluate(outgoing, incoming Vec3, hit *HitRecord) (Color, float64, float64) {
	return Color{X: 1, Y: 1, Z: 1}, 1, 1
}
func (m *fakeMaterial) EmitterID() (EmitterID, bool) { return m.emitter, m.isLight }

// fakeEmitter is a hand-built Emitter implementation - a constant-radiance,
// constant-pdf stand-in used to isolate sampleDirectLight's arithmetic from
// TriangleLight/QuadLight's own geometry.
type fakeEmitter struct {
	point    Vec3
	radiance Color
	pdfArea  float64
	cosTheta float64
}

func (e *fakeEmitter) Sample(sampler *Sampler) Vec3 { return e.point }
func (e *fakeEmitter) Radiance(point, directionAway Vec3) Color { return e.radiance }
func (e *fakeEmitter) PdfLe(point, directionAway Vec3) (float64, float64) {
	return e.pdfArea, e.cosTheta
}
func (e *fakeEmitter) Type() EmitterType { return EmitterArea }
func (e *fakeEmitter) IsDirac() bool     { return false }

// EventNone terminates a path immediately and contributes nothing, regardless
// of how much throughput it had accumulated up to that bounce.
func TestTraceBasicEventNoneIsBlack(t *testing.T) {
	camera := testCamera()
	world := NewHittableList()
	world.Add(NewSphere(Point3{X: 0, Y: 0, Z: -1}, 0.5, &fakeMaterial{results: []SampleResult{{Event: EventNone}}}))
	scene := NewScene(world, nil, nil)

	pt := NewPathTracingIntegrator(camera, scene, false)
	got := pt.Estimate(camera.ImageWidth/2, camera.ImageHeight/2, camera.MaxDepth, 4)
	if got != (Color{}) {
		t.Fatalf("got %v, want Black for an absorbing material", got)
	}
}

// A path that exceeds maxPathLength must terminate at exactly Black/accumulate
// without panicking or looping forever, even against a mirror box that would
// otherwise bounce indefinitely.
// TestEstimateRespectsDepthBound puts the camera inside a fully mirrored box,
// where every bounce hits another wall and nothing ever absorbs or emits -
// the only way the loop can terminate is the maxPathLength cap itself.
func TestEstimateRespectsDepthBound(t *testing.T) {
	camera := testCamera()
	mirror := NewMetal(Color{X: 0.95, Y: 0.95, Z: 0.95}, 0)

	world := NewHittableList()
	world.Add(Box(Point3{X: -5, Y: -5, Z: -5}, Point3{X: 5, Y: 5, Z: 5}, mirror))
	scene := NewScene(world, nil, nil)

	pt := NewPathTracingIntegrator(camera, scene, false)
	for _, depth := range []int{1, 2, 8, 32} {
		got := pt.Estimate(camera.ImageWidth/2, camera.ImageHeight/2, depth, 1)
		if got.X < 0 || got.Y < 0 || got.Z < 0 {
			t.Fatalf("depth %d: negative radiance %v", depth, got)
		}
	}
}

// Estimate is seeded per-pixel, so the same (x, y, maxSamples) must always
// reproduce the same sum regardless of how many times it's called.
func TestEstimateIsDeterministic(t *testing.T) {
	camera := testCamera()
	world := NewHittableList()
	world.Add(NewSphere(Point3{X: 0, Y: 0, Z: -1}, 0.5, NewLambertian(Color{X: 0.6, Y: 0.2, Z: 0.2})))
	scene := NewScene(world, nil, nil)

	pt := NewPathTracingIntegrator(camera, scene, true)
	x, y := camera.ImageWidth/2, camera.ImageHeight/2
	first := pt.Estimate(x, y, camera.MaxDepth, 16)
	second := pt.Estimate(x, y, camera.MaxDepth, 16)
	if first != second {
		t.Fatalf("non-deterministic estimate: %v vs %v", first, second)
	}
}

// A path that hits an emitter straight off the camera ray (depth == 1) must
// still be credited in NEE mode - the double-counting guard only discards
// emission reached through a diffuse bounce that NEE already sampled.
func TestTraceNEECreditsDirectCameraHit(t *testing.T) {
	camera := testCamera()
	energy := Color{X: 4, Y: 4, Z: 4}
	quad := NewQuad(Point3{X: -1, Y: -1, Z: -1}, Vec3{X: 2, Y: 0, Z: 0}, Vec3{X: 0, Y: 2, Z: 0}, NewEmissive(0))
	light := NewQuadLightFromQuad(quad, energy)

	world := NewHittableList()
	world.Add(quad)
	scene := NewScene(world, []Emitter{light}, nil)

	pt := NewPathTracingIntegrator(camera, scene, true)
	got := pt.Estimate(camera.ImageWidth/2, camera.ImageHeight/2, camera.MaxDepth, 1)
	if got == (Color{}) {
		t.Fatalf("expected a direct hit on the emitter to contribute emission, got Black")
	}
}

// An emitter fully hidden behind an opaque occluder must never contribute
// through next-event estimation: the shadow ray has to resolve visibility.
func TestSampleDirectLightRespectsOcclusion(t *testing.T) {
	camera := testCamera()
	energy := Color{X: 10, Y: 10, Z: 10}
	lightQuad := NewQuad(Point3{X: -1, Y: -1, Z: -4}, Vec3{X: 2, Y: 0, Z: 0}, Vec3{X: 0, Y: 2, Z: 0}, NewEmissive(0))
	light := NewQuadLightFromQuad(lightQuad, energy)

	occluder := NewQuad(Point3{X: -2, Y: -2, Z: -2}, Vec3{X: 4, Y: 0, Z: 0}, Vec3{X: 0, Y: 4, Z: 0}, NewLambertian(Color{X: 0.5, Y: 0.5, Z: 0.5}))

	world := NewHittableList()
	world.Add(lightQuad)
	world.Add(occluder)
	scene := NewScene(world, []Emitter{light}, nil)

	pt := NewPathTracingIntegrator(camera, scene, true)
	hit := &HitRecord{
		P:         Point3{X: 0, Y: 0, Z: -1},
		Normal:    Vec3{X: 0, Y: 0, Z: -1},
		Mat:       NewLambertian(Color{X: 0.8, Y: 0.8, Z: 0.8}),
		FrontFace: true,
	}
	contribution := pt.sampleDirectLight(hit, NewRay(camera.LookFrom, Vec3{X: 0, Y: 0, Z: -1}, 0), White, light, Vec3{X: 0, Y: 0, Z: -4}, 1)
	if contribution != (Color{}) {
		t.Fatalf("expected an occluded shadow ray to contribute nothing, got %v", contribution)
	}
}

// The emitter's area-measure PDF must convert to solid angle via
// pdfArea * selection * distance^2 / cosTheta, never forgetting the
// selection probability factor when multiple emitters are registered.
func TestSampleDirectLightAreaToSolidAngleConversion(t *testing.T) {
	camera := testCamera()
	energy := Color{X: 8, Y: 8, Z: 8}
	quad := NewQuad(Point3{X: -1, Y: -1, Z: -3}, Vec3{X: 2, Y: 0, Z: 0}, Vec3{X: 0, Y: 2, Z: 0}, NewEmissive(0))
	light := NewQuadLightFromQuad(quad, energy)

	world := NewHittableList()
	world.Add(quad)
	scene := NewScene(world, []Emitter{light}, nil)
	pt := NewPathTracingIntegrator(camera, scene, true)

	hit := &HitRecord{
		P:         Point3{X: 0, Y: 0, Z: 0},
		Normal:    Vec3{X: 0, Y: 0, Z: -1},
		Mat:       NewLambertian(Color{X: 0.8, Y: 0.8, Z: 0.8}),
		FrontFace: true,
	}
	emitterPoint := Vec3{X: 0, Y: 0, Z: -3}
	incoming := NewRay(camera.LookFrom, Vec3{X: 0, Y: 0, Z: -1}, 0)

	got := pt.sampleDirectLight(hit, incoming, White, light, emitterPoint, 1)

	delta := emitterPoint.Sub(hit.P)
	distance := delta.Len()
	direction := delta.Div(distance)
	factor, _, cosTheta := hit.Mat.Evaluate(direction, incoming.Direction().Neg(), hit)
	pdfArea, emitterCosTheta := light.PdfLe(emitterPoint, direction.Neg())
	pdfW := pdfArea * 1 * distance * distance / emitterCosTheta
	want := light.Radiance(emitterPoint, direction.Neg()).Mult(factor).Scale(cosTheta / pdfW)

	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Z-want.Z) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// fakeHittable always reports a hit at t=1 with a caller-supplied material and
// normal, regardless of ray direction - a stand-in scene surface for tests
// that want full control over the event sequence a path walks through.
type fakeHittable struct {
	mat    Material
	normal Vec3
}

func (f *fakeHittable) Hit(r Ray, rayT Interval, rec *HitRecord) bool {
	if !rayT.Contains(1) {
		return false
	}
	rec.T = 1
	rec.P = r.At(1)
	rec.Normal = f.normal
	rec.Mat = f.mat
	rec.FrontFace = true
	return true
}
func (f *fakeHittable) BoundingBox() AABB {
	return NewAABBFromPoints(Vec3{X: -1e6, Y: -1e6, Z: -1e6}, Vec3{X: 1e6, Y: 1e6, Z: 1e6})
}

// Property 5: a diffuse bounce followed by landing on an emitter at depth > 1
// must not add the direct emission on top of what NEE already estimated at
// the diffuse interaction - traceNEE's allSpecularSoFar/previousSpecular
// guard exists precisely to drop this case. A positive control (the same
// emitter hit directly at depth 1) proves the emitter would contribute a
// nonzero value if the guard did not suppress it.
func TestTraceNEEDoesNotDoubleCountAfterDiffuseBounce(t *testing.T) {
	camera := testCamera()
	registeredEmitter := &fakeEmitter{
		point:    Vec3{X: 0, Y: 0, Z: -5},
		radiance: Color{X: 2, Y: 2, Z: 2},
		pdfArea:  1,
		cosTheta: 1,
	}

	// Positive control: a direct hit on the emitter at depth 1 is credited.
	directHit := &fakeHittable{
		mat: &fakeMaterial{
			results: []SampleResult{{Event: EventEmission}},
			emitter: 0,
			isLight: true,
		},
		normal: Vec3{X: 0, Y: 0, Z: 1},
	}
	directWorld := NewHittableList()
	directWorld.Add(directHit)
	directScene := NewScene(directWorld, []Emitter{registeredEmitter}, nil)
	directPT := &PathTracingIntegrator{camera: camera, scene: directScene, enableNEE: true}
	directResult := directPT.traceNEE(camera.ImageWidth/2, camera.ImageHeight/2, NewSampler(camera.ImageWidth/2, camera.ImageHeight/2), 2)
	if directResult == (Color{}) {
		t.Fatalf("sanity check failed: a direct hit on a registered emitter should not be Black")
	}

	// Same material/emitter, but the path reaches the emitter through one
	// diffuse bounce first (EventDiffuse, then EventEmission on the second
	// Sample call against the same surface) - depth is now 2, not 1, so the
	// guard must discard the direct-hit branch entirely.
	bounceThenEmit := &fakeHittable{
		mat: &fakeMaterial{
			results: []SampleResult{
				{Color: Color{X: 0.5, Y: 0.5, Z: 0.5}, Direction: Vec3{X: 0, Y: 0, Z: -1}, Event: EventDiffuse, PdfW: 1, CosTheta: 1},
				{Event: EventEmission},
			},
			emitter: 0,
			isLight: true,
		},
		normal: Vec3{X: 0, Y: 0, Z: 1},
	}
	world := NewHittableList()
	world.Add(bounceThenEmit)
	scene := NewScene(world, []Emitter{registeredEmitter}, nil)
	pt := &PathTracingIntegrator{camera: camera, scene: scene, enableNEE: true}

	got := pt.traceNEE(camera.ImageWidth/2, camera.ImageHeight/2, NewSampler(camera.ImageWidth/2, camera.ImageHeight/2), 2)
	if got != (Color{}) {
		t.Fatalf("got %v, want Black: emission reached via a prior diffuse bounce must be discarded, not double-counted with NEE", got)
	}
}
