package rt

import (
	"math"
	"testing"
)

func TestTriangleLightSampleLiesOnTriangle(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 1, Y: 0, Z: 0}
	c := Vec3{X: 0, Y: 1, Z: 0}
	light := NewTriangleLight(a, b, c, Color{X: 1, Y: 1, Z: 1})

	sampler := NewSampler(1, 1)
	for i := 0; i < 100; i++ {
		p := light.Sample(sampler)
		if p.Z != 0 {
			t.Fatalf("sampled point left the triangle's plane: %v", p)
		}
		if p.X < -1e-9 || p.Y < -1e-9 || p.X+p.Y > 1+1e-9 {
			t.Fatalf("sampled point outside the triangle: %v", p)
		}
	}
}

func TestTriangleLightPdfAreaMatchesInverseArea(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 2, Y: 0, Z: 0}
	c := Vec3{X: 0, Y: 2, Z: 0}
	light := NewTriangleLight(a, b, c, Color{X: 1, Y: 1, Z: 1})

	pdfArea, cosTheta := light.PdfLe(Vec3{X: 0.5, Y: 0.5, Z: 0}, Vec3{X: 0, Y: 0, Z: 1})
	wantArea := 1.0 / 2.0 // triangle area = 0.5 * |edge1 x edge2| = 2
	if math.Abs(pdfArea-wantArea) > 1e-9 {
		t.Fatalf("got pdfArea %v, want %v", pdfArea, wantArea)
	}
	if cosTheta <= 0 {
		t.Fatalf("expected a positive cosTheta facing the emitter, got %v", cosTheta)
	}
}

func TestTriangleLightRadianceIsOneSided(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 1, Y: 0, Z: 0}
	c := Vec3{X: 0, Y: 1, Z: 0}
	energy := Color{X: 3, Y: 2, Z: 1}
	light := NewTriangleLight(a, b, c, energy)

	front := light.Radiance(Vec3{}, Vec3{X: 0, Y: 0, Z: 1})
	back := light.Radiance(Vec3{}, Vec3{X: 0, Y: 0, Z: -1})
	if front != energy {
		t.Fatalf("got %v facing the emitted side, want %v", front, energy)
	}
	if back != (Color{}) {
		t.Fatalf("got %v facing away from the emitted side, want Black", back)
	}
}

func TestQuadLightSampleLiesInQuad(t *testing.T) {
	q := Vec3{X: -1, Y: -1, Z: 0}
	u := Vec3{X: 2, Y: 0, Z: 0}
	v := Vec3{X: 0, Y: 2, Z: 0}
	light := NewQuadLight(q, u, v, Color{X: 1, Y: 1, Z: 1})

	sampler := NewSampler(2, 2)
	for i := 0; i < 100; i++ {
		p := light.Sample(sampler)
		if p.X < -1-1e-9 || p.X > 1+1e-9 || p.Y < -1-1e-9 || p.Y > 1+1e-9 {
			t.Fatalf("sampled point outside the quad: %v", p)
		}
	}
}

func TestQuadLightFromQuadMatchesQuadGeometry(t *testing.T) {
	quad := NewQuad(Point3{X: -1, Y: -1, Z: -2}, Vec3{X: 2, Y: 0, Z: 0}, Vec3{X: 0, Y: 2, Z: 0}, NewEmissive(0))
	light := NewQuadLightFromQuad(quad, Color{X: 5, Y: 5, Z: 5})

	direct := NewQuadLight(quad.Q, quad.U(), quad.V(), Color{X: 5, Y: 5, Z: 5})
	pdf1, cos1 := light.PdfLe(Vec3{X: 0, Y: 0, Z: -2}, Vec3{X: 0, Y: 0, Z: 1})
	pdf2, cos2 := direct.PdfLe(Vec3{X: 0, Y: 0, Z: -2}, Vec3{X: 0, Y: 0, Z: 1})
	if pdf1 != pdf2 || cos1 != cos2 {
		t.Fatalf("NewQuadLightFromQuad diverged from NewQuadLight: (%v,%v) vs (%v,%v)", pdf1, cos1, pdf2, cos2)
	}
}

func TestPointLightIsDiracAndOmnidirectional(t *testing.T) {
	light := NewPointLight(Vec3{X: 1, Y: 2, Z: 3}, Color{X: 9, Y: 9, Z: 9})
	if !light.IsDirac() {
		t.Fatalf("point light must report IsDirac() == true")
	}
	if light.Type() != EmitterPoint {
		t.Fatalf("got type %v, want EmitterPoint", light.Type())
	}
	pdfArea, cosTheta := light.PdfLe(Vec3{}, Vec3{X: 1, Y: 0, Z: 0})
	if pdfArea != 1 || cosTheta != 1 {
		t.Fatalf("got (%v,%v), want (1,1) - a Dirac point degenerates the area-to-solid-angle conversion", pdfArea, cosTheta)
	}
	if light.Sample(nil) != light.Sample(nil) {
		t.Fatalf("PointLight.Sample must always return its fixed position")
	}
}

func TestSceneRandomEmitterRespectsWeights(t *testing.T) {
	heavy := NewPointLight(Vec3{X: 0, Y: 0, Z: 0}, Color{X: 1, Y: 1, Z: 1})
	light := NewPointLight(Vec3{X: 1, Y: 0, Z: 0}, Color{X: 1, Y: 1, Z: 1})
	scene := NewScene(NewHittableList(), []Emitter{heavy, light}, []float64{99, 1})

	sampler := NewSampler(0, 0)
	counts := map[EmitterID]int{}
	for i := 0; i < 2000; i++ {
		id, ok := scene.RandomEmitter(sampler)
		if !ok {
			t.Fatalf("RandomEmitter returned ok=false with emitters registered")
		}
		counts[id]++
	}
	if counts[0] < counts[1]*10 {
		t.Fatalf("heavily-weighted emitter 0 was not selected far more often: %v", counts)
	}
}

func TestSceneRandomEmitterEmptyIsFalse(t *testing.T) {
	scene := NewScene(NewHittableList(), nil, nil)
	if _, ok := scene.RandomEmitter(NewSampler(0, 0)); ok {
		t.Fatalf("RandomEmitter on an emitter-less scene must report ok=false")
	}
	if scene.HasEmitters() {
		t.Fatalf("HasEmitters must be false with no emitters registered")
	}
}

func TestSceneMaterialRegistryRoundTrips(t *testing.T) {
	scene := NewScene(NewHittableList(), nil, nil)
	mat := NewLambertian(Color{X: 0.4, Y: 0.4, Z: 0.4})
	id := scene.RegisterMaterial(mat)
	if scene.Material(id) != Material(mat) {
		t.Fatalf("Material(id) did not return the registered material")
	}
	if scene.Material(MaterialID(99)) != nil {
		t.Fatalf("Material on an unregistered id should return nil")
	}
}
