package rt

import (
	"math"
	"math/rand"
)

// Every constructor here returns a ready-to-render (*Scene, *Camera) pair:
// geometry behind a BVH, any emitters registered against the Scene, and a
// camera already positioned to look at the result.

type SceneConfig struct {
	GroundColor      Color
	SphereGridBounds struct{ MinA, MaxA, MinB, MaxB int }
	LambertProb      float64
	DielectricProb   float64
	MetalProb        float64
	LargeSpheresY    float64
}

func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		GroundColor: Color{X: 0.5, Y: 0.5, Z: 0.5},
		SphereGridBounds: struct {
			MinA int
			MaxA int
			MinB int
			MaxB int
		}{-10, 10, -10, 10},
		LambertProb:    0.3,
		DielectricProb: 0.3,
		MetalProb:      0.3,
		LargeSpheresY:  1.0,
	}
}

// =============================================================================
// RANDOM SCENE (no emitters - exercises basic-mode path tracing)
// =============================================================================

func RandomScene() (*Scene, *Camera) {
	return RandomSceneWithConfig(DefaultSceneConfig())
}

func RandomSceneWithConfig(config SceneConfig) (*Scene, *Camera) {
	world := NewHittableList()
	groundChecker := NewCheckerTextureFromColors(
		0.32,
		config.GroundColor,
		Color{X: 0.9, Y: 0.9, Z: 0.9},
	)
	groundMaterial := NewLambertianTexture(groundChecker)
	world.Add(NewPlane(Point3{X: 0, Y: 0, Z: -1}, Vec3{X: 0, Y: 1, Z: 0}, groundMaterial))

	for a := config.SphereGridBounds.MinA; a < config.SphereGridBounds.MaxA; a++ {
		for b := config.SphereGridBounds.MinB; b < config.SphereGridBounds.MaxB; b++ {
			chooseMat := rand.Float64()
			center := Point3{
				X: float64(a) + 0.9*rand.Float64(),
				Y: 0.2,
				Z: float64(b) + 0.9*rand.Float64(),
			}

			if center.Sub(Point3{X: 4, Y: 0.2, Z: 0}).Len() > 0.9 {
				addRandomSphere(world, center, chooseMat, config)
			}
		}
	}
	addLargeSpheres(world, config.LargeSpheresY)

	scene := NewScene(NewBVHNodeFromList(world), nil, nil)
	scene.UseSkyGradient = true

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 800
	camera.SamplesPerPixel = 100
	camera.MaxDepth = 50
	camera.Vfov = 20
	camera.LookFrom = Point3{X: 13, Y: 2, Z: 3}
	camera.LookAt = Point3{X: 0, Y: 0, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0.6
	camera.FocusDist = 10.0
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera
}

func addRandomSphere(world *HittableList, center Point3, chooseMat float64, config SceneConfig) {
	var sphereMaterial Material

	lambertThreshold := config.LambertProb
	metalThreshold := config.MetalProb + lambertThreshold
	dielectricThreshold := config.DielectricProb + metalThreshold

	if chooseMat < lambertThreshold {
		albedo := Color{
			X: rand.Float64() * rand.Float64(),
			Y: rand.Float64() * rand.Float64(),
			Z: rand.Float64() * rand.Float64(),
		}
		sphereMaterial = NewLambertian(albedo)
		world.Add(NewSphere(center, 0.2, sphereMaterial))
	} else if chooseMat < metalThreshold {
		albedo := Color{
			X: 0.5 + rand.Float64()*0.5,
			Y: 0.5 + rand.Float64()*0.5,
			Z: 0.5 + rand.Float64()*0.5,
		}
		fuzz := rand.Float64() * 0.5
		sphereMaterial = NewMetal(albedo, fuzz)
		world.Add(NewSphere(center, 0.2, sphereMaterial))
	} else if chooseMat < dielectricThreshold {
		sphereMaterial = NewDielectric(1.5)
		world.Add(NewSphere(center, 0.2, sphereMaterial))
	}
}

func addLargeSpheres(world *HittableList, y float64) {
	material1 := NewDielectric(1.5)
	world.Add(NewSphere(Point3{X: 0, Y: y, Z: 0}, 1.0, material1))

	material2 := NewLambertian(Color{X: 0.4, Y: 0.2, Z: 0.1})
	world.Add(NewSphere(Point3{X: -4, Y: y, Z: 0}, 1.0, material2))

	material3 := NewMetal(Color{X: 0.7, Y: 0.6, Z: 0.5}, 0.0)
	world.Add(NewSphere(Point3{X: 4, Y: y, Z: 0}, 1.0, material3))
}

// =============================================================================
// CORNELL BOX (the canonical next-event-estimation exercise)
// =============================================================================

// rotatedBox builds an axis-aligned box centered at the origin, rotates it
// about the Y axis, then translates it so its bounding box is centered where
// a/b would otherwise have placed it. The classic Cornell box reference
// scene tilts its two boxes slightly rather than leaving them axis-aligned.
func rotatedBox(a, b Point3, angleDegrees float64, mat Material) Hittable {
	center := a.Add(b).Scale(0.5)
	box := Box(a.Sub(center), b.Sub(center), mat)
	return NewTranslate(Ry(box, angleDegrees), center)
}

// CornellBoxScene builds the classic red/green/white box with a quad light
// in the ceiling, registered as both a visible Quad (so a BSDF sample that
// escapes upward still finds it) and a QuadLight emitter (so NEE can shadow-
// ray straight to it every bounce).
func CornellBoxScene() (*Scene, *Camera) {
	world := NewHittableList()

	red := NewLambertian(Color{X: 0.65, Y: 0.05, Z: 0.05})
	white := NewLambertian(Color{X: 0.73, Y: 0.73, Z: 0.73})
	green := NewLambertian(Color{X: 0.12, Y: 0.45, Z: 0.15})

	lightEnergy := Color{X: 15, Y: 15, Z: 15}
	lightQ := Point3{X: 343, Y: 554, Z: 332}
	lightU := Vec3{X: -130, Y: 0, Z: 0}
	lightV := Vec3{X: 0, Y: 0, Z: -105}
	lightPanel := NewQuad(lightQ, lightU, lightV, NewEmissive(0))
	emitters := []Emitter{NewQuadLightFromQuad(lightPanel, lightEnergy)}

	world.Add(NewQuad(Point3{X: 555, Y: 0, Z: 0}, Vec3{X: 0, Y: 555, Z: 0}, Vec3{X: 0, Y: 0, Z: 555}, green))
	world.Add(NewQuad(Point3{X: 0, Y: 0, Z: 0}, Vec3{X: 0, Y: 555, Z: 0}, Vec3{X: 0, Y: 0, Z: 555}, red))
	world.Add(lightPanel)
	world.Add(NewQuad(Point3{X: 0, Y: 0, Z: 0}, Vec3{X: 555, Y: 0, Z: 0}, Vec3{X: 0, Y: 0, Z: 555}, white))
	world.Add(NewQuad(Point3{X: 555, Y: 555, Z: 555}, Vec3{X: -555, Y: 0, Z: 0}, Vec3{X: 0, Y: 0, Z: -555}, white))
	world.Add(NewQuad(Point3{X: 0, Y: 0, Z: 555}, Vec3{X: 555, Y: 0, Z: 0}, Vec3{X: 0, Y: 555, Z: 0}, white))

	world.Add(rotatedBox(Point3{X: 130, Y: 0, Z: 65}, Point3{X: 295, Y: 165, Z: 230}, -18, white))
	world.Add(rotatedBox(Point3{X: 265, Y: 0, Z: 295}, Point3{X: 430, Y: 330, Z: 460}, 15, NewMetal(Color{X: 0.8, Y: 0.85, Z: 0.88}, 0.0)))

	scene := NewScene(NewBVHNodeFromList(world), emitters, nil)

	camera := NewCamera()
	camera.AspectRatio = 1.0
	camera.ImageWidth = 600
	camera.SamplesPerPixel = 200
	camera.MaxDepth = 8
	camera.Vfov = 40
	camera.LookFrom = Point3{X: 278, Y: 278, Z: -800}
	camera.LookAt = Point3{X: 278, Y: 278, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0
	camera.Background = Black
	camera.Initialize()

	return scene, camera
}

// CornellBoxGlossy is the Cornell box with the diffuse boxes swapped for
// glossy metal, so the wide-lobe Metal.Sample branch (EventDiffuse, NEE-
// eligible) gets exercised alongside the pure-specular one.
func CornellBoxGlossy() (*Scene, *Camera) {
	world := NewHittableList()

	white := NewLambertian(Color{X: 0.73, Y: 0.73, Z: 0.73})
	red := NewLambertian(Color{X: 0.65, Y: 0.05, Z: 0.05})
	green := NewLambertian(Color{X: 0.12, Y: 0.45, Z: 0.15})
	glossy := NewMetal(Color{X: 0.9, Y: 0.9, Z: 0.9}, 0.35)

	lightEnergy := Color{X: 15, Y: 15, Z: 15}
	lightQ := Point3{X: 343, Y: 554, Z: 332}
	lightU := Vec3{X: -130, Y: 0, Z: 0}
	lightV := Vec3{X: 0, Y: 0, Z: -105}
	lightPanel := NewQuad(lightQ, lightU, lightV, NewEmissive(0))
	emitters := []Emitter{NewQuadLightFromQuad(lightPanel, lightEnergy)}

	world.Add(NewQuad(Point3{X: 555, Y: 0, Z: 0}, Vec3{X: 0, Y: 555, Z: 0}, Vec3{X: 0, Y: 0, Z: 555}, green))
	world.Add(NewQuad(Point3{X: 0, Y: 0, Z: 0}, Vec3{X: 0, Y: 555, Z: 0}, Vec3{X: 0, Y: 0, Z: 555}, red))
	world.Add(lightPanel)
	world.Add(NewQuad(Point3{X: 0, Y: 0, Z: 0}, Vec3{X: 555, Y: 0, Z: 0}, Vec3{X: 0, Y: 0, Z: 555}, white))
	world.Add(NewQuad(Point3{X: 555, Y: 555, Z: 555}, Vec3{X: -555, Y: 0, Z: 0}, Vec3{X: 0, Y: 0, Z: -555}, white))
	world.Add(NewQuad(Point3{X: 0, Y: 0, Z: 555}, Vec3{X: 555, Y: 0, Z: 0}, Vec3{X: 0, Y: 555, Z: 0}, white))

	world.Add(rotatedBox(Point3{X: 130, Y: 0, Z: 65}, Point3{X: 295, Y: 165, Z: 230}, -18, glossy))
	world.Add(rotatedBox(Point3{X: 265, Y: 0, Z: 295}, Point3{X: 430, Y: 330, Z: 460}, 15, glossy))

	camera := NewCamera()
	camera.AspectRatio = 1.0
	camera.ImageWidth = 600
	camera.SamplesPerPixel = 200
	camera.MaxDepth = 8
	camera.Vfov = 40
	camera.LookFrom = Point3{X: 278, Y: 278, Z: -800}
	camera.LookAt = Point3{X: 278, Y: 278, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0
	camera.Background = Black
	camera.Initialize()

	return NewScene(NewBVHNodeFromList(world), emitters, nil), camera
}

// =============================================================================
// QUADS SCENE (five differently-coloured walls, no emitters)
// =============================================================================

func QuadsScene() (*Scene, *Camera) {
	world := NewHittableList()

	left := NewLambertian(Color{X: 1.0, Y: 0.2, Z: 0.2})
	back := NewLambertian(Color{X: 0.2, Y: 1.0, Z: 0.2})
	right := NewLambertian(Color{X: 0.2, Y: 0.2, Z: 1.0})
	upper := NewLambertian(Color{X: 1.0, Y: 0.5, Z: 0.0})
	lower := NewLambertian(Color{X: 0.2, Y: 0.8, Z: 0.8})

	world.Add(NewQuad(Point3{X: -3, Y: -2, Z: 5}, Vec3{X: 0, Y: 0, Z: -4}, Vec3{X: 0, Y: 4, Z: 0}, left))
	world.Add(NewQuad(Point3{X: -2, Y: -2, Z: 0}, Vec3{X: 4, Y: 0, Z: 0}, Vec3{X: 0, Y: 4, Z: 0}, back))
	world.Add(NewQuad(Point3{X: 3, Y: -2, Z: 1}, Vec3{X: 0, Y: 0, Z: 4}, Vec3{X: 0, Y: 4, Z: 0}, right))
	world.Add(NewQuad(Point3{X: -2, Y: 3, Z: 1}, Vec3{X: 4, Y: 0, Z: 0}, Vec3{X: 0, Y: 0, Z: 4}, upper))
	world.Add(NewQuad(Point3{X: -2, Y: -3, Z: 5}, Vec3{X: 4, Y: 0, Z: 0}, Vec3{X: 0, Y: 0, Z: -4}, lower))

	scene := NewScene(NewBVHNodeFromList(world), nil, nil)
	scene.UseSkyGradient = true

	camera := NewCamera()
	camera.AspectRatio = 1.0
	camera.ImageWidth = 600
	camera.SamplesPerPixel = 100
	camera.MaxDepth = 50
	camera.Vfov = 80
	camera.LookFrom = Point3{X: 0, Y: 0, Z: 9}
	camera.LookAt = Point3{X: 0, Y: 0, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera
}

// =============================================================================
// GLOSSY METAL TEST
// =============================================================================

// GlossyMetalTest lines up spheres of increasing Fuzz above and below
// metalSpecularThreshold, so a single render shows the EventReflect/
// EventDiffuse split in Metal.Sample side by side.
func GlossyMetalTest() (*Scene, *Camera) {
	world := NewHittableList()

	ground := NewLambertian(Color{X: 0.4, Y: 0.4, Z: 0.4})
	world.Add(NewPlane(Point3{X: 0, Y: -0.5, Z: 0}, Vec3{X: 0, Y: 1, Z: 0}, ground))

	fuzzValues := []float64{0.0, 0.02, 0.1, 0.25, 0.5, 0.8}
	for i, fuzz := range fuzzValues {
		x := -5.0 + float64(i)*2.0
		world.Add(NewSphere(Point3{X: x, Y: 0, Z: 0}, 0.9, NewMetal(Color{X: 0.8, Y: 0.7, Z: 0.6}, fuzz)))
	}

	scene := NewScene(NewBVHNodeFromList(world), nil, nil)
	scene.UseSkyGradient = true

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 900
	camera.SamplesPerPixel = 150
	camera.MaxDepth = 20
	camera.Vfov = 30
	camera.LookFrom = Point3{X: 0, Y: 3, Z: 14}
	camera.LookAt = Point3{X: 0, Y: 0, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera
}

// =============================================================================
// PRIMITIVES SCENE (boxes and pyramids, one area light)
// =============================================================================

func PrimitivesScene() (*Scene, *Camera) {
	world := NewHittableList()

	ground := NewLambertian(Color{X: 0.5, Y: 0.5, Z: 0.5})
	world.Add(NewPlane(Point3{X: 0, Y: 0, Z: 0}, Vec3{X: 0, Y: 1, Z: 0}, ground))

	world.Add(Box(Point3{X: -3, Y: 0, Z: -1}, Point3{X: -1, Y: 2, Z: 1}, NewLambertian(Color{X: 0.8, Y: 0.2, Z: 0.2})))
	world.Add(Pyramid(Point3{X: 2, Y: 0, Z: 0}, 2.0, 2.5, NewLambertian(Color{X: 0.2, Y: 0.4, Z: 0.8})))
	world.Add(NewSphere(Point3{X: 0, Y: 1, Z: -2}, 1.0, NewDielectric(1.5)))
	world.Add(NewCircle(Point3{X: 0, Y: 0.01, Z: 3}, Vec3{X: 0, Y: 1, Z: 0}, 1.4, NewMetal(Color{X: 0.85, Y: 0.85, Z: 0.9}, 0.05)))

	lightEnergy := Color{X: 8, Y: 8, Z: 8}
	lightQ := Point3{X: -2, Y: 6, Z: -2}
	lightU := Vec3{X: 4, Y: 0, Z: 0}
	lightV := Vec3{X: 0, Y: 0, Z: 4}
	lightPanel := NewQuad(lightQ, lightU, lightV, NewEmissive(0))
	emitters := []Emitter{NewQuadLightFromQuad(lightPanel, lightEnergy)}
	world.Add(lightPanel)

	scene := NewScene(NewBVHNodeFromList(world), emitters, nil)

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 800
	camera.SamplesPerPixel = 150
	camera.MaxDepth = 16
	camera.Vfov = 40
	camera.LookFrom = Point3{X: 6, Y: 4, Z: 8}
	camera.LookAt = Point3{X: 0, Y: 1, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0
	camera.Background = Black
	camera.Initialize()

	return scene, camera
}

// =============================================================================
// HDRI ENVIRONMENT SCENE
// =============================================================================

// HDRITestScene lights a handful of spheres purely from an importance-
// sampled environment map, exercising Environment as an Emitter registered
// in the Scene alongside Scene.Environment for escaped-ray shading.
func HDRITestScene(hdriFile string) (*Scene, *Camera) {
	world := NewHittableList()

	ground := NewLambertian(Color{X: 0.5, Y: 0.5, Z: 0.5})
	world.Add(NewSphere(Point3{X: 0, Y: -1000, Z: 0}, 1000, ground))

	world.Add(NewSphere(Point3{X: -2, Y: 1, Z: 0}, 1.0, NewDielectric(1.5)))
	world.Add(NewSphere(Point3{X: 0, Y: 1, Z: 0}, 1.0, NewLambertian(Color{X: 0.4, Y: 0.2, Z: 0.1})))
	world.Add(NewSphere(Point3{X: 2, Y: 1, Z: 0}, 1.0, NewMetal(Color{X: 0.7, Y: 0.6, Z: 0.5}, 0.0)))

	env := NewEnvironment(hdriFile)

	scene := NewScene(NewBVHNodeFromList(world), []Emitter{env}, nil)
	scene.Environment = env

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 800
	camera.SamplesPerPixel = 200
	camera.MaxDepth = 12
	camera.Vfov = 20
	camera.LookFrom = Point3{X: 13, Y: 2, Z: 3}
	camera.LookAt = Point3{X: 0, Y: 0, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0.1
	camera.FocusDist = 10.0
	camera.Initialize()

	return scene, camera
}

// =============================================================================
// MISCELLANEOUS SCENES CARRIED FROM THE ORIGINAL SAMPLE SET
// =============================================================================

func CheckeredSpheresScene() (*Scene, *Camera) {
	world := NewHittableList()

	checker := NewCheckerTextureFromColors(
		0.32,
		Color{X: 0.2, Y: 0.3, Z: 0.1},
		Color{X: 0.9, Y: 0.9, Z: 0.9},
	)
	checkerMaterial := NewLambertianTexture(checker)

	world.Add(NewSphere(Point3{X: 0, Y: -10, Z: 0}, 10, checkerMaterial))
	world.Add(NewSphere(Point3{X: 0, Y: 10, Z: 0}, 10, checkerMaterial))

	scene := NewScene(NewBVHNodeFromList(world), nil, nil)
	scene.UseSkyGradient = true

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 600
	camera.SamplesPerPixel = 100
	camera.MaxDepth = 50
	camera.Vfov = 20
	camera.LookFrom = Point3{X: 13, Y: 2, Z: 3}
	camera.LookAt = Point3{X: 0, Y: 0, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera
}

func SimpleScene() (*Scene, *Camera) {
	world := NewHittableList()

	materialGround := NewLambertian(Color{X: 0.8, Y: 0.8, Z: 0.0})
	materialCenter := NewLambertian(Color{X: 0.1, Y: 0.2, Z: 0.5})
	materialLeft := NewDielectric(1.5)
	materialBubble := NewDielectric(1.0 / 1.5)
	materialRight := NewMetal(Color{X: 0.8, Y: 0.6, Z: 0.2}, 0.0)

	world.Add(NewPlane(Point3{X: 0, Y: -0.5, Z: -1}, Vec3{X: 0, Y: 1, Z: 0}, materialGround))
	world.Add(NewSphere(Point3{X: 0, Y: 0, Z: -1}, 0.5, materialCenter))
	world.Add(NewSphere(Point3{X: -1, Y: 0, Z: -1}, 0.5, materialLeft))
	world.Add(NewSphere(Point3{X: -1, Y: 0, Z: -1}, 0.4, materialBubble))
	world.Add(NewSphere(Point3{X: 1, Y: 0, Z: -1}, 0.5, materialRight))

	scene := NewScene(NewBVHNodeFromList(world), nil, nil)
	scene.UseSkyGradient = true

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 600
	camera.SamplesPerPixel = 100
	camera.MaxDepth = 50
	camera.Vfov = 90
	camera.LookFrom = Point3{X: -2, Y: 2, Z: 1}
	camera.LookAt = Point3{X: 0, Y: 0, Z: -1}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera
}

// MarbleSpheresScene exercises the procedural NoiseTexture instead of a
// loaded image or solid colour.
func MarbleSpheresScene() (*Scene, *Camera) {
	world := NewHittableList()

	marble := NewNoiseTexture(4.0)
	world.Add(NewSphere(Point3{X: 0, Y: 2, Z: 0}, 2, NewLambertianTexture(marble)))
	world.Add(NewPlane(Point3{X: 0, Y: 0, Z: -1}, Vec3{X: 0, Y: 1, Z: 0}, NewLambertianTexture(marble)))

	scene := NewScene(NewBVHNodeFromList(world), nil, nil)
	scene.UseSkyGradient = true

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 600
	camera.SamplesPerPixel = 100
	camera.MaxDepth = 50
	camera.Vfov = 20
	camera.LookFrom = Point3{X: 13, Y: 2, Z: -10}
	camera.LookAt = Point3{X: 0, Y: 1.5, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera
}

func EarthScene() (*Scene, *Camera) {
	world := NewHittableList()

	earthTexture := NewImageTexture("earthmap.jpg")
	earthSurface := NewLambertianTexture(earthTexture)
	world.Add(NewSphere(Point3{X: 0, Y: 0, Z: 0}, 2, earthSurface))

	scene := NewScene(NewBVHNodeFromList(world), nil, nil)
	scene.UseSkyGradient = true

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 800
	camera.SamplesPerPixel = 100
	camera.MaxDepth = 50
	camera.Vfov = 20
	camera.LookFrom = Point3{X: 0, Y: 0, Z: 12}
	camera.LookAt = Point3{X: 0, Y: 0, Z: 0}
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera
}

// GLTFScene imports a glTF/GLB mesh via LoadGLTF, registers its materials on
// the Scene's material table, and promotes every triangle using an emissive
// material into its own TriangleLight - a glTF mesh can carry its own area
// lights the way the Cornell box scenes carry a hand-placed Quad one.
func GLTFScene(path string) (*Scene, *Camera, error) {
	fallback := NewLambertian(Color{X: 0.7, Y: 0.7, Z: 0.7})
	triangles, materials, err := LoadGLTF(path, fallback)
	if err != nil {
		return nil, nil, err
	}

	lightEnergy := Color{X: 15, Y: 15, Z: 15}

	world := NewHittableList()
	var emitters []Emitter
	for _, tri := range triangles {
		if _, isEmissive := tri.mat.(*Emissive); isEmissive {
			id := EmitterID(len(emitters))
			tri.mat = NewEmissive(id)
			emitters = append(emitters, NewTriangleLightFromTriangle(tri, lightEnergy))
		}
		world.Add(tri)
	}

	scene := NewScene(NewBVHNodeFromList(world), emitters, nil)
	for _, mat := range materials {
		scene.RegisterMaterial(mat)
	}

	bbox := world.BoundingBox()
	center := bbox.Centroid()
	diagonal := bbox.Diagonal()
	radius := math.Max(diagonal.X, math.Max(diagonal.Y, diagonal.Z))

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 800
	camera.SamplesPerPixel = 200
	camera.MaxDepth = 12
	camera.Vfov = 30
	camera.LookFrom = center.Add(Vec3{X: radius, Y: radius * 0.6, Z: radius})
	camera.LookAt = center
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera, nil
}

// OBJScene imports a Wavefront OBJ mesh via LoadOBJ, ground-plane included,
// and frames a camera around the mesh's own bounds the same way GLTFScene
// does for glTF imports.
func OBJScene(path string, mat Material) (*Scene, *Camera, error) {
	mesh, err := LoadOBJ(path, mat)
	if err != nil {
		return nil, nil, err
	}

	world := NewHittableList()
	world.Add(NewPlane(Point3{X: 0, Y: 0, Z: 0}, Vec3{X: 0, Y: 1, Z: 0}, NewLambertian(Color{X: 0.5, Y: 0.5, Z: 0.5})))
	world.Add(mesh)

	scene := NewScene(NewBVHNodeFromList(world), nil, nil)
	scene.UseSkyGradient = true

	bbox := mesh.BoundingBox()
	center := bbox.Centroid()
	diagonal := bbox.Diagonal()
	radius := math.Max(diagonal.X, math.Max(diagonal.Y, diagonal.Z))
	if radius <= 0 {
		radius = 1
	}

	camera := NewCamera()
	camera.AspectRatio = 16.0 / 9.0
	camera.ImageWidth = 800
	camera.SamplesPerPixel = 100
	camera.MaxDepth = 12
	camera.Vfov = 30
	camera.LookFrom = center.Add(Vec3{X: radius, Y: radius * 0.8, Z: radius})
	camera.LookAt = center
	camera.Vup = Vec3{X: 0, Y: 1, Z: 0}
	camera.DefocusAngle = 0
	camera.UseSkyGradient = true
	camera.Initialize()

	return scene, camera, nil
}

