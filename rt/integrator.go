package rt

var (
	Black = Color{X: 0, Y: 0, Z: 0}
	White = Color{X: 1, Y: 1, Z: 1}
)

// PathTracingIntegrator estimates per-pixel radiance by Monte Carlo path
// tracing, optionally with next-event estimation at diffuse interactions.
// It is the one stateful piece driving the whole render: everything else
// (camera, scene, materials, emitters) is a collaborator it calls into.
type PathTracingIntegrator struct {
	camera    *Camera
	scene     *Scene
	enableNEE bool
}

func NewPathTracingIntegrator(camera *Camera, scene *Scene, enableNEE bool) *PathTracingIntegrator {
	return &PathTracingIntegrator{camera: camera, scene: scene, enableNEE: enableNEE}
}

// Estimate seeds one sampler for pixel (x, y), reused across every one of
// maxSamples draws (matching the original estimator: the prng is seeded once
// per pixel, not once per sample), and returns the summed - not yet
// averaged - radiance. Callers either divide by maxSamples themselves or
// hand the sum to a Sensor, which does that division on Read.
func (pt *PathTracingIntegrator) Estimate(x, y, maxPathLength, maxSamples int) Color {
	sampler := NewSampler(x, y)
	accumulate := Black
	for i := 0; i < maxSamples; i++ {
		if pt.enableNEE {
			accumulate = accumulate.Add(pt.traceNEE(x, y, sampler, maxPathLength))
		} else {
			accumulate = accumulate.Add(pt.traceBasic(x, y, sampler, maxPathLength))
		}
	}
	return accumulate
}

// BackgroundColor reports the backdrop a renderer should composite behind
// this pixel's estimate: the scene's environment map, the camera's sky
// gradient (enabled on the camera or the scene), or the scene's flat
// Background colour, in that order of preference.
// It fires one extra, undepthed ray through the scene and is deliberately
// kept out of Estimate/traceBasic/traceNEE - a ray that escapes mid-path
// there always means exactly Black (basic) or accumulate (NEE), never a
// shaded backdrop, so the estimator's semantics don't depend on whether a
// scene happens to have a background configured.
func (pt *PathTracingIntegrator) BackgroundColor(x, y int) (Color, bool) {
	ray := pt.camera.GetRay(x, y, NewSampler(x, y))
	if _, ok := pt.scene.Intersect(ray); ok {
		return Black, false
	}
	if pt.scene.Environment != nil {
		return pt.scene.Environment.Radiance(Vec3{}, ray.Direction().Neg()), true
	}
	if pt.camera.UseSkyGradient || pt.scene.UseSkyGradient {
		return pt.camera.SkyGradient(ray), true
	}
	return pt.scene.Background, true
}

// traceBasic implements BSDF-sampling-only path tracing: emitters contribute
// only when a path directly intersects one.
func (pt *PathTracingIntegrator) traceBasic(x, y int, sampler *Sampler, maxPathLength int) Color {
	ray := pt.camera.GetRay(x, y, sampler)

	depth := 1
	throughput := White

	for {
		hit, ok := pt.scene.Intersect(ray)
		if !ok {
			return Black
		}

		result := hit.Mat.Sample(hit, sampler)

		switch result.Event {
		case EventNone:
			return Black

		case EventEmission:
			id, _ := hit.Mat.EmitterID()
			emitter, _ := pt.scene.Emitter(id)
			if emitter == nil {
				return Black
			}
			emission := emitter.Radiance(hit.P, ray.Direction().Neg())
			return throughput.Mult(emission)

		case EventDiffuse:
			throughput = throughput.Mult(result.Color).Scale(result.CosTheta / result.PdfW)

		case EventReflect:
			throughput = throughput.Mult(result.Color)
		}

		depth++
		if depth > maxPathLength {
			return Black
		}

		ray = NewOffsetRay(hit.P, hit.Normal, result.Direction)
	}
}

// traceNEE implements path tracing with next-event estimation: one emitter
// point is sampled once per path and reused at every diffuse bounce, and a
// BSDF sample that lands on an emitter is only credited when doing so would
// not double-count a contribution NEE already estimated at the previous
// bounce - see the allSpecularSoFar/previousSpecular bookkeeping below.
func (pt *PathTracingIntegrator) traceNEE(x, y int, sampler *Sampler, maxPathLength int) Color {
	ray := pt.camera.GetRay(x, y, sampler)

	depth := 1
	throughput := White
	accumulate := Black

	var emitter Emitter
	var emitterPoint Vec3
	var selectionProbability float64
	if pt.scene.HasEmitters() {
		emitterID, _ := pt.scene.RandomEmitter(sampler)
		emitter, selectionProbability = pt.scene.Emitter(emitterID)
		emitterPoint = emitter.Sample(sampler)
	}

	previousSpecular := false
	allSpecularSoFar := true

	for {
		hit, ok := pt.scene.Intersect(ray)
		if !ok {
			return accumulate
		}

		result := hit.Mat.Sample(hit, sampler)

		switch result.Event {
		case EventNone:
			return accumulate

		case EventEmission:
			if depth == 1 || allSpecularSoFar || previousSpecular {
				id, _ := hit.Mat.EmitterID()
				hitEmitter, _ := pt.scene.Emitter(id)
				if hitEmitter == nil {
					return accumulate
				}
				emission := hitEmitter.Radiance(hit.P, ray.Direction().Neg())
				return accumulate.Add(throughput.Mult(emission))
			}
			return accumulate

		case EventDiffuse:
			if emitter != nil {
				accumulate = accumulate.Add(pt.sampleDirectLight(hit, ray, throughput, emitter, emitterPoint, selectionProbability))
			}
			throughput = throughput.Mult(result.Color).Scale(result.CosTheta / result.PdfW)
			previousSpecular = false
			allSpecularSoFar = false

		case EventReflect:
			throughput = throughput.Mult(result.Color)
			previousSpecular = true
		}

		depth++
		if depth > maxPathLength {
			return accumulate
		}

		ray = NewOffsetRay(hit.P, hit.Normal, result.Direction)
	}
}

// sampleDirectLight evaluates the shadow ray from hit to the one persistent
// emitter sample for this path, converting the emitter's area-measure PDF
// to the solid-angle measure the BSDF evaluation needs.
func (pt *PathTracingIntegrator) sampleDirectLight(hit *HitRecord, incoming Ray, throughput Color, emitter Emitter, emitterPoint Vec3, selectionProbability float64) Color {
	delta := emitterPoint.Sub(hit.P)
	distance := delta.Len()
	if distance <= 2*EpsilonRay {
		return Black
	}
	direction := delta.Div(distance)

	shadowRay := NewOffsetRay(hit.P, hit.Normal, direction)
	if pt.scene.Occluded(shadowRay, distance-2*EpsilonRay) {
		return Black
	}

	factor, _, neeCosTheta := hit.Mat.Evaluate(direction, incoming.Direction().Neg(), hit)
	emitterPdfArea, emitterCosTheta := emitter.PdfLe(emitterPoint, direction.Neg())

	if neeCosTheta <= 0 || emitterCosTheta <= 0 {
		return Black
	}

	pdfW := emitterPdfArea * selectionProbability * distance * distance / emitterCosTheta
	if pdfW <= 0 {
		return Black
	}

	emission := emitter.Radiance(emitterPoint, direction.Neg())
	return throughput.Mult(emission).Mult(factor).Scale(neeCosTheta / pdfW)
}
