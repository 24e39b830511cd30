package rt

import "math"

// MaterialID identifies a material registered with a Scene's material table.
// The hot intersection path never uses it - HitRecord.Mat is still set
// directly by the Hittable that was hit - but a mesh loader (OBJ, glTF) that
// shares one Material object across thousands of triangles wants a single
// place to look it up by index, the way the source format itself indexes
// materials. See DESIGN.md for the Open Question this resolves.
type MaterialID int

// Scene is the integrator's read-only collaborator: geometry behind a BVH
// root plus the emitter registry used for random-emitter selection and
// next-event estimation.
type Scene struct {
	root      Hittable
	emitters  []Emitter
	weights   []float64 // normalised selection probability per emitter
	cdf       []float64 // cumulative weights, for RandomEmitter
	materials []Material

	// Escaped-ray shading, used when Intersect finds nothing.
	Background     Color
	UseSkyGradient bool
	Environment    *Environment
}

// NewScene builds a scene from a BVH root and an emitter list. Emitters are
// selected uniformly unless weights is non-nil, in which case it must be the
// same length as emitters and need not be pre-normalised.
func NewScene(root Hittable, emitters []Emitter, weights []float64) *Scene {
	s := &Scene{root: root, emitters: emitters}
	if len(emitters) == 0 {
		return s
	}
	if weights == nil {
		weights = make([]float64, len(emitters))
		for i := range weights {
			weights[i] = 1
		}
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	s.weights = make([]float64, len(weights))
	s.cdf = make([]float64, len(weights))
	running := 0.0
	for i, w := range weights {
		normalised := w / total
		s.weights[i] = normalised
		running += normalised
		s.cdf[i] = running
	}
	return s
}

// Intersect finds the nearest hit along ray, honouring EpsilonRay as the
// minimum valid parameter.
func (s *Scene) Intersect(ray Ray) (*HitRecord, bool) {
	rec := &HitRecord{}
	if !s.root.Hit(ray, NewInterval(EpsilonRay, math.Inf(1)), rec) {
		return nil, false
	}
	rec.FromDirection = ray.Direction().Unit()
	return rec, true
}

// Occluded reports whether anything blocks ray before maxDistance. It is a
// cheaper query than Intersect because callers only need a boolean.
func (s *Scene) Occluded(ray Ray, maxDistance float64) bool {
	if maxDistance <= EpsilonRay {
		return false
	}
	rec := &HitRecord{}
	return s.root.Hit(ray, NewInterval(EpsilonRay, maxDistance), rec)
}

// Emitter resolves an id to its collaborator and the probability with which
// RandomEmitter would have selected it.
func (s *Scene) Emitter(id EmitterID) (Emitter, float64) {
	if int(id) < 0 || int(id) >= len(s.emitters) {
		return nil, 0
	}
	return s.emitters[id], s.weights[id]
}

// RandomEmitter draws one emitter id according to the scene's selection
// weights (uniform unless NewScene was given explicit weights).
func (s *Scene) RandomEmitter(sampler *Sampler) (EmitterID, bool) {
	if len(s.emitters) == 0 {
		return 0, false
	}
	xi := sampler.Float64()
	for i, c := range s.cdf {
		if xi <= c {
			return EmitterID(i), true
		}
	}
	return EmitterID(len(s.emitters) - 1), true
}

// HasEmitters reports whether next-event estimation has anything to sample.
func (s *Scene) HasEmitters() bool { return len(s.emitters) > 0 }

// RegisterMaterial adds mat to the scene's material table and returns the id
// future lookups use to retrieve it. GLTFScene calls this once per distinct
// material LoadGLTF returns rather than letting every triangle hold its own
// copy.
func (s *Scene) RegisterMaterial(mat Material) MaterialID {
	s.materials = append(s.materials, mat)
	return MaterialID(len(s.materials) - 1)
}

// Material resolves a MaterialID returned by RegisterMaterial. Returns nil
// for an id that was never registered.
func (s *Scene) Material(id MaterialID) Material {
	if int(id) < 0 || int(id) >= len(s.materials) {
		return nil
	}
	return s.materials[id]
}
