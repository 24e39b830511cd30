package rt

import "math"

// Plane is an infinite flat surface, mainly used as a ground or backdrop
// where a Quad's finite extent would require tiling.
type Plane struct {
	Point  Point3
	Normal Vec3
	Mat    Material
	bbox   AABB
	u, v   Vec3 // in-plane tangent basis, for projecting a hit point to UV
}

func NewPlane(point Point3, normal Vec3, mat Material) *Plane {
	n := normal.Unit()

	// Any vector not parallel to n works as a seed for the tangent basis.
	seed := Vec3{X: 0, Y: 1, Z: 0}
	if math.Abs(Dot(n, seed)) > 0.999 {
		seed = Vec3{X: 1, Y: 0, Z: 0}
	}
	u := Cross(seed, n).Unit()
	v := Cross(n, u)

	return &Plane{
		Point:  point,
		Normal: n,
		Mat:    mat,
		bbox:   NewAABBFromIntervals(UniverseInterval, UniverseInterval, UniverseInterval),
		u:      u,
		v:      v,
	}
}
func (p *Plane) BoundingBox() AABB {
	return p.bbox
}

func (p *Plane) Hit(r Ray, rayT Interval, rec *HitRecord) bool {
	denom := Dot(p.Normal, r.Direction())

	if math.Abs(denom) < 1e-8 {
		return false
	}

	t := Dot(p.Point.Sub(r.Origin()), p.Normal) / denom
	if !rayT.Surrounds(t) {
		return false
	}
	rec.T = t
	rec.P = r.At(t)

	rec.SetFaceNormal(r, p.Normal)

	local := rec.P.Sub(p.Point)
	rec.U = Dot(local, p.u)
	rec.V = Dot(local, p.v)

	rec.Mat = p.Mat
	return true
}
