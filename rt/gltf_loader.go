package rt

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads every mesh primitive out of a glTF/GLB document and returns
// its triangles alongside the materials the document declared, in document
// order. A primitive with no material index falls back to fallback. Emissive
// materials are left for the caller to turn into TriangleLights (see
// NewTriangleLightFromTriangle) once the triangles are placed in a Scene -
// the loader itself has no Scene to register emitters with yet.
//
// Per-vertex normals and texture coordinates are not carried over: Triangle
// is a flat-shaded primitive, the same simplification LoadOBJ makes.
func LoadGLTF(path string, fallback Material) ([]*Triangle, []Material, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gltf: open %s: %w", path, err)
	}

	materials := loadGLTFMaterials(doc, fallback)

	var triangles []*Triangle
	for _, mesh := range doc.Meshes {
		for _, primitive := range mesh.Primitives {
			tris, err := loadGLTFPrimitive(doc, primitive, materials, fallback)
			if err != nil {
				return nil, nil, fmt.Errorf("gltf: %s: %w", path, err)
			}
			triangles = append(triangles, tris...)
		}
	}

	return triangles, materials, nil
}

func loadGLTFMaterials(doc *gltf.Document, fallback Material) []Material {
	materials := make([]Material, len(doc.Materials))
	for i, gltfMat := range doc.Materials {
		materials[i] = gltfMaterialToMaterial(gltfMat, fallback)
	}
	return materials
}

// gltfMaterialToMaterial maps a glTF PBR material onto the renderer's own,
// simpler material model: an emissive factor above zero becomes an Emissive
// (its EmitterID left unbound at 0 - the caller must rebind it once the
// triangle is registered as a light), a material with no PBR block gets
// fallback, a high metallic factor becomes Metal, and everything else becomes
// Lambertian tinted by the base colour factor.
func gltfMaterialToMaterial(gltfMat *gltf.Material, fallback Material) Material {
	emissive := Color{
		X: float64(gltfMat.EmissiveFactor[0]),
		Y: float64(gltfMat.EmissiveFactor[1]),
		Z: float64(gltfMat.EmissiveFactor[2]),
	}
	if emissive.X > 0 || emissive.Y > 0 || emissive.Z > 0 {
		return NewEmissive(0)
	}

	if gltfMat.PBRMetallicRoughness == nil {
		return fallback
	}
	pbr := gltfMat.PBRMetallicRoughness

	baseColor := Color{X: 1, Y: 1, Z: 1}
	if pbr.BaseColorFactor != nil {
		baseColor = Color{
			X: float64(pbr.BaseColorFactor[0]),
			Y: float64(pbr.BaseColorFactor[1]),
			Z: float64(pbr.BaseColorFactor[2]),
		}
	}

	metallic := 0.0
	if pbr.MetallicFactor != nil {
		metallic = float64(*pbr.MetallicFactor)
	}
	if metallic > 0.5 {
		roughness := 1.0
		if pbr.RoughnessFactor != nil {
			roughness = float64(*pbr.RoughnessFactor)
		}
		return NewMetal(baseColor, roughness)
	}

	return NewLambertian(baseColor)
}

func loadGLTFPrimitive(doc *gltf.Document, primitive *gltf.Primitive, materials []Material, fallback Material) ([]*Triangle, error) {
	positionIndex, ok := primitive.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[positionIndex], nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	var indices []uint32
	if primitive.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	mat := fallback
	if primitive.Material != nil && int(*primitive.Material) < len(materials) {
		mat = materials[*primitive.Material]
	}

	triangles := make([]*Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		v0 := gltfVertex(positions[indices[i]])
		v1 := gltfVertex(positions[indices[i+1]])
		v2 := gltfVertex(positions[indices[i+2]])
		triangles = append(triangles, NewTriangle(v0, v1, v2, mat))
	}

	return triangles, nil
}

func gltfVertex(p [3]float32) Point3 {
	return Point3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}
