package rt

import (
	"fmt"
	"runtime"
	"testing"
	"time"
)

// Benchmark utilities for performance testing

// BenchmarkConfig holds configuration for benchmarks
type BenchmarkConfig struct {
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	Iterations      int
}

// DefaultBenchmarkConfig returns a default benchmark configuration
func DefaultBenchmarkConfig() *BenchmarkConfig {
	return &BenchmarkConfig{
		Width:           320,
		Height:          180,
		SamplesPerPixel: 4,
		MaxDepth:        10,
		Iterations:      1,
	}
}

// BenchmarkResult stores benchmark results
type BenchmarkResult struct {
	Name         string
	Duration     time.Duration
	PixelsPerSec float64
	RaysPerSec   float64
	MemoryUsed   uint64
	Allocations  uint64
}

// RunBenchmark runs a simple inline benchmark and returns results
func RunBenchmark(name string, fn func()) *BenchmarkResult {
	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	ResetRenderStats()

	start := time.Now()
	fn()
	duration := time.Since(start)

	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	rays := GlobalRenderStats.RayCount.Load()

	return &BenchmarkResult{
		Name:        name,
		Duration:    duration,
		RaysPerSec:  float64(rays) / duration.Seconds(),
		MemoryUsed:  memAfter.TotalAlloc - memBefore.TotalAlloc,
		Allocations: memAfter.Mallocs - memBefore.Mallocs,
	}
}

// Print reports a benchmark result the way render-stats output does elsewhere,
// via FormatDuration rather than time.Duration's zero-padded default.
func (r *BenchmarkResult) Print() {
	fmt.Printf("\n=== Benchmark: %s ===\n", r.Name)
	fmt.Printf("  Duration:       %s\n", FormatDuration(r.Duration))
	fmt.Printf("  Rays/sec:       %.2f M\n", r.RaysPerSec/1_000_000)
	fmt.Printf("  Memory used:    %s\n", formatBytes(r.MemoryUsed))
	fmt.Printf("  Allocations:    %d\n", r.Allocations)
	fmt.Println()
}

func BenchmarkRayAABBIntersection(b *testing.B) {
	ray := NewRay(Point3{X: 0, Y: 0, Z: 0}, Vec3{X: 1, Y: 1, Z: 1}, 0)
	aabb := AABB{
		X: NewInterval(-1, 1),
		Y: NewInterval(-1, 1),
		Z: NewInterval(-1, 1),
	}
	interval := NewInterval(0.001, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		aabb.Hit(ray, interval)
	}
}

func BenchmarkVec3Operations(b *testing.B) {
	v1 := Vec3{X: 1.0, Y: 2.0, Z: 3.0}
	v2 := Vec3{X: 4.0, Y: 5.0, Z: 6.0}

	b.Run("Add", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = v1.Add(v2)
		}
	})

	b.Run("Dot", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Dot(v1, v2)
		}
	})

	b.Run("Cross", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Cross(v1, v2)
		}
	})

	b.Run("Normalize", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = v1.Unit()
		}
	})
}

func BenchmarkBVHConstruction(b *testing.B) {
	objects := make([]Hittable, 100)
	for i := 0; i < 100; i++ {
		center := Point3{
			X: RandomDoubleRange(-10, 10),
			Y: RandomDoubleRange(-10, 10),
			Z: RandomDoubleRange(-10, 10),
		}
		objects[i] = NewSphere(center, 0.5, NewLambertian(Color{X: 0.5, Y: 0.5, Z: 0.5}))
	}

	list := &HittableList{Objects: objects}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NewBVHNodeFromList(list)
	}
}

// BenchmarkPathTrace benchmarks a single pixel's full NEE estimate against the
// Cornell box scene, the integrator's heaviest realistic workload.
func BenchmarkPathTrace(b *testing.B) {
	scene, camera := CornellBoxScene()
	integrator := NewPathTracingIntegrator(camera, scene, true)

	x, y := camera.ImageWidth/2, camera.ImageHeight/2

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = integrator.Estimate(x, y, camera.MaxDepth, 1)
	}
}

// QuickBenchmark runs a quick performance test with minimal settings
func QuickBenchmark() *BenchmarkResult {
	fmt.Println("running quick benchmark")

	scene, camera := CornellBoxScene()
	camera.ImageWidth = 160
	camera.ImageHeight = 90
	camera.SamplesPerPixel = 1
	camera.MaxDepth = 3
	camera.Initialize()

	integrator := NewPathTracingIntegrator(camera, scene, true)

	result := RunBenchmark("QuickBenchmark", func() {
		for j := 0; j < camera.ImageHeight; j++ {
			for i := 0; i < camera.ImageWidth; i++ {
				_ = integrator.Estimate(i, j, camera.MaxDepth, camera.SamplesPerPixel)
			}
		}
	})

	result.PixelsPerSec = float64(camera.ImageWidth*camera.ImageHeight) / result.Duration.Seconds()
	return result
}

func BenchmarkBVHTraversal(b *testing.B) {
	objects := make([]Hittable, 1000)
	for i := 0; i < 1000; i++ {
		center := Point3{
			X: RandomDoubleRange(-10, 10),
			Y: RandomDoubleRange(-10, 10),
			Z: RandomDoubleRange(-10, 10),
		}
		objects[i] = NewSphere(center, 0.2, NewLambertian(Color{X: 0.5, Y: 0.5, Z: 0.5}))
	}
	list := &HittableList{Objects: objects}

	bvh := NewBVHNodeFromList(list)

	rays := make([]Ray, 100)
	for i := range rays {
		origin := Point3{
			X: RandomDoubleRange(-15, 15),
			Y: RandomDoubleRange(-15, 15),
			Z: RandomDoubleRange(-15, 15),
		}
		target := Point3{
			X: RandomDoubleRange(-5, 5),
			Y: RandomDoubleRange(-5, 5),
			Z: RandomDoubleRange(-5, 5),
		}
		dir := target.Sub(origin).Unit()
		rays[i] = NewRay(origin, dir, 0)
	}

	interval := NewInterval(0.001, 1000)

	rec := &HitRecord{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ray := rays[i%len(rays)]
		bvh.Hit(ray, interval, rec)
	}
}
