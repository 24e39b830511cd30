// TODO check to see if MIS or NEE is messing up my metallic reflection

package main

import (
	"flag"
	"fmt"
	"go-raytracing/rt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Profiling flags
	enableProfile := flag.Bool("profile", false, "Enable profiling (CPU, memory)")
	cpuProfile := flag.Bool("cpu-profile", true, "Enable CPU profiling (requires -profile)")
	memProfile := flag.Bool("mem-profile", true, "Enable memory profiling (requires -profile)")
	traceProfile := flag.Bool("trace", false, "Enable execution tracing (requires -profile)")
	blockProfile := flag.Bool("block-profile", false, "Enable block profiling (requires -profile)")
	profileDir := flag.String("profile-dir", "profiles", "Directory to save profile files")
	showMemStats := flag.Bool("mem-stats", false, "Show memory statistics after render")
	sceneName := flag.String("scene", "hdri-test", "Scene to render (random, checkered, simple, marble, earth, quads, cornell, cornell-glossy, glossy-metal, primitives, hdri-test, gltf, obj)")
	hdriFile := flag.String("hdri", "environment.hdr", "Environment map path, used by the hdri-test scene")
	gltfFile := flag.String("gltf", "model.gltf", "glTF/GLB mesh path, used by the gltf scene")
	objFile := flag.String("obj", "model.obj", "Wavefront OBJ mesh path, used by the obj scene")
	enableNEE := flag.Bool("nee", true, "Enable next-event estimation")

	flag.Parse()

	// Configure profiler
	profileConfig := &rt.ProfileConfig{
		Enabled:      *enableProfile,
		CPUProfile:   *cpuProfile,
		MemProfile:   *memProfile,
		TraceEnabled: *traceProfile,
		BlockProfile: *blockProfile,
		OutputDir:    *profileDir,
		SampleRate:   100,
	}

	rt.GlobalProfiler = rt.NewProfiler(profileConfig)
	profiler := rt.GlobalProfiler

	// Start profiling if enabled
	if *enableProfile {
		fmt.Println("profiling enabled")
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start profiler: %v\n", err)
			os.Exit(1)
		}

		// Handle graceful shutdown for profiling
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			fmt.Println("\ninterrupt received, saving profiles...")
			profiler.Stop()
			profiler.PrintTimingReport()
			if *showMemStats {
				rt.PrintMemStats()
			}
			os.Exit(0)
		}()
	}

	// Reset render stats
	rt.ResetRenderStats()

	bvhTimer := rt.NewTimer("BVH construction")
	scene, camera, sceneErr := loadScene(*sceneName, *hdriFile, *gltfFile, *objFile)
	if sceneErr != nil {
		fmt.Fprintf(os.Stderr, "failed to load scene %q: %v\n", *sceneName, sceneErr)
		os.Exit(1)
	}
	bvhTime := bvhTimer.Stop()
	rt.GlobalRenderStats.BVHConstructTime = bvhTime

	fmt.Printf("scene: %s | %dx%d | %d spp | depth %d | NEE=%v\n",
		*sceneName, camera.ImageWidth, camera.ImageHeight, camera.SamplesPerPixel, camera.MaxDepth, *enableNEE)

	bucketSize := 32
	numWorkers := runtime.NumCPU()

	renderer := rt.NewBucketRenderer(camera, scene, *enableNEE, bucketSize, numWorkers)

	ebiten.SetWindowSize(camera.ImageWidth, camera.ImageHeight)
	ebiten.SetWindowTitle("Go Raytracer")

	renderTimer := rt.NewTimer("render")
	if err := ebiten.RunGame(renderer); err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}
	renderTime := renderTimer.Elapsed()
	rt.PrintRenderStatsReport(rt.GlobalRenderStats, renderTime)

	// Stop profiling and print reports
	if *enableProfile {
		profiler.Stop()
		profiler.PrintTimingReport()
	}

	if *showMemStats {
		rt.PrintMemStats()
	}
}

func loadScene(name, hdriFile, gltfFile, objFile string) (*rt.Scene, *rt.Camera, error) {
	switch strings.ToLower(name) {
	case "random", "randomscene":
		s, c := rt.RandomScene()
		return s, c, nil
	case "checkered", "checker", "checkered-spheres":
		s, c := rt.CheckeredSpheresScene()
		return s, c, nil
	case "simple", "simple-scene":
		s, c := rt.SimpleScene()
		return s, c, nil
	case "marble", "marble-spheres":
		s, c := rt.MarbleSpheresScene()
		return s, c, nil
	case "earth", "earth-scene":
		s, c := rt.EarthScene()
		return s, c, nil
	case "quads", "quads-scene":
		s, c := rt.QuadsScene()
		return s, c, nil
	case "cornell", "cornell-box":
		s, c := rt.CornellBoxScene()
		return s, c, nil
	case "cornell-glossy":
		s, c := rt.CornellBoxGlossy()
		return s, c, nil
	case "glossy-metal", "glossy-metal-test":
		s, c := rt.GlossyMetalTest()
		return s, c, nil
	case "primitives", "primitives-scene":
		s, c := rt.PrimitivesScene()
		return s, c, nil
	case "hdri", "hdri-test", "hdr":
		s, c := rt.HDRITestScene(hdriFile)
		return s, c, nil
	case "gltf", "gltf-scene", "mesh":
		return rt.GLTFScene(gltfFile)
	case "obj", "obj-scene":
		return rt.OBJScene(objFile, rt.NewLambertian(rt.Color{X: 0.6, Y: 0.6, Z: 0.6}))
	default:
		return nil, nil, fmt.Errorf("unknown scene: %s", name)
	}
}
