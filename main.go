package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// scenesDir holds the JSON scene descriptions listed by -list
const scenesDir = "scenes"

// Config holds the command line options
type Config struct {
	SceneType     string
	Width         int
	Height        int
	Threads       int
	SuperSampling int
	Adaptive      bool
	SoftShadows   bool
	Seed          int64
	Progress      time.Duration
	Grid          int
	Output        string
	MaxLevel      int
	List          bool
	Help          bool
}

func main() {
	config := parseFlags()

	if config.Help {
		showHelp()
		return
	}
	if config.List {
		if err := listScenes(); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(config, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SceneType, "scene", "default", "Scene: a built-in ID, file:<name> from the scenes directory, or a path to a .json file")
	flag.IntVar(&config.Width, "width", 400, "Image width in pixels")
	flag.IntVar(&config.Height, "height", 0, "Image height in pixels (0 keeps the view's aspect ratio)")
	flag.IntVar(&config.Threads, "threads", renderer.ThreadsAllButSpare, "Worker threads: 0 sequential, n workers, or -2 for all CPUs but two")
	flag.IntVar(&config.SuperSampling, "supersampling", 0, "Rays per pixel side for anti-aliasing (0 or 1 casts one ray)")
	flag.BoolVar(&config.Adaptive, "adaptive", false, "Use adaptive supersampling")
	flag.BoolVar(&config.SoftShadows, "soft-shadows", false, "Enable soft shadows")
	flag.Int64Var(&config.Seed, "seed", 0, "Random seed for soft shadow jitter (0 uses regular grids)")
	flag.DurationVar(&config.Progress, "progress", time.Second, "Progress report interval (0 disables)")
	flag.IntVar(&config.Grid, "grid", 0, "Overlay grid lines every n pixels (0 disables)")
	flag.StringVar(&config.Output, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	flag.IntVar(&config.MaxLevel, "max-level", integrator.DefaultConfig().MaxLevel, "Maximum reflection/refraction recursion depth")
	flag.BoolVar(&config.List, "list", false, "List available scenes")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()
	return config
}

func showHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Printf("  %-12s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

func listScenes() error {
	scenes, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, info := range scenes {
		fmt.Printf("  %-20s %-8s %s\n", info.ID, info.Type, info.Name)
	}
	return nil
}

// run renders the configured scene and writes the PNG
func run(config Config, logger core.Logger) error {
	opts := scene.Options{SoftShadows: config.SoftShadows}
	if config.Seed != 0 {
		opts.Sampler = core.NewRandomSampler(config.Seed)
	}

	logger.Printf("Loading scene %s...\n", config.SceneType)
	s, err := createScene(config.SceneType, opts)
	if err != nil {
		return err
	}
	logger.Printf("Scene %q: %d surfaces, %d lights\n", s.Name, s.GetPrimitiveCount(), len(s.Lights))

	width, height, err := imageSize(s.View, config.Width, config.Height)
	if err != nil {
		return err
	}

	cameraConfig := renderer.NewCameraConfig(s.View)
	cameraConfig.Threads = config.Threads
	cameraConfig.SuperSampling = config.SuperSampling
	cameraConfig.Adaptive = config.Adaptive
	cameraConfig.ProgressInterval = config.Progress
	camera, err := cameraConfig.Build()
	if err != nil {
		return fmt.Errorf("invalid camera: %w", err)
	}

	tracerConfig := integrator.DefaultConfig()
	tracerConfig.MaxLevel = config.MaxLevel
	tracer := integrator.NewWhittedTracer(s, tracerConfig)

	output := config.Output
	if output == "" {
		timestamp := time.Now().Format("20060102_150405")
		output = filepath.Join(createOutputDir(config.SceneType), fmt.Sprintf("render_%s.png", timestamp))
	}
	writer, err := renderer.NewImageWriter(output, width, height)
	if err != nil {
		return err
	}

	var sink renderer.ImageSink = writer
	if config.Grid > 0 {
		sink = &gridSink{ImageSink: writer, interval: config.Grid, color: core.NewColor(255, 255, 255)}
	}

	r, err := renderer.NewRenderer(camera, tracer, sink, logger)
	if err != nil {
		return err
	}
	stats, err := r.Render()
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Printf("Rays per pixel: %.1f (range %d - %d)\n", stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	logger.Printf("Average luminance: %.4f\n", renderer.CalculateAverageLuminance(writer.Image()))
	logger.Printf("Render saved as %s\n", output)
	return nil
}

// gridSink draws the grid overlay just before the image is flushed
type gridSink struct {
	renderer.ImageSink
	interval int
	color    core.Color
}

func (g *gridSink) Flush() error {
	if err := renderer.PrintGrid(g.ImageSink, g.interval, g.color); err != nil {
		return err
	}
	return g.ImageSink.Flush()
}

// createScene resolves a built-in scene ID, a file:<name> ID from the
// scenes directory, or a path to a JSON scene file
func createScene(sceneType string, opts scene.Options) (*scene.Scene, error) {
	switch {
	case sceneType == "":
		return nil, fmt.Errorf("no scene given: %w", scene.ErrUnknownScene)
	case strings.HasPrefix(sceneType, "file:"):
		path := filepath.Join(scenesDir, strings.TrimPrefix(sceneType, "file:")+".json")
		return loaders.LoadScene(path, opts)
	case strings.HasSuffix(sceneType, ".json"):
		return loaders.LoadScene(sceneType, opts)
	default:
		return scene.NewBuiltinScene(sceneType, opts)
	}
}

// createOutputDir returns the output directory for a scene, named after the
// built-in ID or the scene file's base name
func createOutputDir(sceneType string) string {
	base := strings.TrimPrefix(sceneType, "file:")
	base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	if base == "" || base == "." {
		base = "scene"
	}
	return filepath.Join("output", base)
}

// imageSize fills a missing height from the view plane's aspect ratio
func imageSize(view scene.View, width, height int) (int, int, error) {
	if width <= 0 {
		return 0, 0, fmt.Errorf("image width %d must be positive: %w", width, renderer.ErrInvalidConfig)
	}
	if height < 0 {
		return 0, 0, fmt.Errorf("image height %d must not be negative: %w", height, renderer.ErrInvalidConfig)
	}
	if height == 0 {
		if view.Width <= 0 || view.Height <= 0 {
			return 0, 0, fmt.Errorf("view plane %gx%g has no aspect ratio: %w", view.Width, view.Height, renderer.ErrInvalidConfig)
		}
		height = max(1, int(math.Round(float64(width)*view.Height/view.Width)))
	}
	return width, height, nil
}
