package renderer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// memorySink keeps pixels in memory and counts writes per pixel
type memorySink struct {
	width, height int
	pixels        []core.Color
	writes        []int
	flushed       int
	flushErr      error
}

func newMemorySink(width, height int) *memorySink {
	return &memorySink{
		width:  width,
		height: height,
		pixels: make([]core.Color, width*height),
		writes: make([]int, width*height),
	}
}

func (m *memorySink) Size() (int, int) { return m.width, m.height }

func (m *memorySink) WritePixel(col, row int, color core.Color) {
	m.pixels[row*m.width+col] = color
	m.writes[row*m.width+col]++
}

func (m *memorySink) Flush() error {
	m.flushed++
	return m.flushErr
}

func (m *memorySink) at(col, row int) core.Color { return m.pixels[row*m.width+col] }

// tracerFunc adapts a function to integrator.RayTracer
type tracerFunc func(core.Ray) core.Color

func (f tracerFunc) TraceRay(ray core.Ray) core.Color { return f(ray) }

func constantTracer(c core.Color) tracerFunc {
	return func(core.Ray) core.Color { return c }
}

// recordingLogger collects formatted output
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) output() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "")
}

func mustRenderer(t *testing.T, cfg CameraConfig, tracer integrator.RayTracer, sink ImageSink) *Renderer {
	t.Helper()
	r, err := NewRenderer(mustCamera(t, cfg), tracer, sink, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestNewRenderer_Validation(t *testing.T) {
	camera := mustCamera(t, testCameraConfig())
	tracer := constantTracer(core.Black)

	_, err := NewRenderer(nil, nil, nil, nil)
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("Expected ErrMissingField, got %v", err)
	}
	if lines := strings.Split(err.Error(), "\n"); len(lines) != 3 {
		t.Errorf("Expected 3 missing collaborators, got %d: %v", len(lines), err)
	}

	_, err = NewRenderer(camera, tracer, newMemorySink(0, 4), nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for an empty image, got %v", err)
	}

	if _, err := NewRenderer(camera, tracer, newMemorySink(2, 2), nil); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestRender_EmptySceneIsBackground(t *testing.T) {
	s := scene.NewScene("empty")
	s.Background = core.NewColor(12, 34, 56)
	tracer := integrator.NewWhittedTracer(s, integrator.DefaultConfig())

	for _, threads := range []int{0, 3} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			cfg := testCameraConfig()
			cfg.Threads = threads
			sink := newMemorySink(8, 5)
			stats, err := mustRenderer(t, cfg, tracer, sink).Render()
			if err != nil {
				t.Fatalf("Render: %v", err)
			}

			for row := 0; row < 5; row++ {
				for col := 0; col < 8; col++ {
					if !sink.at(col, row).Equals(s.Background) {
						t.Fatalf("Pixel (%d, %d): expected background, got %v", col, row, sink.at(col, row))
					}
				}
			}
			if sink.flushed != 1 {
				t.Errorf("Expected one flush, got %d", sink.flushed)
			}
			if stats.TotalPixels != 40 || stats.TotalSamples != 40 {
				t.Errorf("Expected 40 pixels and samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
			}
			if stats.Workers != threads {
				t.Errorf("Expected %d workers in stats, got %d", threads, stats.Workers)
			}
		})
	}
}

func TestRender_ParallelMatchesSequential(t *testing.T) {
	s, err := scene.NewDefaultScene(scene.Options{})
	if err != nil {
		t.Fatalf("NewDefaultScene: %v", err)
	}
	tracer := integrator.NewWhittedTracer(s, integrator.DefaultConfig())
	cfg := NewCameraConfig(s.View)

	sequential := newMemorySink(24, 24)
	if _, err := mustRenderer(t, cfg, tracer, sequential).Render(); err != nil {
		t.Fatalf("sequential Render: %v", err)
	}

	cfg.Threads = 4
	parallel := newMemorySink(24, 24)
	if _, err := mustRenderer(t, cfg, tracer, parallel).Render(); err != nil {
		t.Fatalf("parallel Render: %v", err)
	}

	for i := range sequential.pixels {
		if parallel.writes[i] != 1 {
			t.Fatalf("Pixel %d written %d times", i, parallel.writes[i])
		}
		if !sequential.pixels[i].Equals(parallel.pixels[i]) {
			t.Fatalf("Pixel %d: sequential %v, parallel %v", i, sequential.pixels[i], parallel.pixels[i])
		}
	}
}

func TestRender_WorkerPanic(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		threads int
		value   interface{}
	}{
		{"sequential error value", 0, errBoom},
		{"parallel error value", 4, errBoom},
		{"sequential string value", 0, "bad pixel"},
		{"parallel string value", 4, "bad pixel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			var mu sync.Mutex
			tracer := tracerFunc(func(core.Ray) core.Color {
				mu.Lock()
				calls++
				n := calls
				mu.Unlock()
				if n == 5 {
					panic(tt.value)
				}
				return core.Black
			})

			cfg := testCameraConfig()
			cfg.Threads = tt.threads
			sink := newMemorySink(10, 10)
			_, err := mustRenderer(t, cfg, tracer, sink).Render()
			if !errors.Is(err, ErrWorkerPanic) {
				t.Fatalf("Expected ErrWorkerPanic, got %v", err)
			}
			if wrapped, ok := tt.value.(error); ok && !errors.Is(err, wrapped) {
				t.Errorf("Expected the panic value to be wrapped, got %v", err)
			}
			if !strings.Contains(err.Error(), "pixel (") {
				t.Errorf("Expected the failing pixel in the error, got %q", err.Error())
			}
			if sink.flushed != 0 {
				t.Errorf("Expected no flush after a failure, got %d", sink.flushed)
			}
		})
	}
}

func TestRender_FlushError(t *testing.T) {
	errDisk := errors.New("disk full")
	sink := newMemorySink(2, 2)
	sink.flushErr = errDisk

	_, err := mustRenderer(t, testCameraConfig(), constantTracer(core.Black), sink).Render()
	if !errors.Is(err, errDisk) {
		t.Errorf("Expected the flush error, got %v", err)
	}
}

func TestRender_BeamSampling(t *testing.T) {
	cfg := testCameraConfig()
	cfg.SuperSampling = 3
	color := core.NewColor(10, 20, 30)
	sink := newMemorySink(4, 4)

	stats, err := mustRenderer(t, cfg, constantTracer(color), sink).Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if stats.TotalSamples != 16*9 || stats.MinSamples != 9 || stats.MaxSamplesUsed != 9 {
		t.Errorf("Expected 9 samples per pixel, got total=%d min=%d max=%d",
			stats.TotalSamples, stats.MinSamples, stats.MaxSamplesUsed)
	}
	if !sink.at(2, 3).Equals(color) {
		t.Errorf("Expected %v, got %v", color, sink.at(2, 3))
	}
}

func TestRender_BeamAveragesSubPixels(t *testing.T) {
	// Right half of the view is white; the center pixel of a 1x1 image
	// straddles the boundary
	cfg := testCameraConfig()
	cfg.SuperSampling = 2
	white := core.NewColor(200, 200, 200)
	tracer := tracerFunc(func(ray core.Ray) core.Color {
		if ray.Direction.X > 0 {
			return white
		}
		return core.Black
	})

	camera := mustCamera(t, cfg)
	color, samples := camera.pixelColor(tracer, 1, 1, 0, 0)
	if samples != 4 {
		t.Errorf("Expected 4 samples, got %d", samples)
	}
	if !color.Equals(core.NewColor(100, 100, 100)) {
		t.Errorf("Expected half white, got %v", color)
	}
}

func TestAdaptiveSampling(t *testing.T) {
	cfg := testCameraConfig()
	cfg.Adaptive = true
	camera := mustCamera(t, cfg)

	t.Run("uniform pixel", func(t *testing.T) {
		color := core.NewColor(50, 60, 70)
		got, samples := camera.pixelColor(constantTracer(color), 3, 3, 1, 1)
		if samples != 5 {
			t.Errorf("Expected corners and center only, got %d samples", samples)
		}
		if !got.Equals(color) {
			t.Errorf("Expected %v, got %v", color, got)
		}
	})

	t.Run("edge pixel", func(t *testing.T) {
		white := core.NewColor(190, 190, 190)
		tracer := tracerFunc(func(ray core.Ray) core.Color {
			if ray.Direction.X > 0 {
				return white
			}
			return core.Black
		})

		// The center pixel's left half and center column are black, so the
		// right quadrants are refined down to the default depth
		got, samples := camera.pixelColor(tracer, 3, 3, 1, 1)
		if samples != 19 {
			t.Errorf("Expected 19 distinct samples, got %d", samples)
		}
		expected := core.NewColor(120, 120, 120) // 12 of 19 samples white
		if !got.Equals(expected) {
			t.Errorf("Expected %v, got %v", expected, got)
		}
	})

	t.Run("depth from super sampling", func(t *testing.T) {
		cfg := testCameraConfig()
		cfg.Adaptive = true
		cfg.SuperSampling = 2
		shallow := mustCamera(t, cfg)
		tracer := tracerFunc(func(ray core.Ray) core.Color {
			if ray.Direction.X > 0 {
				return core.NewColor(100, 100, 100)
			}
			return core.Black
		})
		if _, samples := shallow.pixelColor(tracer, 3, 3, 1, 1); samples != 5 {
			t.Errorf("Expected no refinement at depth 1, got %d samples", samples)
		}
	})
}

func TestPrintGrid(t *testing.T) {
	sink := newMemorySink(5, 5)
	red := core.NewColor(255, 0, 0)

	if err := PrintGrid(sink, 0, red); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for interval 0, got %v", err)
	}

	if err := PrintGrid(sink, 2, red); err != nil {
		t.Fatalf("PrintGrid: %v", err)
	}
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			onGrid := col%2 == 0 || row%2 == 0
			if got := sink.at(col, row).Equals(red); got != onGrid {
				t.Errorf("Pixel (%d, %d): expected grid=%v, got %v", col, row, onGrid, sink.at(col, row))
			}
		}
	}
	if sink.flushed != 0 {
		t.Error("PrintGrid should not flush")
	}
}

func TestImageWriter(t *testing.T) {
	if _, err := NewImageWriter("x.png", 0, 3); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "image.png")
	iw, err := NewImageWriter(path, 4, 3)
	if err != nil {
		t.Fatalf("NewImageWriter: %v", err)
	}
	if w, h := iw.Size(); w != 4 || h != 3 {
		t.Errorf("Expected 4x3, got %dx%d", w, h)
	}

	iw.WritePixel(1, 2, core.NewColor(300, 128, 0))
	got := iw.Image().RGBAAt(1, 2)
	if got.R != 255 || got.G != 128 || got.B != 0 || got.A != 255 {
		t.Errorf("Expected clamped (255,128,0,255), got %v", got)
	}

	if err := iw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected image file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected a non-empty image file")
	}
}

func TestRender_ProgressLogging(t *testing.T) {
	logger := &recordingLogger{}
	cfg := testCameraConfig()
	cfg.ProgressInterval = time.Nanosecond
	r, err := NewRenderer(mustCamera(t, cfg), constantTracer(core.Black), newMemorySink(4, 4), logger)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if _, err := r.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := logger.output()
	if !strings.Contains(out, "Render progress: 100.0%") {
		t.Errorf("Expected a final progress line, got %q", out)
	}
	if !strings.Contains(out, "Render completed") {
		t.Errorf("Expected a completion message, got %q", out)
	}
}

func TestRenderContext_Cancelled(t *testing.T) {
	for _, threads := range []int{0, 2} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			var mu sync.Mutex
			traced := 0
			tracer := tracerFunc(func(core.Ray) core.Color {
				mu.Lock()
				defer mu.Unlock()
				traced++
				if traced == 3 {
					cancel()
				}
				return core.Black
			})

			cfg := testCameraConfig()
			cfg.Threads = threads
			sink := newMemorySink(20, 20)
			_, err := mustRenderer(t, cfg, tracer, sink).RenderContext(ctx)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("Expected context.Canceled, got %v", err)
			}
			if sink.flushed != 0 {
				t.Error("Expected no flush after cancellation")
			}
			if traced >= 400 {
				t.Errorf("Expected the render to stop early, traced %d pixels", traced)
			}
		})
	}
}
