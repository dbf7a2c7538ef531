package renderer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Render computes every pixel of the sink and flushes it. With zero
// threads the pixels are rendered in row-major order on the calling
// goroutine; otherwise workers pull pixels from a shared PixelManager until
// it is drained. If a pixel computation panics, the remaining workers stop,
// the first failure is returned and the sink is not flushed.
func (r *Renderer) Render() (RenderStats, error) {
	return r.RenderContext(context.Background())
}

// RenderContext is Render with cancellation. A cancelled render stops
// handing out pixels, returns ctx.Err() and does not flush.
func (r *Renderer) RenderContext(ctx context.Context) (RenderStats, error) {
	width, height := r.sink.Size()
	pm := NewPixelManager(width, height, r.camera.progressInterval, r.logger)
	workers := r.camera.threads

	mode := "sequential"
	if workers > 0 {
		mode = fmt.Sprintf("%d workers", workers)
	}
	r.logger.Printf("Rendering %dx%d (%s)...\n", width, height, mode)

	start := time.Now()
	var stats RenderStats
	var err error
	if workers == 0 {
		stats, err = r.renderWorker(ctx, pm)
	} else {
		stats, err = r.renderParallel(ctx, pm, workers)
	}
	stats.Workers = workers
	stats.Duration = time.Since(start)
	if err != nil {
		return stats, err
	}
	stats.finalizeStats()

	r.logger.Printf("Render completed in %v (%d pixels, %.1f rays per pixel)\n",
		stats.Duration, stats.TotalPixels, stats.AverageSamples)

	if err := r.sink.Flush(); err != nil {
		return stats, fmt.Errorf("flushing image: %w", err)
	}
	return stats, nil
}

// renderParallel runs workers goroutines over the shared pixel manager and
// merges their statistics
func (r *Renderer) renderParallel(ctx context.Context, pm *PixelManager, workers int) (RenderStats, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]RenderStats, workers)
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			stats, err := r.renderWorker(ctx, pm)
			results[i] = stats
			return err
		})
	}
	err := g.Wait()

	stats := newWorkerStats()
	for _, s := range results {
		stats.merge(s)
	}
	return stats, err
}

// renderWorker renders pixels until the manager is drained or ctx is
// cancelled by a failing sibling
func (r *Renderer) renderWorker(ctx context.Context, pm *PixelManager) (stats RenderStats, err error) {
	stats = newWorkerStats()
	width, height := r.sink.Size()
	col, row := -1, -1

	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = fmt.Errorf("pixel (%d, %d): %w: %w", col, row, ErrWorkerPanic, perr)
				return
			}
			err = fmt.Errorf("pixel (%d, %d): %w: %v", col, row, ErrWorkerPanic, p)
		}
	}()

	for ctx.Err() == nil {
		var ok bool
		col, row, ok = pm.NextPixel()
		if !ok {
			return stats, nil
		}
		color, samples := r.camera.pixelColor(r.tracer, width, height, col, row)
		r.sink.WritePixel(col, row, color)
		stats.updateStats(samples)
		pm.PixelDone()
	}
	return stats, ctx.Err()
}
