package renderer

import (
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PixelManager hands out pixels in row-major order to render workers and
// reports progress as they complete
type PixelManager struct {
	width  int
	height int
	total  int

	nextMu sync.Mutex
	next   int // Row-major index of the next pixel to hand out

	doneMu      sync.Mutex
	done        int
	interval    time.Duration
	lastPrinted time.Time
	lastPercent int // Tenths of a percent last reported
	logger      core.Logger
	now         func() time.Time
}

// NewPixelManager creates a manager for a width x height image. A zero
// interval disables progress reports.
func NewPixelManager(width, height int, interval time.Duration, logger core.Logger) *PixelManager {
	if logger == nil {
		logger = nopLogger{}
	}
	pm := &PixelManager{
		width:       width,
		height:      height,
		total:       width * height,
		interval:    interval,
		lastPercent: -1,
		logger:      logger,
		now:         time.Now,
	}
	pm.lastPrinted = pm.now()
	return pm
}

// NextPixel returns the next unassigned pixel, or false once every pixel
// has been handed out
func (pm *PixelManager) NextPixel() (col, row int, ok bool) {
	pm.nextMu.Lock()
	defer pm.nextMu.Unlock()

	if pm.next >= pm.total {
		return 0, 0, false
	}
	col, row = pm.next%pm.width, pm.next/pm.width
	pm.next++
	return col, row, true
}

// PixelDone records a completed pixel and prints progress when the
// interval has passed since the last report, and once at completion
func (pm *PixelManager) PixelDone() {
	pm.doneMu.Lock()
	defer pm.doneMu.Unlock()

	pm.done++
	if pm.interval <= 0 {
		return
	}

	percent := pm.done * 1000 / pm.total
	now := pm.now()
	if pm.done < pm.total && now.Sub(pm.lastPrinted) < pm.interval {
		return
	}
	if percent == pm.lastPercent {
		return
	}
	pm.lastPrinted = now
	pm.lastPercent = percent
	pm.logger.Printf("\rRender progress: %d.%d%%", percent/10, percent%10)
	if pm.done == pm.total {
		pm.logger.Printf("\n")
	}
}

// Done returns the number of completed pixels
func (pm *PixelManager) Done() int {
	pm.doneMu.Lock()
	defer pm.doneMu.Unlock()
	return pm.done
}

// Total returns the number of pixels in the image
func (pm *PixelManager) Total() int {
	return pm.total
}
