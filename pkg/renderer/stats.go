package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of primary rays traced
	AverageSamples float64       // Average primary rays per pixel
	MinSamples     int           // Fewest rays used by any pixel
	MaxSamplesUsed int           // Most rays used by any pixel
	Workers        int           // Worker goroutines, 0 for a sequential render
	Duration       time.Duration // Wall time of the render
}

// newWorkerStats initializes statistics a single worker accumulates
func newWorkerStats() RenderStats {
	return RenderStats{MinSamples: int(^uint(0) >> 1)}
}

// updateStats updates the render statistics with data from a single pixel
func (s *RenderStats) updateStats(samplesUsed int) {
	s.TotalPixels++
	s.TotalSamples += samplesUsed
	s.MinSamples = min(s.MinSamples, samplesUsed)
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, samplesUsed)
}

// merge folds another worker's statistics into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.MinSamples = min(s.MinSamples, other.MinSamples)
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, other.MaxSamplesUsed)
}

// finalizeStats calculates final statistics after all pixels are rendered
func (s *RenderStats) finalizeStats() {
	if s.TotalPixels == 0 {
		s.MinSamples = 0
		return
	}
	s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an
// image, with channels scaled to [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			total += 0.2126*float64(r)/65535 + 0.7152*float64(g)/65535 + 0.0722*float64(b)/65535
		}
	}
	return total / float64(pixels)
}
