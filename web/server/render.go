package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// RenderResult is sent with the "complete" event
type RenderResult struct {
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	Workers        int     `json:"workers"`
	PrimitiveCount int     `json:"primitiveCount"`
	Luminance      float64 `json:"luminance"`
}

// RenderingPipeline contains the configured scene and renderer
type RenderingPipeline struct {
	Scene    *scene.Scene
	Renderer *renderer.Renderer
	Sink     *pngSink
}

// pngSink keeps the image in memory and encodes it to PNG on Flush
type pngSink struct {
	img     *image.RGBA
	encoded bytes.Buffer
}

func newPNGSink(width, height int) *pngSink {
	return &pngSink{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (p *pngSink) Size() (int, int) {
	b := p.img.Bounds()
	return b.Dx(), b.Dy()
}

func (p *pngSink) WritePixel(col, row int, color core.Color) {
	p.img.SetRGBA(col, row, color.RGBA())
}

func (p *pngSink) Flush() error {
	p.encoded.Reset()
	return png.Encode(&p.encoded, p.img)
}

// base64 returns the flushed PNG encoded for a data URL
func (p *pngSink) base64() string {
	return base64.StdEncoding.EncodeToString(p.encoded.Bytes())
}

// handleRender renders a scene and streams console output and the finished
// image via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Invalid parameters are rejected before the event stream starts
	req, err := s.parseRenderRequest(r)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	camera, err := s.createCamera(sceneObj, req)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeJSONError(w, http.StatusBadRequest, "Invalid camera: "+err.Error())
		return
	}

	// Set SSE headers
	s.setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Single writer goroutine owns the response
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	pipeline, err := s.setupRenderingPipeline(req, sceneObj, camera, webLogger)
	if err != nil {
		close(consoleChan)
		<-consoleDone
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	stats, err := pipeline.Renderer.RenderContext(ctx)
	close(consoleChan)
	<-consoleDone
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	result := RenderResult{
		ImageData:      pipeline.Sink.base64(),
		Width:          req.Width,
		Height:         req.Height,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples,
		MinSamples:     stats.MinSamples,
		MaxSamplesUsed: stats.MaxSamplesUsed,
		Workers:        stats.Workers,
		PrimitiveCount: pipeline.Scene.GetPrimitiveCount(),
		Luminance:      renderer.CalculateAverageLuminance(pipeline.Sink.img),
	}
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Error marshaling render result: %v", err)
		s.handleError(ctx, sseEventChan, "failed to encode result")
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected; drain so senders never block
			for range sseEventChan {
			}
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// setupRenderingPipeline creates the tracer and renderer for a validated
// scene and camera
func (s *Server) setupRenderingPipeline(req *RenderRequest, sceneObj *scene.Scene, camera *renderer.Camera, logger core.Logger) (*RenderingPipeline, error) {
	logger.Printf("Scene %q: %d surfaces, %d lights\n", sceneObj.Name, sceneObj.GetPrimitiveCount(), len(sceneObj.Lights))

	config := integrator.DefaultConfig()
	config.MaxLevel = req.MaxLevel
	tracer := integrator.NewWhittedTracer(sceneObj, config)

	sink := newPNGSink(req.Width, req.Height)
	r, err := renderer.NewRenderer(camera, tracer, sink, logger)
	if err != nil {
		return nil, err
	}
	return &RenderingPipeline{Scene: sceneObj, Renderer: r, Sink: sink}, nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
