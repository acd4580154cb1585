// Package video implements the hardware-decoded video source (C4): a
// producer shared by file path, delivering the most recent decoded frame
// as source-native BGRA, per spec.md 4.4.
//
// Pipeline construction and lifecycle are grounded directly on the
// corpus's go-gst appsink pattern (helixml-helix's gst_pipeline.go):
// pipeline string, named appsink, buffer-map-then-copy inside the
// NewSampleFunc callback, PTS via ClockTime.AsDuration, keyframe via
// BufferFlagDeltaUnit, bus polling with TimedPop under a context check,
// and a sync.Once-guarded Stop. The caps target here is decoded BGRA
// rather than an H.264 elementary stream, since the daemon consumes
// raster frames (spec.md 4.2's upload contract), not an encoded stream.
package video

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gst/go-gst/gst"
	"github.com/go-gst/go-gst/gst/app"
)

var gstInitOnce sync.Once

// InitGStreamer initializes the GStreamer library exactly once, matching
// spec.md 4.4's "must be idempotent with respect to initialising any
// global video library."
func InitGStreamer() {
	gstInitOnce.Do(func() {
		gst.Init(nil)
	})
}

// Frame is one decoded BGRA raster delivered by the pipeline.
type Frame struct {
	BGRA       []byte
	Width      int
	Height     int
	PTS        time.Duration
	IsKeyframe bool
	Received   time.Time
}

// Source is a shared, by-path video decoder producing BGRA frames at a
// fixed decode resolution (spec.md 4.4: "bound only to its decode
// resolution; per-output scaling is done by the GPU downstream").
type Source struct {
	mu sync.Mutex

	path            string
	decodeW, decodeH int
	fpsCap          float64

	pipeline *gst.Pipeline
	appsink  *app.Sink
	frameCh  chan Frame

	running    atomic.Bool
	paused     atomic.Bool
	stopOnce   sync.Once

	latest       *Frame
	hasNew       atomic.Bool
	dropped      atomic.Uint64
	rendered     atomic.Uint64
	lastRendered time.Time

	detectedFPS float64

	// consumers tracks the set of distinct (w,h) target resolutions
	// requesting scaled output, for the reconciler's de-duplication
	// step (spec.md 4.4/4.9).
	consumers map[[2]int]struct{}
}

// Load constructs a hardware-accelerated decode pipeline for path at the
// given decode resolution.
func Load(path string, decodeW, decodeH int, fpsCap float64) (*Source, error) {
	InitGStreamer()

	pipelineStr := fmt.Sprintf(
		"filesrc location=%q ! decodebin ! videoconvert ! videoscale ! "+
			"video/x-raw,format=BGRA,width=%d,height=%d ! appsink name=videosink",
		path, decodeW, decodeH,
	)

	pipeline, err := gst.NewPipelineFromString(pipelineStr)
	if err != nil {
		return nil, fmt.Errorf("video: parse pipeline: %w", err)
	}

	elem, err := pipeline.GetElementByName("videosink")
	if err != nil {
		pipeline.SetState(gst.StateNull)
		return nil, fmt.Errorf("video: get videosink element: %w", err)
	}
	appsink := app.SinkFromElement(elem)
	if appsink == nil {
		pipeline.SetState(gst.StateNull)
		return nil, fmt.Errorf("video: videosink element is not an appsink")
	}

	s := &Source{
		path:      path,
		decodeW:   decodeW,
		decodeH:   decodeH,
		fpsCap:    fpsCap,
		pipeline:  pipeline,
		appsink:   appsink,
		frameCh:   make(chan Frame, 4),
		consumers: make(map[[2]int]struct{}),
	}
	return s, nil
}

// Play starts the pipeline and begins frame delivery.
func (s *Source) Play(ctx context.Context) error {
	if s.running.Load() {
		s.paused.Store(false)
		return s.pipeline.SetState(gst.StatePlaying)
	}

	s.appsink.SetProperty("emit-signals", true)
	s.appsink.SetProperty("max-buffers", uint(2))
	s.appsink.SetProperty("drop", true)
	s.appsink.SetProperty("sync", false)
	s.appsink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: s.onNewSample,
	})

	if err := s.pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("video: set playing: %w", err)
	}
	s.running.Store(true)
	go s.watchBus(ctx)
	return nil
}

// Pause stops delivering new frames without tearing down the pipeline.
func (s *Source) Pause() error {
	s.paused.Store(true)
	return s.pipeline.SetState(gst.StatePaused)
}

func (s *Source) onNewSample(sink *app.Sink) gst.FlowReturn {
	if !s.running.Load() {
		return gst.FlowEOS
	}
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}
	mapInfo := buffer.Map(gst.MapRead)
	if mapInfo == nil {
		return gst.FlowOK
	}
	defer buffer.Unmap()

	data := make([]byte, len(mapInfo.Bytes()))
	copy(data, mapInfo.Bytes())

	var pts time.Duration
	if d := buffer.PresentationTimestamp().AsDuration(); d != nil {
		pts = *d
	}
	isKeyframe := !buffer.HasFlags(gst.BufferFlagDeltaUnit)

	f := Frame{
		BGRA: data, Width: s.decodeW, Height: s.decodeH,
		PTS: pts, IsKeyframe: isKeyframe, Received: time.Now(),
	}

	// has_new_frame's dropped-counter contract (spec.md 4.4): setting
	// the flag again before it was consumed counts as a drop.
	if s.hasNew.Swap(true) {
		s.dropped.Add(1)
	}
	s.mu.Lock()
	s.latest = &f
	s.mu.Unlock()

	select {
	case s.frameCh <- f:
	default:
	}
	return gst.FlowOK
}

func (s *Source) watchBus(ctx context.Context) {
	bus := s.pipeline.GetPipelineBus()
	if bus == nil {
		return
	}
	for s.running.Load() {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		default:
		}
		msg := bus.TimedPop(gst.ClockTime(100 * time.Millisecond))
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageEOS:
			s.onEOS()
		case gst.MessageError:
			s.onError(msg)
			return
		}
	}
}

// defaultLoop controls whether end-of-stream seeks back to start (true) or
// pauses (false), per spec.md 4.4's update() contract.
var defaultLoop = true

func (s *Source) onEOS() {
	if defaultLoop {
		s.pipeline.SeekSimple(gst.FormatTime, gst.SeekFlagFlush, 0)
	} else {
		s.paused.Store(true)
		s.pipeline.SetState(gst.StatePaused)
	}
}

func (s *Source) onError(msg *gst.Message) {
	s.paused.Store(true)
	s.pipeline.SetState(gst.StatePaused)
}

// HasNewFrame reports true exactly once per produced frame, per spec.md 4.4.
func (s *Source) HasNewFrame() bool {
	return s.hasNew.Swap(false)
}

// CurrentFrameBGRA returns the most recently produced frame, nil if none yet.
func (s *Source) CurrentFrameBGRA() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// FrameDuration is 1/detected_fps if known, else 33ms (spec.md 4.4).
func (s *Source) FrameDuration() time.Duration {
	if s.detectedFPS > 0 {
		return time.Duration(float64(time.Second) / s.detectedFPS)
	}
	return 33 * time.Millisecond
}

// AcceptForPacing applies the pacing hysteresis from spec.md 4.4: a
// freshly delivered frame is rejected if less than frame_duration-2ms has
// elapsed since the last rendered frame.
func (s *Source) AcceptForPacing(now time.Time) bool {
	minGap := s.FrameDuration() - 2*time.Millisecond
	if minGap < 0 {
		minGap = 0
	}
	if now.Sub(s.lastRendered) < minGap {
		return false
	}
	s.lastRendered = now
	s.rendered.Add(1)
	return true
}

// RenderedCount and DroppedCount report the pacing counters (testable
// property 5).
func (s *Source) RenderedCount() uint64 { return s.rendered.Load() }
func (s *Source) DroppedCount() uint64  { return s.dropped.Load() }

// AddConsumer / RemoveConsumer track distinct (w,h) targets, so the
// reconciler can render each unique resolution exactly once per tick
// (spec.md 4.4 resolution de-duplication).
func (s *Source) AddConsumer(w, h int) {
	s.mu.Lock()
	s.consumers[[2]int{w, h}] = struct{}{}
	s.mu.Unlock()
}

func (s *Source) RemoveConsumer(w, h int) {
	s.mu.Lock()
	delete(s.consumers, [2]int{w, h})
	s.mu.Unlock()
}

// ConsumerResolutions returns the distinct (w,h) targets currently registered.
func (s *Source) ConsumerResolutions() [][2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]int, 0, len(s.consumers))
	for k := range s.consumers {
		out = append(out, k)
	}
	return out
}

// Stop tears down the pipeline: clear callbacks first, set Null with a
// bounded wait, drain the bus, clear cached frames, per spec.md 4.4's
// lifecycle order.
func (s *Source) Stop() {
	s.stopOnce.Do(func() {
		s.running.Store(false)
		if s.appsink != nil {
			s.appsink.SetCallbacks(&app.SinkCallbacks{})
		}
		if s.pipeline != nil {
			done := make(chan struct{})
			go func() {
				s.pipeline.SetState(gst.StateNull)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
			}
		}
		s.mu.Lock()
		s.latest = nil
		s.mu.Unlock()
		close(s.frameCh)
	})
}

func (s *Source) IsRunning() bool { return s.running.Load() }
