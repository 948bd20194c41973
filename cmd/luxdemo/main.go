// Command luxdemo renders a procedural test scene through the lux engine
// and writes the result to a PNG. It is a wiring demo, not a renderer:
// the built-in tracer just converges noisy gradients so the progressive
// machinery has something to chew on.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"math"
	"os"
	"sync"

	"github.com/gogpu/lux"
	"github.com/gogpu/lux/device"
	"github.com/gogpu/lux/frame"
	"github.com/gogpu/lux/settings"
	"github.com/gogpu/lux/tracer"
)

func main() {
	var (
		width    = flag.Int("width", 800, "image width")
		height   = flag.Int("height", 600, "image height")
		samples  = flag.Int("samples", 0, "sample budget (0 uses settings)")
		output   = flag.String("output", "demo.png", "output file")
		cfgPath  = flag.String("settings", "", "settings file (yaml)")
		listDevs = flag.Bool("devices", false, "list devices and exit")
	)
	flag.Parse()

	if *listDevs {
		for _, d := range device.Available() {
			fmt.Println(d)
		}
		return
	}

	cfg := settings.Default()
	if *cfgPath != "" {
		cfg = settings.Load(*cfgPath)
	}
	if *samples > 0 {
		cfg.Samples = *samples
	}

	target, err := frame.NewBitmapTarget(*width, *height, frame.WithGamma(float32(cfg.Gamma)))
	if err != nil {
		log.Fatalf("create target: %v", err)
	}

	engine, err := lux.New(
		lux.WithFactory(demoFactory{}),
		lux.WithTarget(target),
		lux.WithSettings(cfg),
		lux.WithSamples(cfg.Samples),
		lux.WithDocument(*output),
	)
	if err != nil {
		log.Fatalf("create engine: %v", err)
	}

	status, cancel := engine.Status()
	go func() {
		for s := range status {
			fmt.Printf("\r%-60s", s.Text)
		}
	}()

	if err := engine.Start(); err != nil {
		log.Fatalf("start: %v", err)
	}
	if err := engine.Wait(); err != nil {
		log.Fatalf("render: %v", err)
	}
	cancel()
	fmt.Println()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, target.Image()); err != nil {
		log.Fatalf("encode: %v", err)
	}
	log.Printf("wrote %s (%dx%d, %d samples)", *output, *width, *height, engine.Samples())
}

// demoFactory builds the toy in-process tracer.
type demoFactory struct{}

func (demoFactory) CreateScene(device.Device) (tracer.SceneWriter, error) {
	return &demoScene{}, nil
}

func (demoFactory) CreateSession(_ tracer.SceneWriter, params tracer.SessionParams, cb tracer.Callbacks) (tracer.Session, error) {
	return &demoSession{params: params, cb: cb}, nil
}

// demoScene accepts uploads and forgets them.
type demoScene struct{}

func (*demoScene) UpsertMesh(tracer.EntityID, tracer.Mesh) error               { return nil }
func (*demoScene) DeleteMesh(tracer.EntityID) error                            { return nil }
func (*demoScene) UpsertLight(tracer.EntityID, tracer.Light) error             { return nil }
func (*demoScene) DeleteLight(tracer.EntityID) error                           { return nil }
func (*demoScene) UpsertShader(tracer.EntityID, tracer.Shader) error           { return nil }
func (*demoScene) DeleteShader(tracer.EntityID) error                          { return nil }
func (*demoScene) UpsertCamera(tracer.EntityID, tracer.Camera) error           { return nil }
func (*demoScene) DeleteCamera(tracer.EntityID) error                          { return nil }
func (*demoScene) UpsertEnvironment(tracer.EntityID, tracer.Environment) error { return nil }
func (*demoScene) DeleteEnvironment(tracer.EntityID) error                     { return nil }
func (*demoScene) Free()                                                       {}

// demoSession accumulates jittered gradient samples, one full-frame pass
// per Sample call, and reports tiles the way a real path tracer would.
type demoSession struct {
	params tracer.SessionParams
	cb     tracer.Callbacks

	mu      sync.Mutex
	accum   []float32
	w, h    int
	budget  int
	samples int
	paused  bool
}

func (s *demoSession) Reset(w, h, samples int) error {
	s.mu.Lock()
	s.w, s.h = w, h
	s.budget = samples
	s.samples = 0
	s.accum = make([]float32, w*h*4)
	s.mu.Unlock()
	return nil
}

func (s *demoSession) Sample() (bool, error) {
	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()
		return true, nil
	}
	s.samples++
	n := s.samples
	w, h := s.w, s.h
	inv := 1 / float32(n)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			r, g, b := shade(x, y, w, h, n)
			s.accum[i] += r
			s.accum[i+1] += g
			s.accum[i+2] += b
			s.accum[i+3] += 1
		}
	}
	snap := make([]float32, len(s.accum))
	for i, v := range s.accum {
		snap[i] = v * inv
	}
	budget := s.budget
	s.mu.Unlock()

	if s.cb.TileWrite != nil {
		s.cb.TileWrite(1, tracer.Tile{
			X: 0, Y: 0, W: w, H: h, Depth: n,
			FrameW: w, FrameH: h, Pixels: snap,
		})
	}
	if s.cb.Update != nil {
		s.cb.Update(1, tracer.Progress{Status: "Rendering", Samples: n})
	}
	if s.cb.TestCancel != nil && s.cb.TestCancel(1) {
		return false, nil
	}
	return n < budget, nil
}

func (s *demoSession) Cancel(string) {}

func (s *demoSession) SetPause(paused bool) {
	s.mu.Lock()
	s.paused = paused
	s.mu.Unlock()
}

func (s *demoSession) SetSamples(n int) {
	s.mu.Lock()
	s.budget = n
	s.mu.Unlock()
}

func (s *demoSession) Destroy() error { return nil }

// shade is a smooth two-axis gradient plus per-sample hash jitter, so
// early passes look noisy and later passes converge.
func shade(x, y, w, h, sample int) (r, g, b float32) {
	u := float32(x) / float32(w)
	v := float32(y) / float32(h)
	j := jitter(uint32(x), uint32(y), uint32(sample))
	return u + j*0.2, v + j*0.2, 0.5 + j*0.2
}

// jitter is a tiny hash-based noise source in [-1, 1).
func jitter(x, y, s uint32) float32 {
	n := x*374761393 + y*668265263 + s*2246822519
	n = (n ^ (n >> 13)) * 1274126177
	n ^= n >> 16
	return float32(n)/float32(math.MaxUint32)*2 - 1
}
