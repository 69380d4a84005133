package engine

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// workChunk is a range of particle indices for one worker, plus the
// frame-constant inputs of the pass.
type workChunk struct {
	start, end int
	dt         float32
	wind       mgl32.Vec3
	haveWind   bool
}

// workerPool runs the integration pass across persistent goroutines. Chunks
// cover disjoint index ranges, so writes to position/velocity never alias.
// Chunk w always goes to worker w over its own channel, and worker w owns a
// derived RNG, so the turbulence noise a given index range receives is fixed
// by the engine seed and worker count, not by goroutine scheduling.
type workerPool struct {
	engine     *Engine
	numWorkers int
	rngs       []*rand.Rand

	workChans []chan workChunk
	doneChan  chan struct{}
	stopChan  chan struct{}
	wg        sync.WaitGroup
	running   bool
}

func newWorkerPool(e *Engine, workers int, seedSource *rand.Rand) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	// One draw from the engine source regardless of worker count, so the
	// engine's random stream (shape sampling, impulses) does not depend on
	// how the integration pass is parallelized.
	base := seedSource.Int63()
	rngs := make([]*rand.Rand, workers)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(base + int64(i)))
	}
	return &workerPool{
		engine:     e,
		numWorkers: workers,
		rngs:       rngs,
	}
}

// integrate runs one full pass over the buffer, fanning out only when the
// swarm is large enough to beat goroutine overhead.
func (p *workerPool) integrate(dt float32, wind mgl32.Vec3, haveWind bool) {
	n := p.engine.buf.Count()
	if n == 0 {
		return
	}
	if p.numWorkers == 1 || n < p.engine.params.ParallelThreshold {
		p.engine.integrateChunk(0, n, dt, wind, haveWind, p.engine.rng)
		return
	}
	p.dispatch(n, dt, wind, haveWind)
}

func (p *workerPool) dispatch(n int, dt float32, wind mgl32.Vec3, haveWind bool) {
	if !p.running {
		p.start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChans[w] <- workChunk{start: start, end: end, dt: dt, wind: wind, haveWind: haveWind}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// start launches the persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}
	p.workChans = make([]chan workChunk, p.numWorkers)
	for i := range p.workChans {
		p.workChans[i] = make(chan workChunk, 1)
	}
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	for _, ch := range p.workChans {
		close(ch)
	}
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker(id int) {
	defer p.wg.Done()
	rng := p.rngs[id]
	work := p.workChans[id]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-work:
			if !ok {
				return
			}
			p.engine.integrateChunk(chunk.start, chunk.end, chunk.dt, chunk.wind, chunk.haveWind, rng)
			p.doneChan <- struct{}{}
		}
	}
}
