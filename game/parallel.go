package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/neural"
)

// parallelThreshold is the minimum acting-agent count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// agentSnapshot captures read-only state for parallel sensing.
type agentSnapshot struct {
	id          uint32
	pos         components.Position
	energy      components.Energy
	detectRange int
	brain       *neural.Brain
}

// workChunk represents a range of snapshots for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for parallel sensing.
type parallelState struct {
	snapshots  []agentSnapshot
	decisions  []decision
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// decideParallel computes every agent's decision for the tick against the
// tick-start grid. Act rolls are drawn serially in ID order; scan and
// forward pass run on the worker pool. The result is aligned with order.
func (g *Game) decideParallel(order []ecs.Entity) []decision {
	p := g.parallel
	decisions := make([]decision, len(order))

	// Phase A: roll and snapshot (single-threaded)
	p.snapshots = p.snapshots[:0]
	index := make([]int, 0, len(order))
	for i, e := range order {
		pos, energy, agent := g.agentMapper.Get(e)
		if energy.Value <= 0 {
			continue // starves at its update
		}
		if g.rng.Float64() >= agent.Speed {
			continue
		}
		decisions[i].act = true
		p.snapshots = append(p.snapshots, agentSnapshot{
			id:          agent.ID,
			pos:         *pos,
			energy:      *energy,
			detectRange: agent.DetectRange,
			brain:       g.brains[agent.ID],
		})
		index = append(index, i)
	}

	n := len(p.snapshots)
	if cap(p.decisions) < n {
		p.decisions = make([]decision, n)
	}
	p.decisions = p.decisions[:n]

	// Phase B: sense and think
	if n < parallelThreshold {
		g.computeChunk(0, n)
	} else {
		g.computeParallel(n)
	}

	// Phase C: scatter back to agent order
	for j, i := range index {
		decisions[i] = p.decisions[j]
	}
	return decisions
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int) {
	p := g.parallel
	if !p.running {
		p.startWorkers(g)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// computeChunk senses and thinks for a range of snapshots. It only reads
// the grid and writes its own slots of the decision buffer.
func (g *Game) computeChunk(i0, i1 int) {
	p := g.parallel
	for i := i0; i < i1; i++ {
		snap := &p.snapshots[i]
		inputs := g.sense(snap.pos, snap.energy, snap.detectRange)
		dx, dy, err := g.decide(snap.brain, snap.id, inputs)
		p.decisions[i] = decision{act: true, dx: dx, dy: dy, err: err}
	}
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
