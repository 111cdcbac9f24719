package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs closures on a fixed set of goroutines.
//
// Each worker owns a queue and steals from its neighbours when the queue is
// empty, so bands of uneven cost still finish together.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool. Zero or negative workers means GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
		default:
			if fn := p.steal(id); fn != nil {
				fn()
				continue
			}
			select {
			case <-p.done:
				drain(own)
				return
			case fn := <-own:
				fn()
			}
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// Running reports whether the pool accepts work.
func (p *Pool) Running() bool {
	return p.running.Load()
}

// Bands splits [lo, hi) into at most Workers() contiguous ranges of at
// least minRows each and calls fn for every range, returning once all calls
// have finished. Small spans and closed pools run fn inline. Bands must not
// be called from inside fn or concurrently with Close.
func (p *Pool) Bands(lo, hi, minRows int, fn func(lo, hi int)) {
	n := hi - lo
	if n <= 0 {
		return
	}
	minRows = max(minRows, 1)
	bands := min(p.workers, n/minRows)
	if bands <= 1 || !p.running.Load() {
		fn(lo, hi)
		return
	}

	var wg sync.WaitGroup
	wg.Add(bands)
	for i := range bands {
		a := lo + n*i/bands
		b := lo + n*(i+1)/bands
		task := func() {
			defer wg.Done()
			fn(a, b)
		}
		select {
		case p.queues[i%p.workers] <- task:
		case <-p.done:
			// Closed while queuing; finish on the caller.
			task()
		}
	}
	wg.Wait()
}

// Close stops the workers after queued work drains. Close is idempotent.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
