package native

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// primitive selects the topology and vertex layout of a pipeline.
type primitive uint8

const (
	primTriangles primitive = iota // quads and text, position+uv
	primLines                      // grid segments, position+uv
	primStrip                      // spectrum traces, position only
)

func (p primitive) String() string {
	switch p {
	case primTriangles:
		return "triangles"
	case primLines:
		return "lines"
	case primStrip:
		return "strip"
	default:
		return fmt.Sprintf("primitive(%d)", uint8(p))
	}
}

// pipelineKey identifies one render pipeline variant.
type pipelineKey struct {
	prim   primitive
	blend  bool
	format gputypes.TextureFormat
}

// pipelineCache caches render pipelines by variant. Pipelines are
// created on first use with create and released with destroy.
//
// Thread Safety: pipelineCache is safe for concurrent use. It uses
// RWMutex with double-check locking.
type pipelineCache struct {
	mu        sync.RWMutex
	pipelines map[pipelineKey]hal.RenderPipeline

	create  func(pipelineKey) (hal.RenderPipeline, error)
	destroy func(hal.RenderPipeline)

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newPipelineCache(create func(pipelineKey) (hal.RenderPipeline, error), destroy func(hal.RenderPipeline)) *pipelineCache {
	return &pipelineCache{
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
		create:    create,
		destroy:   destroy,
	}
}

// get returns the pipeline for key, creating it if needed.
func (c *pipelineCache) get(key pipelineKey) (hal.RenderPipeline, error) {
	// Fast path: read lock
	c.mu.RLock()
	if p, ok := c.pipelines[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return p, nil
	}
	c.mu.RUnlock()

	// Slow path: write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pipelines[key]; ok {
		c.hits.Add(1)
		return p, nil
	}

	p, err := c.create(key)
	if err != nil {
		return nil, fmt.Errorf("create %v pipeline: %w", key.prim, err)
	}
	c.pipelines[key] = p
	c.misses.Add(1)
	return p, nil
}

// stats returns cache hits and misses.
func (c *pipelineCache) stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// size returns the number of cached pipelines.
func (c *pipelineCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// clear destroys all cached pipelines.
func (c *pipelineCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, p := range c.pipelines {
		if p != nil && c.destroy != nil {
			c.destroy(p)
		}
		delete(c.pipelines, k)
	}
}
