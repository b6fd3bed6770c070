package ontology

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces a built graph, typically by fetching and parsing the
// OBO source.
type LoadFunc func(ctx context.Context) (*Graph, error)

// Provider owns the process-wide graph. The first caller triggers the load;
// concurrent callers arriving before completion await the same in-flight
// attempt. A failed load is not cached, so the next call retries from
// scratch. Once built, the graph is immutable.
type Provider struct {
	load LoadFunc

	group singleflight.Group
	mu    sync.RWMutex
	graph *Graph
}

// NewProvider creates a provider around the given load function.
func NewProvider(load LoadFunc) *Provider {
	return &Provider{load: load}
}

// Graph returns the shared graph, loading it on first use.
func (p *Provider) Graph(ctx context.Context) (*Graph, error) {
	p.mu.RLock()
	g := p.graph
	p.mu.RUnlock()
	if g != nil {
		return g, nil
	}

	v, err, _ := p.group.Do("ontology", func() (any, error) {
		// Re-check: a previous flight may have completed between the
		// read above and joining this one.
		p.mu.RLock()
		cached := p.graph
		p.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		g, err := p.load(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.graph = g
		p.mu.Unlock()
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Graph), nil
}

// Reset discards the cached graph so the next call reloads. Intended for
// test isolation and explicit reload.
func (p *Provider) Reset() {
	p.mu.Lock()
	p.graph = nil
	p.mu.Unlock()
}
