package ontology

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpnet/hpsim/internal/obo"
)

func fixtureLoad(t *testing.T) LoadFunc {
	t.Helper()
	return func(ctx context.Context) (*Graph, error) {
		terms, err := obo.Parse(strings.NewReader(tinyOBO))
		if err != nil {
			return nil, err
		}
		return Build(terms)
	}
}

func TestProviderLoadsOnce(t *testing.T) {
	var loads atomic.Int32
	inner := fixtureLoad(t)
	p := NewProvider(func(ctx context.Context) (*Graph, error) {
		loads.Add(1)
		return inner(ctx)
	})

	var wg sync.WaitGroup
	graphs := make([]*Graph, 16)
	for i := range graphs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := p.Graph(context.Background())
			assert.NoError(t, err)
			graphs[i] = g
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load(), "concurrent callers must share one load")
	for _, g := range graphs[1:] {
		assert.Same(t, graphs[0], g, "all callers must see the same graph")
	}
}

func TestProviderRetriesAfterFailure(t *testing.T) {
	var loads atomic.Int32
	inner := fixtureLoad(t)
	p := NewProvider(func(ctx context.Context) (*Graph, error) {
		if loads.Add(1) == 1 {
			return nil, errors.New("source unavailable")
		}
		return inner(ctx)
	})

	_, err := p.Graph(context.Background())
	require.Error(t, err, "first load fails")

	g, err := p.Graph(context.Background())
	require.NoError(t, err, "failure must not be cached")
	assert.NotNil(t, g)
	assert.Equal(t, int32(2), loads.Load())
}

func TestProviderReset(t *testing.T) {
	var loads atomic.Int32
	inner := fixtureLoad(t)
	p := NewProvider(func(ctx context.Context) (*Graph, error) {
		loads.Add(1)
		return inner(ctx)
	})

	g1, err := p.Graph(context.Background())
	require.NoError(t, err)

	p.Reset()

	g2, err := p.Graph(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), loads.Load())
	assert.NotSame(t, g1, g2)
}
