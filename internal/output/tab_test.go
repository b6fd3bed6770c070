package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpnet/hpsim/internal/semsim"
)

func TestTabWriter(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)

	require.NoError(t, tw.WriteHeader())
	require.NoError(t, tw.Write(semsim.ScoredPair{
		HostGene:      "TP53",
		PathogenGene:  "sopB",
		HostTerms:     []string{"GO:0006915", "GO:0008285"},
		PathogenTerms: []string{"GO:0006915"},
		Score:         0.489,
	}))
	require.NoError(t, tw.Flush())

	want := "#Host_gene\tPathogen_gene\tHost_terms\tPathogen_terms\tScore\n" +
		"TP53\tsopB\tGO:0006915|GO:0008285\tGO:0006915\t0.489\n"
	assert.Equal(t, want, buf.String())
}
