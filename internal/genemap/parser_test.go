package genemap

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTerms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "GO:0006915|GO:0008285", []string{"GO:0006915", "GO:0008285"}},
		{"single", "GO:0006915", []string{"GO:0006915"}},
		{"whitespace trimmed", " GO:0006915 | GO:0008285 ", []string{"GO:0006915", "GO:0008285"}},
		{"empty entries dropped", "GO:0006915||GO:0008285|", []string{"GO:0006915", "GO:0008285"}},
		{"blank", "", nil},
		{"only pipes", "||", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTerms(tt.input))
		})
	}
}

func TestReadAll(t *testing.T) {
	content := `# host gene annotations
TP53	GO:0006915|GO:0008285
BRCA1	GO:0006281
ORPHAN
`
	path := filepath.Join(t.TempDir(), "host.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	genes, err := ReadFile(path)
	require.NoError(t, err)

	require.Len(t, genes, 3)
	assert.Equal(t, []string{"GO:0006915", "GO:0008285"}, genes["TP53"])
	assert.Equal(t, []string{"GO:0006281"}, genes["BRCA1"])
	// A gene with no terms is kept; the scorer excludes it.
	assert.Empty(t, genes["ORPHAN"])
}

func TestReadAllGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.tsv.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("TP53\tGO:0006915\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	genes, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"GO:0006915"}, genes["TP53"])
}

func TestNewParserMissingFile(t *testing.T) {
	_, err := NewParser(filepath.Join(t.TempDir(), "nope.tsv"))
	require.Error(t, err)
}
