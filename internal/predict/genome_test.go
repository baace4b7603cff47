package predict

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGenome(t *testing.T, content string) *FASTAGenome {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.fa")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	g := NewFASTAGenome(path)
	require.NoError(t, g.Load())
	return g
}

func TestGenomeLoad(t *testing.T) {
	g := writeGenome(t, ">chr1 test\nACGT\nACGT\n>2 dna:chromosome\nTTTT\n")
	assert.Equal(t, 2, g.SequenceCount())
	// chr prefix is normalized on both sides
	assert.Equal(t, "ACGTACGT", g.Window("1", 5, 8))
	assert.Equal(t, "ACGTACGT", g.Window("chr1", 5, 8))
	assert.Equal(t, "TTTT", g.Window("2", 3, 4))
}

func TestWindowPadding(t *testing.T) {
	g := writeGenome(t, ">1\nACGTACGT\n")

	tests := []struct {
		name string
		pos  int
		size int
		want string
	}{
		{"left edge pads with N", 1, 6, "NNNACG"},
		{"right edge pads with N", 8, 6, "ACGTNN"},
		{"past right edge", 8, 10, "GTACGTNNNN"},
		{"centered", 4, 4, "CGTA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Window("1", tt.pos, tt.size)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, tt.size)
		})
	}
}

func TestWindowUnknownChrom(t *testing.T) {
	g := writeGenome(t, ">1\nACGT\n")
	got := g.Window("99", 100, 10)
	assert.Equal(t, strings.Repeat("N", 10), got)
}

func TestWindowLowercaseInput(t *testing.T) {
	g := writeGenome(t, ">1\nacgt\n")
	assert.Equal(t, "ACGT", g.Window("1", 3, 4))
}
