package annotate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `## ENSEMBL VARIANT EFFECT PREDICTOR v110
## Output produced at 2024-01-01
#Uploaded_variation	SYMBOL	Feature	Protein_position	Amino_acids	HGVSp
rs121913529	KRAS	ENST00000256078	12	G/D	ENSP00000256078.4:p.Gly12Asp
rs587782144	TP53	ENST00000269305	175	R/H	p.Arg175His
rs11549407	HBB	ENST00000335295	-	-	-
1:66926	AUTS2	ENST00000342771	100	A/T
rs999	BRCA2	ENST00000380152	300	K/*	ENSP00000369497.3:p.Lys300Ter
`

func TestParseOutput(t *testing.T) {
	rows, err := ParseOutput(strings.NewReader(sampleOutput))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{
		VariantID: "rs121913529",
		Gene:      "KRAS",
		ProteinID: "ENST00000256078",
		HGVSp:     "ENSP00000256078.4:p.Gly12Asp",
	}, rows[0])

	// Bare p. notations are kept too.
	assert.Equal(t, "p.Arg175His", rows[1].HGVSp)
	assert.Equal(t, "TP53", rows[1].Gene)

	// Placeholder and short rows are dropped.
	assert.Equal(t, "rs999", rows[2].VariantID)
}

func TestParseOutputEmpty(t *testing.T) {
	rows, err := ParseOutput(strings.NewReader("## header only\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUsableHGVSp(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"p.Arg97Cys", true},
		{"ENSP00000256078.4:p.Gly12Asp", true},
		{"-", false},
		{"", false},
		{"c.35G>A", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usableHGVSp(tt.in), tt.in)
	}
}
