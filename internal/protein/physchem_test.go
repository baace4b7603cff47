package protein

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDeltasIdenticalSequences(t *testing.T) {
	seq := "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ"
	d := ComputeDeltas(seq, seq)
	assert.Equal(t, Deltas{}, d)
}

func TestComputeDeltasSubstitution(t *testing.T) {
	// G -> W adds mass and one aromatic residue.
	wild := "MKTGYIAKQR"
	mut := "MKTWYIAKQR"
	d := ComputeDeltas(wild, mut)

	assert.InDelta(t, 129.16, d.MolecularWeight, 0.01)
	assert.InDelta(t, 0.1, d.Aromaticity, 0.0001)
	assert.Less(t, d.Gravy, 0.0)
}

func TestMolecularWeight(t *testing.T) {
	// Single free glycine.
	assert.InDelta(t, 75.07, MolecularWeight("G"), 0.01)
	// Dipeptide loses one water.
	assert.InDelta(t, 2*75.0666-waterMass, MolecularWeight("GG"), 0.01)
	assert.Equal(t, 0.0, MolecularWeight(""))
}

func TestAromaticity(t *testing.T) {
	assert.Equal(t, 0.0, Aromaticity("GGGG"))
	assert.Equal(t, 0.5, Aromaticity("GFGW"))
	assert.Equal(t, 1.0, Aromaticity("FWY"))
}

func TestGravy(t *testing.T) {
	// Single isoleucine is the most hydrophobic residue.
	assert.InDelta(t, 4.5, Gravy("I"), 0.0001)
	// Mixed sequence averages the per-residue values.
	assert.InDelta(t, (4.5-4.5)/2, Gravy("IR"), 0.0001)
}

func TestIsoelectricPoint(t *testing.T) {
	// Basic sequences have a high pI, acidic sequences a low one.
	basic := IsoelectricPoint("KKKKKKKK")
	acidic := IsoelectricPoint("DDDDDDDD")
	assert.Greater(t, basic, 9.0)
	assert.Less(t, acidic, 4.5)
}

func TestInstabilityIndexShortSequence(t *testing.T) {
	assert.Equal(t, 0.0, InstabilityIndex("M"))
	assert.Equal(t, 0.0, InstabilityIndex(""))
}
