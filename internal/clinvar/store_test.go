package clinvar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genorisk/genorisk/internal/ident"
)

const testClinVarCSV = `CHROM,POS,ID,REF,ALT,CLNSIG,GENEINFO,CLNDN
17,43044295,rs80357713,A,G,Pathogenic,BRCA1:672|NBR2:10230,Breast-ovarian_cancer
1,66926,3385321,C,T,Uncertain_significance,OR4F5:79501,not_provided
13,32316461,rs80359550,G,T,Likely_pathogenic,BRCA2:675,Hereditary_cancer
`

const testVariantSummaryCSV = `RSID,GENE,CLNSIG,PHENOTYPE,CHROM,POS
121908936,PAH,Pathogenic,Phenylketonuria,12,102917130
429358,APOE,Risk_factor,Alzheimer_disease,19,44908684
`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	dir := t.TempDir()
	clinvarPath := filepath.Join(dir, "clinvar.csv")
	summaryPath := filepath.Join(dir, "variant_summary.csv")
	require.NoError(t, os.WriteFile(clinvarPath, []byte(testClinVarCSV), 0644))
	require.NoError(t, os.WriteFile(summaryPath, []byte(testVariantSummaryCSV), 0644))

	require.NoError(t, store.LoadClinVar(clinvarPath))
	require.NoError(t, store.LoadVariantSummary(summaryPath))
	return store
}

func TestStoreLoadCounts(t *testing.T) {
	store := newTestStore(t)
	primary, secondary, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(3), primary)
	assert.Equal(t, int64(2), secondary)
}

func TestPrimaryLookupByRsID(t *testing.T) {
	store := newTestStore(t)

	a, err := store.Primary().Lookup(ident.Classify("rs80357713"))
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "17", a.Chrom)
	assert.Equal(t, int64(43044295), a.Pos)
	assert.Equal(t, "A", a.Ref)
	assert.Equal(t, "G", a.Alt)
	assert.Equal(t, "Pathogenic", a.Significance)
	assert.Equal(t, "BRCA1", a.Gene, "GENEINFO should reduce to the leading symbol")
	assert.Equal(t, "Breast-ovarian_cancer", a.Phenotype)
}

func TestPrimaryLookupByCoordinate(t *testing.T) {
	store := newTestStore(t)

	a, err := store.Primary().Lookup(ident.Classify("1:66926"))
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "OR4F5", a.Gene)

	// chr-prefixed coordinates match the unprefixed table.
	a, err = store.Primary().Lookup(ident.Classify("chr1:66926"))
	require.NoError(t, err)
	require.NotNil(t, a)
}

func TestPrimaryLookupByRawID(t *testing.T) {
	store := newTestStore(t)

	a, err := store.Primary().Lookup(ident.Classify("3385321"))
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Uncertain_significance", a.Significance)
}

func TestPrimaryLookupMiss(t *testing.T) {
	store := newTestStore(t)

	a, err := store.Primary().Lookup(ident.Classify("rs999999"))
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestSecondaryLookup(t *testing.T) {
	store := newTestStore(t)

	// The summary table is keyed by bare rs numbers; lookups use the prefixed form.
	a, err := store.Secondary().Lookup(ident.Classify("rs121908936"))
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "rs121908936", a.ID)
	assert.Equal(t, "PAH", a.Gene)

	a, err = store.Secondary().Lookup(ident.Classify("APOE"))
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Risk_factor", a.Significance)
}

func TestResolverAgainstStore(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store.Primary(), store.Secondary())

	// Primary hit: no marker.
	a := r.Resolve("rs80357713")
	require.NotNil(t, a)
	assert.Empty(t, a.Note)

	// Secondary-only hit: degraded-confidence marker.
	a = r.Resolve("rs121908936")
	require.NotNil(t, a)
	assert.Equal(t, NoteLowConfidence, a.Note)

	// Full miss.
	assert.Nil(t, r.Resolve("rs424242"))
}
