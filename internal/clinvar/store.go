// Package clinvar provides clinical-significance lookups for variants,
// backed by DuckDB reference tables with a primary/secondary fallback chain.
package clinvar

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/genorisk/genorisk/internal/ident"
)

// Store provides clinical annotation lookups backed by DuckDB.
// It holds two reference tables: the authoritative clinvar table and the
// lower-confidence variant_summary table used for fallback.
type Store struct {
	db *sql.DB
}

// Open opens or creates a DuckDB database for clinical data at the given path.
// An empty path opens an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS clinvar (
		chrom VARCHAR,
		pos BIGINT,
		id VARCHAR,
		rsid VARCHAR,
		ref VARCHAR,
		alt VARCHAR,
		clnsig VARCHAR,
		geneinfo VARCHAR,
		phenotype VARCHAR
	)`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS variant_summary (
		rsid VARCHAR,
		gene VARCHAR,
		clnsig VARCHAR,
		phenotype VARCHAR,
		chrom VARCHAR,
		pos BIGINT
	)`); err != nil {
		return err
	}
	// Indexes for point lookups
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_clinvar_rsid ON clinvar (rsid)`)
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_clinvar_pos ON clinvar (chrom, pos)`)
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_vs_rsid ON variant_summary (rsid)`)
	return nil
}

// LoadClinVar bulk-loads the primary clinvar table from a CSV with columns
// CHROM,POS,ID,REF,ALT,CLNSIG,GENEINFO,CLNDN. Reload replaces existing rows.
func (s *Store) LoadClinVar(csvPath string) error {
	s.db.Exec(`DELETE FROM clinvar`)

	query := fmt.Sprintf(`INSERT INTO clinvar
		SELECT CHROM, CAST(POS AS BIGINT), CAST(ID AS VARCHAR),
			CASE WHEN CAST(ID AS VARCHAR) LIKE 'rs%%' THEN CAST(ID AS VARCHAR) ELSE NULL END,
			REF, ALT, CLNSIG, GENEINFO, CLNDN
		FROM read_csv('%s', header=true, all_varchar=true)`, csvPath)

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("loading clinvar data: %w", err)
	}
	return nil
}

// LoadVariantSummary bulk-loads the secondary variant_summary table from a
// CSV with columns RSID,GENE,CLNSIG,PHENOTYPE,CHROM,POS. The rsid column
// holds bare dbSNP numbers without the rs prefix.
func (s *Store) LoadVariantSummary(csvPath string) error {
	s.db.Exec(`DELETE FROM variant_summary`)

	query := fmt.Sprintf(`INSERT INTO variant_summary
		SELECT RSID, GENE, CLNSIG, PHENOTYPE, CHROM, CAST(POS AS BIGINT)
		FROM read_csv('%s', header=true, all_varchar=true)`, csvPath)

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("loading variant summary data: %w", err)
	}
	return nil
}

// Counts returns the number of rows in the primary and secondary tables.
func (s *Store) Counts() (primary, secondary int64, err error) {
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM clinvar`).Scan(&primary); err != nil {
		return 0, 0, fmt.Errorf("count clinvar rows: %w", err)
	}
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM variant_summary`).Scan(&secondary); err != nil {
		return 0, 0, fmt.Errorf("count variant summary rows: %w", err)
	}
	return primary, secondary, nil
}

// Primary returns the authoritative clinvar table view.
func (s *Store) Primary() Table {
	return &primaryTable{db: s.db}
}

// Secondary returns the lower-confidence variant_summary table view.
func (s *Store) Secondary() Table {
	return &secondaryTable{db: s.db}
}

// primaryTable looks up the clinvar table by id, rs id or coordinate.
type primaryTable struct {
	db *sql.DB
}

func (t *primaryTable) Lookup(id ident.Identifier) (*Annotation, error) {
	var row *sql.Row
	switch id.Kind {
	case ident.KindRsID:
		row = t.db.QueryRow(
			`SELECT chrom, pos, id, ref, alt, clnsig, geneinfo, phenotype FROM clinvar WHERE rsid = ? LIMIT 1`,
			id.RsID)
	case ident.KindCoordinate:
		row = t.db.QueryRow(
			`SELECT chrom, pos, id, ref, alt, clnsig, geneinfo, phenotype FROM clinvar WHERE chrom = ? AND pos = ? LIMIT 1`,
			strings.TrimPrefix(id.Chrom, "chr"), id.Pos)
	default:
		// Best-effort match against the raw accession column.
		row = t.db.QueryRow(
			`SELECT chrom, pos, id, ref, alt, clnsig, geneinfo, phenotype FROM clinvar WHERE id = ? LIMIT 1`,
			id.Raw)
	}

	var a Annotation
	var geneinfo string
	err := row.Scan(&a.Chrom, &a.Pos, &a.ID, &a.Ref, &a.Alt, &a.Significance, &geneinfo, &a.Phenotype)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clinvar lookup: %w", err)
	}
	a.Gene = firstGene(geneinfo)
	return &a, nil
}

// secondaryTable looks up the variant_summary table, keyed by bare rs number
// or gene symbol.
type secondaryTable struct {
	db *sql.DB
}

func (t *secondaryTable) Lookup(id ident.Identifier) (*Annotation, error) {
	var row *sql.Row
	switch id.Kind {
	case ident.KindRsID:
		row = t.db.QueryRow(
			`SELECT chrom, pos, rsid, clnsig, gene, phenotype FROM variant_summary WHERE rsid = ? LIMIT 1`,
			ident.NormalizeRs(id.RsID))
	case ident.KindGeneSymbol:
		row = t.db.QueryRow(
			`SELECT chrom, pos, rsid, clnsig, gene, phenotype FROM variant_summary WHERE gene = ? LIMIT 1`,
			id.Gene)
	default:
		return nil, nil
	}

	var a Annotation
	var rsid string
	err := row.Scan(&a.Chrom, &a.Pos, &rsid, &a.Significance, &a.Gene, &a.Phenotype)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("variant summary lookup: %w", err)
	}
	if rsid != "" {
		a.ID = "rs" + ident.NormalizeRs(rsid)
	}
	return &a, nil
}

// firstGene extracts the leading gene symbol from a ClinVar GENEINFO value
// such as "BRCA1:672|NBR2:10230".
func firstGene(geneinfo string) string {
	if geneinfo == "" {
		return ""
	}
	if idx := strings.IndexByte(geneinfo, '|'); idx >= 0 {
		geneinfo = geneinfo[:idx]
	}
	if idx := strings.IndexByte(geneinfo, ':'); idx >= 0 {
		geneinfo = geneinfo[:idx]
	}
	return geneinfo
}
