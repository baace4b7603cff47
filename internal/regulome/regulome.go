// Package regulome provides regulatory-impact lookups against a RegulomeDB
// style reference table backed by DuckDB.
package regulome

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// Outcome distinguishes the terminal states of a regulatory lookup. Misses
// and malformed queries are ordinary outcomes, never errors.
type Outcome int

const (
	Found Outcome = iota
	NotFound
	InvalidInput
	LookupError
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "Found"
	case NotFound:
		return "Not Found"
	case InvalidInput:
		return "Invalid input"
	case LookupError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Score is one regulatory annotation row. Ranking is ordinal: "1a" strongest
// evidence through "6" weakest.
type Score struct {
	Chrom       string  `json:"chrom"`
	Start       int64   `json:"start"`
	End         int64   `json:"end"`
	RsID        string  `json:"rsid"`
	Ranking     string  `json:"ranking"`
	Probability float64 `json:"probability_score"`
}

// Result pairs an outcome with the score present only when Outcome is Found.
type Result struct {
	Outcome Outcome
	Score   *Score
}

// MarshalJSON renders the outcome as its display string so clients see
// "Not Found" rather than an enum ordinal.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Outcome string `json:"outcome"`
		Score   *Score `json:"score,omitempty"`
	}{Outcome: r.Outcome.String(), Score: r.Score})
}

// Query identifies a genomic position or region to look up. Either RsID or
// Chrom+Start must be set; End defaults to Start when omitted.
type Query struct {
	RsID  string
	Chrom string
	Start int64
	End   int64
}

// Resolver looks up regulatory scores in the backing store.
type Resolver struct {
	store  *Store
	logger *zap.Logger
}

// NewResolver creates a resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store, logger: zap.NewNop()}
}

// SetLogger sets the logger for warning messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Resolve looks up a regulatory score. Incomplete queries yield InvalidInput,
// a true miss yields NotFound, and any lookup-layer fault is caught and
// yields LookupError; none of these abort the caller's batch.
func (r *Resolver) Resolve(q Query) Result {
	if q.RsID == "" && (q.Chrom == "" || q.Start == 0) {
		return Result{Outcome: InvalidInput}
	}

	if q.RsID != "" {
		score, err := r.store.lookupRsID(q.RsID)
		if err != nil {
			r.logger.Warn("regulome lookup failed", zap.String("rsid", q.RsID), zap.Error(err))
			return Result{Outcome: LookupError}
		}
		if score != nil {
			return Result{Outcome: Found, Score: score}
		}
		// Fall through to a positional lookup when possible.
	}

	if q.Chrom == "" || q.Start == 0 {
		return Result{Outcome: NotFound}
	}

	end := q.End
	if end == 0 {
		end = q.Start
	}
	score, err := r.store.lookupRegion(q.Chrom, q.Start, end)
	if err != nil {
		r.logger.Warn("regulome lookup failed",
			zap.String("chrom", q.Chrom),
			zap.Int64("start", q.Start),
			zap.Error(err))
		return Result{Outcome: LookupError}
	}
	if score == nil {
		return Result{Outcome: NotFound}
	}
	return Result{Outcome: Found, Score: score}
}

// Store provides regulome table access backed by DuckDB.
type Store struct {
	db *sql.DB
}

// Open opens or creates a DuckDB database for regulome data at the given
// path. An empty path opens an in-memory database.
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
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS regulome (
		chrom VARCHAR,
		start BIGINT,
		stop BIGINT,
		rsid VARCHAR,
		ranking VARCHAR,
		probability_score DOUBLE
	)`); err != nil {
		return err
	}
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_regulome_rsid ON regulome (rsid)`)
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_regulome_pos ON regulome (chrom, start)`)
	return nil
}

// Load bulk-loads regulome data from a CSV with columns
// chrom,start,end,rsid,ranking,probability_score. Reload replaces existing rows.
func (s *Store) Load(csvPath string) error {
	s.db.Exec(`DELETE FROM regulome`)

	query := fmt.Sprintf(`INSERT INTO regulome
		SELECT chrom, CAST(start AS BIGINT), CAST("end" AS BIGINT), rsid,
			CAST(ranking AS VARCHAR), CAST(probability_score AS DOUBLE)
		FROM read_csv('%s', header=true, all_varchar=true)`, csvPath)

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("loading regulome data: %w", err)
	}
	return nil
}

// Count returns the number of rows in the regulome table.
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM regulome`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count regulome rows: %w", err)
	}
	return count, nil
}

func (s *Store) lookupRsID(rsid string) (*Score, error) {
	row := s.db.QueryRow(
		`SELECT chrom, start, stop, rsid, ranking, probability_score
		 FROM regulome WHERE rsid = ? LIMIT 1`, rsid)
	return scanScore(row)
}

func (s *Store) lookupRegion(chrom string, start, end int64) (*Score, error) {
	row := s.db.QueryRow(
		`SELECT chrom, start, stop, rsid, ranking, probability_score
		 FROM regulome WHERE chrom = ? AND start <= ? AND stop >= ? LIMIT 1`,
		normalizeChrom(chrom), end, start)
	return scanScore(row)
}

func scanScore(row *sql.Row) (*Score, error) {
	var sc Score
	err := row.Scan(&sc.Chrom, &sc.Start, &sc.End, &sc.RsID, &sc.Ranking, &sc.Probability)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan regulome row: %w", err)
	}
	return &sc, nil
}

// The reference table stores chromosomes with the chr prefix.
func normalizeChrom(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom
	}
	return "chr" + chrom
}
