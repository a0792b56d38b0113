// Package index builds the in-memory full-text engine jsonai searches
// against. Each input file gets its own shard: an ephemeral SQLite
// database (opened ":memory:", via the pure-Go modernc.org/sqlite
// driver) holding one FTS5 virtual table whose column set is
// discovered dynamically from the shredded records, via a two-pass
// build strategy. The schema never touches disk and is dropped with
// the shard.
package index

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"jsonai/internal/shred"

	_ "modernc.org/sqlite"
)

// Shard is one file's index. Records are kept in doc_id order in Go
// memory -- the sqlite side only ever needs to hand back doc_ids,
// never payloads, keeping the engine's capability surface narrow.
type Shard struct {
	File    string
	db      *sql.DB
	Records []shred.Record
	byDocID map[int64]*shred.Record
	Fields  []string // discovered leaf field names, dot-joined
}

// Build constructs a shard from file's already-shredded, doc_id-stamped
// records. If schemaFields is non-nil it short-circuits the leaf-path
// discovery pass (the --schema flag).
func Build(file string, records []shred.Record, schemaFields []string) (*Shard, error) {
	fields := schemaFields
	if fields == nil {
		fields = shred.LeafPaths(records)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory index: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db, fields); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	byDocID := make(map[int64]*shred.Record, len(records))
	stmt, err := prepareInsert(db, fields)
	if err != nil {
		db.Close()
		return nil, err
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		byDocID[r.DocID] = r
		args := insertArgs(r, fields)
		if _, err := stmt.Exec(args...); err != nil {
			db.Close()
			return nil, fmt.Errorf("indexing doc %d: %w", r.DocID, err)
		}
	}

	return &Shard{File: file, db: db, Records: records, byDocID: byDocID, Fields: fields}, nil
}

// Close releases the shard's in-memory database.
func (s *Shard) Close() error {
	return s.db.Close()
}

// RecordByDocID looks up a shredded record by its doc_id.
func (s *Shard) RecordByDocID(id int64) (*shred.Record, bool) {
	r, ok := s.byDocID[id]
	return r, ok
}

// HasField reports whether field was discovered in this shard. A
// field name not present in any record is treated as zero matches,
// not an error.
func (s *Shard) HasField(field string) bool {
	if field == allField {
		return true
	}
	for _, f := range s.Fields {
		if f == field {
			return true
		}
	}
	return false
}

const allField = "__all__"

// quoteColumn quotes a field name as a SQL/FTS5 identifier. Dotted
// field names (e.g. "app.author") are not valid bare identifiers, so
// every discovered field is double-quoted on both CREATE and MATCH.
func quoteColumn(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createSchema(db *sql.DB, fields []string) error {
	cols := make([]string, 0, len(fields)+2)
	cols = append(cols, "doc_id UNINDEXED")
	for _, f := range fields {
		cols = append(cols, quoteColumn(f))
	}
	cols = append(cols, quoteColumn(allField))

	stmt := fmt.Sprintf(
		`CREATE VIRTUAL TABLE records_fts USING fts5(%s, tokenize = 'unicode61 remove_diacritics 1')`,
		strings.Join(cols, ", "),
	)
	_, err := db.Exec(stmt)
	return err
}

func prepareInsert(db *sql.DB, fields []string) (*sql.Stmt, error) {
	cols := make([]string, 0, len(fields)+2)
	placeholders := make([]string, 0, len(fields)+2)
	cols = append(cols, "doc_id")
	placeholders = append(placeholders, "?")
	for _, f := range fields {
		cols = append(cols, quoteColumn(f))
		placeholders = append(placeholders, "?")
	}
	cols = append(cols, quoteColumn(allField))
	placeholders = append(placeholders, "?")

	stmt := fmt.Sprintf(
		"INSERT INTO records_fts (%s) VALUES (%s)",
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
	return db.Prepare(stmt)
}

func insertArgs(r *shred.Record, fields []string) []interface{} {
	args := make([]interface{}, 0, len(fields)+2)
	args = append(args, r.DocID)
	for _, f := range fields {
		args = append(args, tokenizedFieldText(r, f))
	}
	args = append(args, r.IndexedText[allField])
	return args
}

// tokenizedFieldText returns a field's indexed text (its literal
// values, already space-joined by internal/shred), or "" when the
// record has no value for the field; FTS5's own tokenizer splits it.
func tokenizedFieldText(r *shred.Record, field string) string {
	if text, ok := r.IndexedText[field]; ok {
		return text
	}
	return ""
}

// MatchDocIDs runs an FTS5 MATCH query (built by internal/query for
// "text" mode) against this shard and returns matching doc_ids with
// their bm25-derived score, best match first. limit<=0 means
// unbounded -- SQLite's own LIMIT -1 is "no limit", which is NOT the
// same as LIMIT 0 ("zero rows"), so a non-positive limit here is
// translated to -1 rather than passed through literally.
func (s *Shard) MatchDocIDs(matchExpr string, limit int) ([]ScoredDoc, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT doc_id, bm25(records_fts) AS rank FROM records_fts WHERE records_fts MATCH ? ORDER BY rank LIMIT ?`,
		matchExpr, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var out []ScoredDoc
	for rows.Next() {
		var docID int64
		var rank float64
		if err := rows.Scan(&docID, &rank); err != nil {
			return nil, err
		}
		// bm25 is more negative for better matches; invert so higher
		// is better, matching the rest of the pipeline's score sense.
		out = append(out, ScoredDoc{DocID: docID, Score: float32(-rank)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DocID < out[j].DocID
	})
	return out, nil
}

// ScoredDoc pairs a doc_id with its relevance score.
type ScoredDoc struct {
	DocID int64
	Score float32
}

// QuoteFTSColumn is exported so internal/query can build MATCH
// expressions referencing the same quoted identifiers this package
// creates the schema with.
func QuoteFTSColumn(name string) string { return quoteColumn(name) }

// AllFieldName is the synthetic field name for "--all" mode.
const AllFieldName = allField
