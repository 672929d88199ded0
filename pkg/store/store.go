// Package store persists ingested text chunks and their hashed
// embeddings in SQLite, grounded on
// original_source/crates/umap-core/src/db.rs (Db::open/insert_chunk/
// all_chunks/count_chunks), using modernc.org/sqlite — a pure-Go,
// CGo-free driver — in place of the original's rusqlite binding.
package store

import (
	"database/sql"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kestrelhq/semanticmap/internal/reduce/reduceerr"
)

// ChunkRecord is a single persisted, embedded text chunk.
type ChunkRecord struct {
	ID         int64
	Source     string
	ChunkIndex int64
	Text       string
	Dim        int
	Vector     []float32
	CreatedAt  time.Time
}

// Store wraps a SQLite connection holding the chunks table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path and
// ensures its schema exists. enableWAL toggles WAL journal mode, which
// the teacher's database layer also defaults to.
func Open(path string, enableWAL bool) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, reduceerr.NewConfigError("store.Open", "failed to open database at %s: %v", path, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; avoid SQLITE_BUSY churn

	s := &Store{db: db}
	if err := s.init(enableWAL); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(enableWAL bool) error {
	if enableWAL {
		if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
			return reduceerr.NewConfigError("store.init", "failed to enable WAL: %v", err)
		}
	}
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			dim INTEGER NOT NULL,
			vector BLOB NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);
		CREATE INDEX IF NOT EXISTS idx_chunks_chunk_index ON chunks(chunk_index);
	`)
	if err != nil {
		return reduceerr.NewConfigError("store.init", "failed to create schema: %v", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertChunk persists a chunk and its embedding, returning the
// assigned row id.
func (s *Store) InsertChunk(source string, chunkIndex int64, text string, vector []float32) (int64, error) {
	blob := encodeVector(vector)
	res, err := s.db.Exec(
		`INSERT INTO chunks (source, chunk_index, text, dim, vector, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		source, chunkIndex, text, len(vector), blob, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, reduceerr.NewConfigError("store.InsertChunk", "insert failed: %v", err)
	}
	return res.LastInsertId()
}

// AllChunks returns every persisted chunk ordered by id.
func (s *Store) AllChunks() ([]ChunkRecord, error) {
	rows, err := s.db.Query(`SELECT id, source, chunk_index, text, dim, vector, created_at FROM chunks ORDER BY id`)
	if err != nil {
		return nil, reduceerr.NewConfigError("store.AllChunks", "query failed: %v", err)
	}
	defer rows.Close()

	var out []ChunkRecord
	for rows.Next() {
		var (
			rec       ChunkRecord
			blob      []byte
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.ChunkIndex, &rec.Text, &rec.Dim, &blob, &createdAt); err != nil {
			return nil, reduceerr.NewConfigError("store.AllChunks", "scan failed: %v", err)
		}
		vec, err := decodeVector(blob, rec.Dim)
		if err != nil {
			return nil, err
		}
		rec.Vector = vec
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, reduceerr.NewConfigError("store.AllChunks", "row iteration failed: %v", err)
	}
	return out, nil
}

// CountChunks returns the number of persisted chunks.
func (s *Store) CountChunks() (int64, error) {
	var count int64
	row := s.db.QueryRow(`SELECT COUNT(*) FROM chunks`)
	if err := row.Scan(&count); err != nil {
		return 0, reduceerr.NewConfigError("store.CountChunks", "count query failed: %v", err)
	}
	return count, nil
}

func encodeVector(v []float32) []byte {
	blob := make([]byte, len(v)*4)
	for i, f := range v {
		bits := math.Float32bits(f)
		blob[i*4+0] = byte(bits)
		blob[i*4+1] = byte(bits >> 8)
		blob[i*4+2] = byte(bits >> 16)
		blob[i*4+3] = byte(bits >> 24)
	}
	return blob
}

func decodeVector(blob []byte, dim int) ([]float32, error) {
	expected := dim * 4
	if len(blob) != expected {
		return nil, reduceerr.NewShapeError("store.decodeVector", "vector blob length %d does not match declared dim %d (expected %d bytes)", len(blob), dim, expected)
	}
	out := make([]float32, dim)
	for i := 0; i < dim; i++ {
		j := i * 4
		bits := uint32(blob[j]) | uint32(blob[j+1])<<8 | uint32(blob[j+2])<<16 | uint32(blob[j+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}
