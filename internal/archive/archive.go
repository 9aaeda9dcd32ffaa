/*
Package archive
File: archive.go
Description:
    Optional persistence for galaxy snapshots. Nothing in the simulation
    depends on it; it only serializes GalaxySnapshot values.

    Snapshots are JSON-encoded, zstd-compressed and appended to a SQLite
    table keyed by (run_id, tick). Writes go through a single writer
    goroutine fed by a channel, so the tick loop never blocks on disk and
    the database sees one writer only.
*/

package archive

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	run_id     TEXT    NOT NULL,
	tick       INTEGER NOT NULL,
	taken_at   INTEGER NOT NULL,
	sha256     TEXT    NOT NULL,
	body_zstd  BLOB    NOT NULL,
	PRIMARY KEY (run_id, tick)
);
`

// Store archives snapshots for one simulation run.
type Store struct {
	db    *sql.DB
	runID string
	log   *zap.Logger

	enc *zstd.Encoder

	ch   chan game.GalaxySnapshot
	wg   sync.WaitGroup
	once sync.Once
}

// Open creates (or reuses) the archive database at path and registers a
// fresh run id.
func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init zstd: %w", err)
	}

	runID := uuid.NewString()
	if _, err := db.Exec(`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		runID, time.Now().Unix()); err != nil {
		db.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}

	s := &Store{
		db:    db,
		runID: runID,
		log:   log.With(zap.String("run_id", runID)),
		enc:   enc,
		ch:    make(chan game.GalaxySnapshot, 64),
	}
	s.wg.Add(1)
	go s.writer()
	return s, nil
}

// RunID identifies this session in the database.
func (s *Store) RunID() string { return s.runID }

// Record queues a snapshot for archiving. Drops (with a log line) when
// the writer is backed up rather than stalling the tick loop.
func (s *Store) Record(snap game.GalaxySnapshot) error {
	select {
	case s.ch <- snap:
		return nil
	default:
		s.log.Warn("archive queue full, snapshot dropped", zap.Int("tick", snap.Tick))
		return nil
	}
}

func (s *Store) writer() {
	defer s.wg.Done()
	for snap := range s.ch {
		if err := s.persist(snap); err != nil {
			s.log.Warn("archive write failed", zap.Int("tick", snap.Tick), zap.Error(err))
		}
	}
}

func (s *Store) persist(snap game.GalaxySnapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	sum := sha256.Sum256(body)
	compressed := s.enc.EncodeAll(body, nil)

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO snapshots (run_id, tick, taken_at, sha256, body_zstd)
		 VALUES (?, ?, ?, ?, ?)`,
		s.runID, snap.Tick, time.Now().Unix(), hex.EncodeToString(sum[:]), compressed)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Load fetches and decompresses one archived snapshot.
func (s *Store) Load(runID string, tick int) (game.GalaxySnapshot, error) {
	var blob []byte
	row := s.db.QueryRow(
		`SELECT body_zstd FROM snapshots WHERE run_id = ? AND tick = ?`, runID, tick)
	if err := row.Scan(&blob); err != nil {
		return game.GalaxySnapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return game.GalaxySnapshot{}, err
	}
	defer dec.Close()
	body, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return game.GalaxySnapshot{}, fmt.Errorf("decompress snapshot: %w", err)
	}

	var snap game.GalaxySnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return game.GalaxySnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Ticks lists the archived tick numbers for a run, ascending.
func (s *Store) Ticks(runID string) ([]int, error) {
	rows, err := s.db.Query(
		`SELECT tick FROM snapshots WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ticks []int
	for rows.Next() {
		var t int
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}

// Close drains the queue and shuts the database down.
func (s *Store) Close() error {
	s.once.Do(func() { close(s.ch) })
	s.wg.Wait()
	s.enc.Close()
	return s.db.Close()
}
