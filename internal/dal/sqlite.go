package dal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Billy-Davies-2/hoops-swap/internal/models"
)

// SQLiteCache implements StatCache on an in-memory SQLite database.
// Nothing outlives the process: the database is private to one connection.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens a fresh in-memory SQLite stat cache
func NewSQLiteCache() (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}

	// every pooled connection would otherwise see its own empty :memory: database
	db.SetMaxOpenConns(1)

	// Create schema
	cache := &SQLiteCache{db: db}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return cache, nil
}

func (s *SQLiteCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stat_records (
		player_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		positions TEXT NOT NULL,
		fg REAL NOT NULL DEFAULT 0,
		ft REAL NOT NULL DEFAULT 0,
		threept REAL NOT NULL DEFAULT 0,
		pts REAL NOT NULL DEFAULT 0,
		reb REAL NOT NULL DEFAULT 0,
		ast REAL NOT NULL DEFAULT 0,
		st REAL NOT NULL DEFAULT 0,
		blk REAL NOT NULL DEFAULT 0,
		turnovers REAL NOT NULL DEFAULT 0
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create stat_records table: %w", err)
	}
	return nil
}

func (s *SQLiteCache) Get(playerID string) (*models.StatRecord, bool, error) {
	var rec models.StatRecord
	var positionsJSON string

	err := s.db.QueryRow(`
		SELECT player_id, name, positions, fg, ft, threept, pts, reb, ast, st, blk, turnovers
		FROM stat_records WHERE player_id = ?
	`, playerID).Scan(&rec.PlayerID, &rec.Name, &positionsJSON,
		&rec.FG, &rec.FT, &rec.ThreePT, &rec.PTS, &rec.REB, &rec.AST, &rec.ST, &rec.BLK, &rec.TO)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if err := json.Unmarshal([]byte(positionsJSON), &rec.Positions); err != nil {
		return nil, false, fmt.Errorf("failed to decode positions for %s: %w", playerID, err)
	}

	return &rec, true, nil
}

func (s *SQLiteCache) Put(rec *models.StatRecord) error {
	if rec == nil || rec.PlayerID == "" {
		return fmt.Errorf("stat record without player id")
	}

	positions := rec.Positions
	if positions == nil {
		positions = []string{}
	}
	positionsJSON, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO stat_records (player_id, name, positions, fg, ft, threept, pts, reb, ast, st, blk, turnovers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.PlayerID, rec.Name, string(positionsJSON),
		rec.FG, rec.FT, rec.ThreePT, rec.PTS, rec.REB, rec.AST, rec.ST, rec.BLK, rec.TO)

	return err
}

func (s *SQLiteCache) Len() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM stat_records").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteCache) Close() error {
	return s.db.Close()
}
