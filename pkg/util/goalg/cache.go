package goalg

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/richard-senior/goalgorithm-mcp/internal/logger"
	_ "modernc.org/sqlite"
)

// The datasource is slow and understat rate limits aggressively, so fetched
// league snapshots are cached in a local sqlite database and considered fresh
// for CacheTTLHours. Expired or unreadable rows are treated as a miss.

var db *sql.DB

const createCacheTableSQL = `
CREATE TABLE IF NOT EXISTS league_stats_cache (
	league_id      INTEGER NOT NULL,
	season         INTEGER NOT NULL,
	team_name      TEXT NOT NULL,
	matches_played INTEGER DEFAULT 0,
	goals_scored   INTEGER DEFAULT 0,
	goals_conceded INTEGER DEFAULT 0,
	xg             REAL DEFAULT 0.0,
	xga            REAL DEFAULT 0.0,
	fetched_at     INTEGER NOT NULL,
	PRIMARY KEY (league_id, season, team_name)
)`

// InitDatabase opens (or reopens) the cache database at the given path.
// Pass ":memory:" for tests.
func InitDatabase(path string) error {
	if db != nil {
		db.Close()
		db = nil
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	var err error
	db, err = sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err = db.Exec(createCacheTableSQL); err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}

	logger.Info("Database initialized successfully", path)
	return nil
}

// GetDB returns the cache database connection, opening it on first use
func GetDB() (*sql.DB, error) {
	if db == nil {
		if err := InitDatabase(Config.GoalgDbPath); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// ReadCachedTeams returns the cached team snapshot for a league/season, or
// (nil, false) on a miss. Rows older than the TTL count as a miss.
func ReadCachedTeams(leagueID int, season int) ([]TeamSeasonStats, bool) {
	d, err := GetDB()
	if err != nil {
		logger.Warn("Could not open cache database", err)
		return nil, false
	}

	cutoff := time.Now().Add(-time.Duration(Config.CacheTTLHours) * time.Hour).Unix()

	rows, err := d.Query(`SELECT team_name, matches_played, goals_scored, goals_conceded, xg, xga
		FROM league_stats_cache
		WHERE league_id = ? AND season = ? AND fetched_at > ?
		ORDER BY team_name`, leagueID, season, cutoff)
	if err != nil {
		logger.Warn("Cache read failed", err)
		return nil, false
	}
	defer rows.Close()

	var teams []TeamSeasonStats
	for rows.Next() {
		var ts TeamSeasonStats
		if err := rows.Scan(&ts.TeamName, &ts.MatchesPlayed, &ts.GoalsScored, &ts.GoalsConceded, &ts.XG, &ts.XGA); err != nil {
			logger.Warn("Cache row scan failed", err)
			return nil, false
		}
		teams = append(teams, ts)
	}
	if err := rows.Err(); err != nil {
		logger.Warn("Cache read failed", err)
		return nil, false
	}

	if len(teams) == 0 {
		return nil, false
	}

	logger.Debug("Cache hit for league", leagueID, "season", season, "teams", len(teams))
	return teams, true
}

// WriteCachedTeams replaces the cached snapshot for a league/season
func WriteCachedTeams(leagueID int, season int, teams []TeamSeasonStats) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM league_stats_cache WHERE league_id = ? AND season = ?`, leagueID, season); err != nil {
		return fmt.Errorf("failed to clear stale cache rows: %w", err)
	}

	now := time.Now().Unix()
	stmt, err := tx.Prepare(`INSERT INTO league_stats_cache
		(league_id, season, team_name, matches_played, goals_scored, goals_conceded, xg, xga, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare cache insert: %w", err)
	}
	defer stmt.Close()

	for i := range teams {
		ts := &teams[i]
		if _, err := stmt.Exec(leagueID, season, ts.TeamName, ts.MatchesPlayed, ts.GoalsScored, ts.GoalsConceded, ts.XG, ts.XGA, now); err != nil {
			return fmt.Errorf("failed to cache stats for %s: %w", ts.TeamName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache transaction: %w", err)
	}

	logger.Debug("Cached", len(teams), "teams for league", leagueID, "season", season)
	return nil
}

// ClearCache removes every cached snapshot
func ClearCache() error {
	d, err := GetDB()
	if err != nil {
		return err
	}
	if _, err := d.Exec(`DELETE FROM league_stats_cache`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	logger.Info("League stats cache cleared")
	return nil
}
