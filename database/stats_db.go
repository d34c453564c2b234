package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// DashboardStats aggregates a photographer's totals across all sessions.
type DashboardStats struct {
	TotalSessions   int `json:"totalSessions"`
	TotalPhotos     int `json:"totalPhotos"`
	TotalSelections int `json:"totalSelections"`
}

// GetDashboardStats counts sessions, photos and selections owned by the
// given photographer in one query over the raw connection.
func GetDashboardStats(db *sql.DB, photographerID uint) (DashboardStats, error) {
	queryBuilder := psql.Select(
		"COUNT(DISTINCT s.id) AS total_sessions",
		"COUNT(DISTINCT p.id) AS total_photos",
		"COUNT(DISTINCT ps.photo_id) AS total_selections",
	).
		From("sessions s").
		LeftJoin("photos p ON s.id = p.session_id").
		LeftJoin("photo_selections ps ON p.id = ps.photo_id").
		Where(sq.Eq{"s.photographer_id": photographerID})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to build SQL query for GetDashboardStats: %w", err)
	}

	var stats DashboardStats
	err = db.QueryRow(sqlStr, args...).Scan(&stats.TotalSessions, &stats.TotalPhotos, &stats.TotalSelections)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to query dashboard stats for photographer %d: %w", photographerID, err)
	}
	return stats, nil
}

// SessionCounts holds per-session photo and selection totals for listings.
type SessionCounts struct {
	SessionID      uint
	PhotoCount     int
	SelectionCount int
}

// GetSessionCounts returns photo and selection counts per session for the
// photographer's session list view.
func GetSessionCounts(db *sql.DB, photographerID uint) (map[uint]SessionCounts, error) {
	queryBuilder := psql.Select(
		"s.id",
		"COUNT(DISTINCT p.id) AS photo_count",
		"COUNT(DISTINCT ps.photo_id) AS selection_count",
	).
		From("sessions s").
		LeftJoin("photos p ON s.id = p.session_id").
		LeftJoin("photo_selections ps ON p.id = ps.photo_id").
		Where(sq.Eq{"s.photographer_id": photographerID}).
		GroupBy("s.id")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for GetSessionCounts: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query session counts for photographer %d: %w", photographerID, err)
	}
	defer rows.Close()

	counts := make(map[uint]SessionCounts)
	for rows.Next() {
		var c SessionCounts
		if err := rows.Scan(&c.SessionID, &c.PhotoCount, &c.SelectionCount); err != nil {
			return nil, fmt.Errorf("failed to scan session counts row: %w", err)
		}
		counts[c.SessionID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session counts rows: %w", err)
	}
	return counts, nil
}
