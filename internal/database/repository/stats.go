package repository

import (
	"database/sql"
	"fmt"

	"github.com/artur/ytmp4/internal/database/models"
)

// KindCount represents how often a failure kind occurred
type KindCount struct {
	Kind  string
	Count int64
}

// StatusCounts splits download attempts by outcome
type StatusCounts struct {
	Completed int64
	Failed    int64
}

// StatsRepository aggregates the download history
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStatusCounts returns the number of completed and failed attempts
func (r *StatsRepository) GetStatusCounts() (StatusCounts, error) {
	var counts StatusCounts
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM video_downloads
	`
	err := r.db.QueryRow(query, models.StatusCompleted, models.StatusFailed).Scan(&counts.Completed, &counts.Failed)
	if err != nil {
		return counts, fmt.Errorf("failed to count downloads: %w", err)
	}
	return counts, nil
}

// GetTotalBytes returns the size of all completed downloads
func (r *StatsRepository) GetTotalBytes() (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(file_size_bytes), 0) FROM video_downloads WHERE status = ?`
	err := r.db.QueryRow(query, models.StatusCompleted).Scan(&total)
	return total, err
}

// GetErrorKindCounts returns the most frequent failure kinds (top N)
func (r *StatsRepository) GetErrorKindCounts(limit int) ([]KindCount, error) {
	query := `
		SELECT error_kind, COUNT(*) as count
		FROM video_downloads
		WHERE status = ? AND error_kind != ''
		GROUP BY error_kind
		ORDER BY count DESC, error_kind
		LIMIT ?
	`

	rows, err := r.db.Query(query, models.StatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get error kinds: %w", err)
	}
	defer rows.Close()

	var results []KindCount
	for rows.Next() {
		var item KindCount
		if err := rows.Scan(&item.Kind, &item.Count); err != nil {
			return nil, fmt.Errorf("failed to scan error kind: %w", err)
		}
		results = append(results, item)
	}

	return results, rows.Err()
}
