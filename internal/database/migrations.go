package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Migrate runs all database migrations
func (db *DB) Migrate() error {
	log.Debugf("[DB] Running migrations...")

	migrations := []string{
		// Download attempts, successful or not
		`CREATE TABLE IF NOT EXISTS video_downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			video_id TEXT NOT NULL,
			video_url TEXT NOT NULL,
			video_title TEXT,
			quality TEXT NOT NULL,
			itag INTEGER,
			height INTEGER,
			container TEXT,
			output_path TEXT,
			file_size_bytes INTEGER,
			status TEXT NOT NULL,
			error_kind TEXT,
			error_message TEXT,
			executed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_video_downloads_video_id ON video_downloads(video_id)`,
		`CREATE INDEX IF NOT EXISTS idx_video_downloads_status ON video_downloads(status)`,
		`CREATE INDEX IF NOT EXISTS idx_video_downloads_executed_at ON video_downloads(executed_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	log.Debugf("[DB] Migrations completed successfully")
	return nil
}
