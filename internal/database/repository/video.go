package repository

import (
	"database/sql"
	"fmt"

	"github.com/artur/ytmp4/internal/database/models"
)

// VideoRepository handles video download persistence
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// RecordDownload records a download attempt and sets its ID
func (r *VideoRepository) RecordDownload(download *models.VideoDownload) error {
	query := `
		INSERT INTO video_downloads
		(video_id, video_url, video_title, quality, itag, height, container,
		 output_path, file_size_bytes, status, error_kind, error_message, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.Exec(query,
		download.VideoID,
		download.VideoURL,
		download.VideoTitle,
		download.Quality,
		download.Itag,
		download.Height,
		download.Container,
		download.OutputPath,
		download.FileSizeBytes,
		download.Status,
		download.ErrorKind,
		download.ErrorMessage,
		download.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record video download: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		download.ID = id
	}
	return nil
}

// GetRecentDownloads returns the latest attempts, newest first
func (r *VideoRepository) GetRecentDownloads(limit int) ([]models.VideoDownload, error) {
	query := `
		SELECT id, video_id, video_url, video_title, quality, itag, height, container,
		       output_path, file_size_bytes, status, error_kind, error_message, executed_at
		FROM video_downloads
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent downloads: %w", err)
	}
	defer rows.Close()

	var downloads []models.VideoDownload
	for rows.Next() {
		var (
			d                        models.VideoDownload
			title, container, output sql.NullString
			errKind, errMsg          sql.NullString
			itag, height, size       sql.NullInt64
		)
		if err := rows.Scan(&d.ID, &d.VideoID, &d.VideoURL, &title, &d.Quality, &itag, &height,
			&container, &output, &size, &d.Status, &errKind, &errMsg, &d.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		d.VideoTitle = title.String
		d.Container = container.String
		d.OutputPath = output.String
		d.ErrorKind = errKind.String
		d.ErrorMessage = errMsg.String
		d.Itag = int(itag.Int64)
		d.Height = int(height.Int64)
		d.FileSizeBytes = size.Int64
		downloads = append(downloads, d)
	}

	return downloads, rows.Err()
}

// GetTotalDownloads returns the number of completed downloads
func (r *VideoRepository) GetTotalDownloads() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM video_downloads WHERE status = ?", models.StatusCompleted).Scan(&count)
	return count, err
}

// PopularVideo represents a video with download count
type PopularVideo struct {
	VideoID       string
	VideoTitle    string
	DownloadCount int64
}

// GetPopularVideos returns most downloaded videos (top N)
func (r *VideoRepository) GetPopularVideos(limit int) ([]PopularVideo, error) {
	query := `
		SELECT video_id, MAX(video_title), COUNT(*) as download_count
		FROM video_downloads
		WHERE status = ?
		GROUP BY video_id
		ORDER BY download_count DESC, video_id
		LIMIT ?
	`

	rows, err := r.db.Query(query, models.StatusCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular videos: %w", err)
	}
	defer rows.Close()

	var videos []PopularVideo
	for rows.Next() {
		var video PopularVideo
		var title sql.NullString
		if err := rows.Scan(&video.VideoID, &title, &video.DownloadCount); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		video.VideoTitle = title.String
		videos = append(videos, video)
	}

	return videos, rows.Err()
}
