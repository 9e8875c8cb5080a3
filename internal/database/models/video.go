package models

import "time"

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// VideoDownload represents one download attempt
type VideoDownload struct {
	ID            int64
	VideoID       string
	VideoURL      string
	VideoTitle    string
	Quality       string
	Itag          int
	Height        int
	Container     string
	OutputPath    string
	FileSizeBytes int64
	Status        string
	ErrorKind     string
	ErrorMessage  string
	ExecutedAt    time.Time
}
