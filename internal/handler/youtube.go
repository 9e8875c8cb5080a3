package handler

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/artur/ytmp4/internal/database/models"
	"github.com/artur/ytmp4/internal/downloader"
)

// Downloader runs a single download.
type Downloader interface {
	Download(ctx context.Context, req downloader.Request, progress downloader.Progress) (*downloader.Result, error)
}

// HistoryRecorder persists download attempts.
type HistoryRecorder interface {
	RecordDownload(download *models.VideoDownload) error
}

// Notifier reports finished downloads.
type Notifier interface {
	NotifyDownload(res *downloader.Result) error
}

// DownloadHandler wraps a Downloader with history and notifications.
// Both are optional and never change the outcome of a download.
type DownloadHandler struct {
	downloader Downloader
	history    HistoryRecorder
	notifier   Notifier
	now        func() time.Time
}

func NewDownloadHandler(dl Downloader, history HistoryRecorder, notifier Notifier) *DownloadHandler {
	return &DownloadHandler{
		downloader: dl,
		history:    history,
		notifier:   notifier,
		now:        time.Now,
	}
}

func (h *DownloadHandler) Handle(ctx context.Context, req downloader.Request, progress downloader.Progress) (*downloader.Result, error) {
	log.Debugf("[DOWNLOAD] Request: %s (quality %s)", req.URL, req.Quality)

	res, err := h.downloader.Download(ctx, req, progress)

	h.record(req, res, err)

	if err != nil {
		return nil, err
	}

	if h.notifier != nil {
		if nerr := h.notifier.NotifyDownload(res); nerr != nil {
			log.Warnf("[BOT] Failed to send notification: %v", nerr)
		}
	}

	return res, nil
}

func (h *DownloadHandler) record(req downloader.Request, res *downloader.Result, err error) {
	if h.history == nil {
		return
	}

	entry := buildRecord(req, res, err)
	entry.ExecutedAt = h.now()

	if rerr := h.history.RecordDownload(entry); rerr != nil {
		log.Warnf("[DB] Failed to record download: %v", rerr)
	}
}

func buildRecord(req downloader.Request, res *downloader.Result, err error) *models.VideoDownload {
	entry := &models.VideoDownload{
		VideoURL: req.URL,
		Quality:  req.Quality.String(),
	}

	if err != nil {
		entry.Status = models.StatusFailed
		entry.ErrorKind = errorKind(err)
		entry.ErrorMessage = err.Error()
		var dlErr *downloader.Error
		if errors.As(err, &dlErr) {
			entry.VideoID = dlErr.VideoID
			entry.VideoTitle = dlErr.Title
		}
		return entry
	}

	entry.Status = models.StatusCompleted
	entry.VideoID = res.VideoID
	entry.VideoTitle = res.Title
	entry.Itag = res.Rendition.ID
	entry.Height = res.Rendition.Height
	entry.Container = res.Rendition.Container
	entry.OutputPath = res.OutputPath
	entry.FileSizeBytes = res.Bytes
	return entry
}

func errorKind(err error) string {
	var dlErr *downloader.Error
	if !errors.As(err, &dlErr) {
		return "unknown"
	}
	if dlErr.Reason != "" {
		return string(dlErr.Kind) + ":" + string(dlErr.Reason)
	}
	return string(dlErr.Kind)
}
