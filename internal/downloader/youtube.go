package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
	log "github.com/sirupsen/logrus"
)

var youtubeURLRe = regexp.MustCompile(
	`^(?:https?://)?(?:(?:www|m|music)\.)?(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/|v/)|youtu\.be/)([a-zA-Z0-9_-]{11})(?:[?&#/].*)?$`)

// YouTubeSource implements Source on top of github.com/kkdai/youtube/v2.
type YouTubeSource struct {
	client *youtube.Client
}

func NewYouTubeSource(httpClient *http.Client) *YouTubeSource {
	return &YouTubeSource{
		client: &youtube.Client{HTTPClient: httpClient},
	}
}

func (s *YouTubeSource) ValidateURL(url string) bool {
	return extractYouTubeID(url) != ""
}

func (s *YouTubeSource) GetMetadata(ctx context.Context, url string) (*Metadata, error) {
	video, err := s.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, classifyYouTubeError(err)
	}

	log.Debugf("[DOWNLOAD] Got %d formats for %s (%q)", len(video.Formats), video.ID, video.Title)

	renditions := make([]Rendition, 0, len(video.Formats))
	for _, f := range video.Formats {
		renditions = append(renditions, formatToRendition(f))
	}

	return &Metadata{
		ID:         video.ID,
		Title:      video.Title,
		Author:     video.Author,
		Duration:   video.Duration,
		Renditions: renditions,
		Handle:     video,
	}, nil
}

func (s *YouTubeSource) OpenStream(ctx context.Context, meta *Metadata, r Rendition) (io.ReadCloser, int64, error) {
	video, ok := meta.Handle.(*youtube.Video)
	if !ok || video == nil {
		return nil, 0, newError(KindStreamError, "metadata was not produced by the YouTube source", nil)
	}

	var format *youtube.Format
	if matches := video.Formats.Itag(r.ID); len(matches) > 0 {
		format = &matches[0]
	}
	if format == nil {
		return nil, 0, newError(KindNoFormatAvailable, fmt.Sprintf("format %d not found", r.ID), nil)
	}

	stream, size, err := s.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, 0, newError(KindStreamError, "failed to get stream", err)
	}
	return stream, size, nil
}

func formatToRendition(f youtube.Format) Rendition {
	mime := strings.ToLower(f.MimeType)
	kind, container := splitMimeType(mime)

	height := f.Height
	if height == 0 {
		height = parseQualityNum(f.QualityLabel)
	}

	return Rendition{
		ID:            f.ItagNo,
		HasVideo:      kind == "video",
		HasAudio:      f.AudioChannels > 0,
		Container:     container,
		Height:        height,
		Width:         f.Width,
		ContentLength: f.ContentLength,
		Label:         f.QualityLabel,
		MimeType:      f.MimeType,
	}
}

// splitMimeType turns `video/mp4; codecs="avc1"` into ("video", "mp4").
func splitMimeType(mime string) (string, string) {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	kind, sub, _ := strings.Cut(strings.TrimSpace(mime), "/")
	return kind, sub
}

// classifyYouTubeError maps the library's typed errors onto error kinds.
func classifyYouTubeError(err error) *Error {
	switch {
	case errors.Is(err, youtube.ErrLoginRequired):
		return unavailable(ReasonAgeRestricted, "this video is age-restricted and cannot be downloaded", err)
	case errors.Is(err, youtube.ErrVideoPrivate):
		return unavailable(ReasonPrivate, "this video is private and cannot be downloaded", err)
	case errors.Is(err, youtube.ErrNotPlayableInEmbed):
		return unavailable(ReasonUnavailable, "this video is unavailable", err)
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return newError(KindInvalidURL, "invalid YouTube URL", err)
	}

	var status *youtube.ErrPlayabiltyStatus
	if errors.As(err, &status) {
		if status.Status == "ERROR" {
			return unavailable(ReasonRemoved, "this video has been removed", err)
		}
		return unavailable(ReasonUnavailable, "this video is unavailable", err)
	}

	if errors.Is(err, context.Canceled) {
		return newError(KindStreamError, "download interrupted", err)
	}

	return newError(KindMetadataExtractionFailed,
		"unable to extract video information, try updating or try again later", err)
}

func extractYouTubeID(text string) string {
	matches := youtubeURLRe.FindStringSubmatch(strings.TrimSpace(text))
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}
