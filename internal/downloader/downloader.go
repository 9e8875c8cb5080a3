package downloader

import (
	"context"
	"io"
	"time"
)

// Rendition is one encoded version of a video offered by a Source.
// Height and ContentLength are zero when unknown.
type Rendition struct {
	ID            int
	HasVideo      bool
	HasAudio      bool
	Container     string
	Height        int
	Width         int
	ContentLength int64
	Label         string
	MimeType      string
}

// Metadata describes a remote video.
type Metadata struct {
	ID         string
	Title      string
	Author     string
	Duration   time.Duration
	Renditions []Rendition

	// Handle is owned by the Source that produced the metadata.
	Handle any
}

// Source is the video hosting service client. Errors returned by
// GetMetadata and OpenStream should already be *Error values.
type Source interface {
	ValidateURL(url string) bool
	GetMetadata(ctx context.Context, url string) (*Metadata, error)
	OpenStream(ctx context.Context, meta *Metadata, r Rendition) (io.ReadCloser, int64, error)
}

// Progress receives download feedback. Implementations are cosmetic.
type Progress interface {
	Stage(msg string)
	Start(title string, total int64)
	Update(written int64)
	Finish()
	Abort()
}

// Request describes a single download.
type Request struct {
	URL        string
	Quality    Quality
	OutputName string
	Dir        string
}

// Result describes a completed download.
type Result struct {
	OutputPath string
	VideoID    string
	Title      string
	Rendition  Rendition
	Bytes      int64
}

type nopProgress struct{}

func (nopProgress) Stage(string) {}
func (nopProgress) Start(string, int64) {}
func (nopProgress) Update(int64) {}
func (nopProgress) Finish() {}
func (nopProgress) Abort() {}
