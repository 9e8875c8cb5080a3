package downloader

import (
	"context"
	"errors"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"
)

// Service downloads a single video from a Source to local disk.
type Service struct {
	source  Source
	workDir string
}

// NewService creates a Service. workDir is scanned for extractor debug
// artifacts after every download; empty means the current directory.
func NewService(source Source, workDir string) *Service {
	if workDir == "" {
		workDir = "."
	}
	return &Service{
		source:  source,
		workDir: workDir,
	}
}

// Download validates the URL, fetches metadata, selects a rendition and
// streams it to disk. No output file exists when an error is returned.
func (s *Service) Download(ctx context.Context, req Request, progress Progress) (*Result, error) {
	if progress == nil {
		progress = nopProgress{}
	}
	defer RemoveDebugArtifacts(s.workDir)

	progress.Stage("Validating URL...")
	if err := s.CheckURL(req.URL); err != nil {
		return nil, err
	}

	progress.Stage("Fetching video info...")
	meta, err := s.source.GetMetadata(ctx, req.URL)
	if err != nil {
		return nil, asError(err, KindMetadataExtractionFailed, "failed to get video info")
	}

	fail := func(err error) (*Result, error) {
		return nil, withVideo(err, meta)
	}

	rendition, err := Select(meta.Renditions, req.Quality)
	if err != nil {
		return fail(err)
	}
	log.Debugf("[DOWNLOAD] Selected itag %d (%s, %dp, %s) for quality %s",
		rendition.ID, rendition.Container, rendition.Height, rendition.Label, req.Quality)

	path, err := OutputPath(req.Dir, req.OutputName, meta.Title)
	if err != nil {
		return fail(newError(KindIOError, "failed to resolve output path", err))
	}
	if _, err := os.Lstat(path); err == nil {
		return fail(newError(KindDestinationExists, "file already exists: "+path, nil))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fail(newError(KindIOError, "failed to check destination", err))
	}

	progress.Stage("Opening stream...")
	stream, size, err := s.source.OpenStream(ctx, meta, rendition)
	if err != nil {
		return fail(asError(err, KindStreamError, "failed to get stream"))
	}

	total := rendition.ContentLength
	if total <= 0 {
		total = size
	}

	progress.Start(meta.Title, total)
	written, err := CopyToFile(ctx, stream, path, total, progress.Update)
	if err != nil {
		progress.Abort()
		log.Debugf("[DOWNLOAD] Download of %s failed: %v", meta.ID, err)
		return fail(err)
	}
	progress.Finish()

	log.Infof("[DOWNLOAD] Saved %s (%d bytes) to %s", meta.ID, written, path)

	return &Result{
		OutputPath: path,
		VideoID:    meta.ID,
		Title:      meta.Title,
		Rendition:  rendition,
		Bytes:      written,
	}, nil
}

// CheckURL reports an InvalidURL error when the source does not accept url.
func (s *Service) CheckURL(url string) error {
	if !s.source.ValidateURL(url) {
		return newError(KindInvalidURL, "invalid YouTube URL, please provide a valid YouTube video URL", nil)
	}
	return nil
}

// asError keeps classified errors and wraps anything else as kind.
func asError(err error, kind Kind, msg string) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return newError(kind, msg, err)
}
