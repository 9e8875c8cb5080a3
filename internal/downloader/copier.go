package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"
)

const copyChunkSize = 32 * 1024

// destination is the file a stream is copied into.
type destination interface {
	io.Writer
	Sync() error
	Close() error
}

// openDestination creates path, failing if it already exists.
var openDestination = func(path string) (destination, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CopyToFile streams src into a new file at path. It always closes src.
// onProgress, if set, receives the cumulative byte count after every written
// chunk. When total is positive a stream that ends early is an error.
//
// On failure the destination is removed and the original error returned; an
// already existing destination is reported as ErrDestinationExists and left
// untouched.
func CopyToFile(ctx context.Context, src io.ReadCloser, path string, total int64, onProgress func(written int64)) (int64, error) {
	defer src.Close()

	if _, err := os.Lstat(path); err == nil {
		return 0, newError(KindDestinationExists, "file already exists: "+path, nil)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return 0, newError(KindIOError, "failed to check destination", err)
	}

	f, err := openDestination(path)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, newError(KindDestinationExists, "file already exists: "+path, nil)
		}
		return 0, newError(KindIOError, "failed to create output file", err)
	}

	fail := func(e *Error) (int64, error) {
		src.Close()
		f.Close()
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Debugf("[DOWNLOAD] Failed to remove partial file %s: %v", path, err)
		}
		return 0, e
	}

	var written int64
	buf := make([]byte, copyChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return fail(newError(KindStreamError, "download interrupted", err))
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := f.Write(buf[:n])
			if werr == nil && wn != n {
				werr = io.ErrShortWrite
			}
			if werr != nil {
				return fail(newError(KindIOError, "failed to write output file", werr))
			}
			written += int64(wn)
			if onProgress != nil {
				onProgress(written)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fail(newError(KindStreamError, "failed to download video", rerr))
		}
	}

	if total > 0 && written < total {
		return fail(newError(KindStreamError,
			fmt.Sprintf("stream ended after %d of %d bytes", written, total), io.ErrUnexpectedEOF))
	}

	if err := f.Sync(); err != nil {
		return fail(newError(KindIOError, "failed to flush output file", err))
	}
	if err := f.Close(); err != nil {
		return fail(newError(KindIOError, "failed to close output file", err))
	}
	return written, nil
}
