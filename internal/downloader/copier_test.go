package downloader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// chunkReader yields data in fixed chunks and fails with err once failAfter
// bytes were produced. failAfter < 0 means never fail.
type chunkReader struct {
	data      []byte
	chunk     int
	failAfter int
	err       error
	pos       int
	closed    bool
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.failAfter >= 0 && r.pos >= r.failAfter {
		return 0, r.err
	}
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if rest := len(r.data) - r.pos; n > rest {
		n = rest
	}
	if r.failAfter >= 0 && r.pos+n > r.failAfter {
		n = r.failAfter - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func (r *chunkReader) Close() error {
	r.closed = true
	return nil
}

func TestCopyToFile_Success(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10000)
	src := &chunkReader{data: data, chunk: 4096, failAfter: -1}
	path := filepath.Join(t.TempDir(), "video.mp4")

	var calls []int64
	written, err := CopyToFile(context.Background(), src, path, int64(len(data)), func(n int64) {
		calls = append(calls, n)
	})
	if err != nil {
		t.Fatalf("CopyToFile() error = %v", err)
	}
	if written != int64(len(data)) {
		t.Errorf("written = %d, want %d", written, len(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() != int64(len(data)) {
		t.Errorf("file size = %d, want %d", info.Size(), len(data))
	}

	if len(calls) == 0 {
		t.Fatal("progress callback was never called")
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] < calls[i-1] {
			t.Errorf("progress decreased: %d after %d", calls[i], calls[i-1])
		}
	}
	if last := calls[len(calls)-1]; last != int64(len(data)) {
		t.Errorf("last progress = %d, want %d", last, len(data))
	}
	if !src.closed {
		t.Error("source stream was not closed")
	}
}

func TestCopyToFile_UnknownTotal(t *testing.T) {
	data := []byte("small payload")
	src := &chunkReader{data: data, chunk: 3, failAfter: -1}
	path := filepath.Join(t.TempDir(), "video.mp4")

	written, err := CopyToFile(context.Background(), src, path, 0, nil)
	if err != nil {
		t.Fatalf("CopyToFile() error = %v", err)
	}
	if written != int64(len(data)) {
		t.Errorf("written = %d, want %d", written, len(data))
	}
}

func TestCopyToFile_SourceErrorRemovesFile(t *testing.T) {
	injected := errors.New("connection reset by peer")
	data := bytes.Repeat([]byte("x"), 50000)
	src := &chunkReader{data: data, chunk: 1000, failAfter: 12000, err: injected}
	path := filepath.Join(t.TempDir(), "video.mp4")

	_, err := CopyToFile(context.Background(), src, path, int64(len(data)), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrStreamError) {
		t.Errorf("expected stream error kind, got %v", err)
	}
	if !errors.Is(err, injected) {
		t.Errorf("expected injected error to be wrapped, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("partial file still exists: %v", statErr)
	}
	if !src.closed {
		t.Error("source stream was not closed")
	}
}

func TestCopyToFile_ShortStreamRemovesFile(t *testing.T) {
	data := []byte("only part of it")
	src := &chunkReader{data: data, chunk: 4, failAfter: -1}
	path := filepath.Join(t.TempDir(), "video.mp4")

	_, err := CopyToFile(context.Background(), src, path, int64(len(data)*2), nil)
	if !errors.Is(err, ErrStreamError) {
		t.Fatalf("expected stream error, got %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected unexpected EOF cause, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("partial file still exists: %v", statErr)
	}
}

func TestCopyToFile_CancelledRemovesFile(t *testing.T) {
	data := bytes.Repeat([]byte("y"), 10000)
	src := &chunkReader{data: data, chunk: 100, failAfter: -1}
	path := filepath.Join(t.TempDir(), "video.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	_, err := CopyToFile(ctx, src, path, 0, func(n int64) {
		if n >= 500 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if !errors.Is(err, ErrStreamError) {
		t.Errorf("expected stream error kind, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("partial file still exists: %v", statErr)
	}
}

func TestCopyToFile_DestinationExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.mp4")
	original := []byte("precious existing content")
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}

	src := &chunkReader{data: []byte("new data that must not land"), chunk: 8, failAfter: -1}
	_, err := CopyToFile(context.Background(), src, path, 0, nil)
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("existing file vanished: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Errorf("existing file changed: %q", got)
	}
	if !src.closed {
		t.Error("source stream was not closed")
	}
}

func TestCopyToFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "video.mp4")
	src := &chunkReader{data: []byte("data"), chunk: 4, failAfter: -1}

	_, err := CopyToFile(context.Background(), src, path, 0, nil)
	if !errors.Is(err, ErrIOError) {
		t.Fatalf("expected ErrIOError, got %v", err)
	}
}

// failingFile writes through to a real file until limit bytes were written,
// then fails every write with err.
type failingFile struct {
	*os.File
	limit   int
	written int
	err     error
}

func (f *failingFile) Write(p []byte) (int, error) {
	if f.written+len(p) > f.limit {
		return 0, f.err
	}
	n, err := f.File.Write(p)
	f.written += n
	return n, err
}

func TestCopyToFile_WriteErrorRemovesFile(t *testing.T) {
	injected := errors.New("no space left on device")
	orig := openDestination
	t.Cleanup(func() { openDestination = orig })
	openDestination = func(path string) (destination, error) {
		f, err := orig(path)
		if err != nil {
			return nil, err
		}
		return &failingFile{File: f.(*os.File), limit: 3 * copyChunkSize, err: injected}, nil
	}

	data := bytes.Repeat([]byte("z"), 10*copyChunkSize)
	src := &chunkReader{data: data, chunk: copyChunkSize, failAfter: -1}
	path := filepath.Join(t.TempDir(), "video.mp4")

	var last int64
	_, err := CopyToFile(context.Background(), src, path, int64(len(data)), func(n int64) { last = n })
	if !errors.Is(err, ErrIOError) {
		t.Fatalf("expected ErrIOError, got %v", err)
	}
	if !errors.Is(err, injected) {
		t.Errorf("expected injected error to be wrapped, got %v", err)
	}
	if last != 3*copyChunkSize {
		t.Errorf("copy continued after the failed write: last progress %d", last)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("partial file still exists: %v", statErr)
	}
	if !src.closed {
		t.Error("source stream was not closed")
	}
}
