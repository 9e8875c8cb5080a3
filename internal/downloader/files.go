package downloader

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxFilenameRunes = 200
	// 255 byte file name limit minus the ".mp4" suffix.
	maxFilenameBytes = 251
)

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)

	// Debug scripts the extractor may leave in the working directory.
	debugArtifactRe = regexp.MustCompile(`^\d+-player-script\.js$`)
)

// SanitizeFilename removes characters that are invalid in file names,
// collapses whitespace and limits the result to 200 characters and 251 bytes,
// cutting on a character boundary.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if runes := []rune(name); len(runes) > maxFilenameRunes {
		name = string(runes[:maxFilenameRunes])
	}
	for len(name) > maxFilenameBytes {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return strings.TrimSpace(name)
}

// OutputFilename returns the sanitized file name for name with an .mp4 suffix.
func OutputFilename(name string) string {
	filename := SanitizeFilename(name)
	if filename == "" || filename == "." || filename == ".." || strings.EqualFold(filename, ".mp4") {
		filename = "video"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".mp4") {
		filename += ".mp4"
	}
	return filename
}

// OutputPath resolves the absolute output path inside dir. The user supplied
// name wins over the video title.
func OutputPath(dir, outputName, title string) (string, error) {
	name := title
	if strings.TrimSpace(outputName) != "" {
		name = outputName
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Abs(filepath.Join(dir, OutputFilename(name)))
}

// RemoveDebugArtifacts deletes stray extractor debug scripts from dir.
// Every error is ignored.
func RemoveDebugArtifacts(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !debugArtifactRe.MatchString(e.Name()) {
			continue
		}
		os.Remove(filepath.Join(dir, e.Name()))
	}
}
