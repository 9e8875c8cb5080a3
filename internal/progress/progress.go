// Package progress renders download feedback on the terminal. Everything here
// is cosmetic; nothing else depends on the numbers it shows.
package progress

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// estimateBase is the size at which the unknown-length estimate saturates.
const estimateBase = 100 * 1024 * 1024

// maxEstimate is the highest percentage shown before the stream completes
// when the total size is unknown.
const maxEstimate = 95.0

// EstimatePercent guesses progress for a stream of unknown length. It never
// reaches 100 so completion is only shown once the last byte arrived.
func EstimatePercent(written int64) float64 {
	if written <= 0 {
		return 0
	}
	p := float64(written) / estimateBase * 100
	if p > maxEstimate {
		return maxEstimate
	}
	return p
}

// Percent is exact when total is known and an estimate otherwise.
func Percent(written, total int64) float64 {
	if total <= 0 {
		return EstimatePercent(written)
	}
	if written >= total {
		return 100
	}
	return float64(written) / float64(total) * 100
}

// Bar implements downloader.Progress on top of progressbar.
type Bar struct {
	w       io.Writer
	spinner *progressbar.ProgressBar
	bar     *progressbar.ProgressBar
	title   string
	total   int64
	written int64
}

// New creates a Bar writing to w. A nil writer disables all output.
func New(w io.Writer) *Bar {
	if w == nil {
		w = io.Discard
	}
	return &Bar{w: w}
}

func (b *Bar) Stage(msg string) {
	if b.spinner == nil {
		b.spinner = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(b.w),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription(msg),
			progressbar.OptionClearOnFinish(),
		)
	} else {
		b.spinner.Describe(msg)
	}
	b.spinner.Add(1)
}

func (b *Bar) Start(title string, total int64) {
	b.stopSpinner()
	b.title = title
	b.total = total
	b.written = 0

	desc := description(title)

	if total > 0 {
		b.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(b.w),
			progressbar.OptionSetDescription(desc),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetPredictTime(true),
		)
		return
	}

	// Unknown size: the bar counts percent points from EstimatePercent.
	b.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionFullWidth(),
	)
}

func (b *Bar) Update(written int64) {
	b.written = written
	if b.bar == nil {
		return
	}
	if b.total > 0 {
		b.bar.Set64(written)
		return
	}
	b.bar.Set64(int64(Percent(written, b.total)))
	b.bar.Describe(description(b.title) + " (" + humanize.Bytes(uint64(written)) + ")")
}

// Finish marks the download as complete.
func (b *Bar) Finish() {
	b.stopSpinner()
	if b.bar == nil {
		return
	}
	b.bar.Finish()
	io.WriteString(b.w, "\n")
	b.bar = nil
}

// Abort stops rendering without claiming completion.
func (b *Bar) Abort() {
	b.stopSpinner()
	if b.bar == nil {
		return
	}
	b.bar.Exit()
	io.WriteString(b.w, "\n")
	b.bar = nil
}

// Summary is a one-line description of the last transfer.
func (b *Bar) Summary() string {
	s := humanize.Bytes(uint64(b.written))
	if b.total > 0 {
		s += " of " + humanize.Bytes(uint64(b.total))
	}
	return s
}

func description(title string) string {
	if title == "" {
		return "Downloading"
	}
	return "Downloading " + title
}

func (b *Bar) stopSpinner() {
	if b.spinner == nil {
		return
	}
	b.spinner.Finish()
	b.spinner = nil
}
