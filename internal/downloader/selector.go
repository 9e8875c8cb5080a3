package downloader

import "math"

// candidates returns the mp4 renditions carrying both audio and video, or
// every video-bearing rendition when there are none.
func candidates(renditions []Rendition) []Rendition {
	var muxed, video []Rendition
	for _, r := range renditions {
		if !r.HasVideo {
			continue
		}
		video = append(video, r)
		if r.HasAudio && r.Container == "mp4" {
			muxed = append(muxed, r)
		}
	}
	if len(muxed) > 0 {
		return muxed
	}
	return video
}

// Select picks one rendition according to q. Ties keep the first rendition
// seen. It fails with ErrNoFormatAvailable when no rendition carries video.
func Select(renditions []Rendition, q Quality) (Rendition, error) {
	formats := candidates(renditions)
	if len(formats) == 0 {
		return Rendition{}, newError(KindNoFormatAvailable, ErrNoFormatAvailable.Msg, nil)
	}

	best := 0
	for i := 1; i < len(formats); i++ {
		if better(formats[i], formats[best], q) {
			best = i
		}
	}
	return formats[best], nil
}

func better(cur, best Rendition, q Quality) bool {
	switch q.Mode {
	case QualityLowest:
		return lowestKey(cur) < lowestKey(best)
	case QualityTarget:
		return distance(cur, q.Height) < distance(best, q.Height)
	default:
		return cur.Height > best.Height
	}
}

// lowestKey treats an unknown height as +inf so it never wins over a known one.
func lowestKey(r Rendition) float64 {
	if r.Height <= 0 {
		return math.Inf(1)
	}
	return float64(r.Height)
}

func distance(r Rendition, target int) int {
	d := r.Height - target
	if d < 0 {
		return -d
	}
	return d
}
