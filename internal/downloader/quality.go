package downloader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type QualityMode int

const (
	QualityHighest QualityMode = iota
	QualityLowest
	QualityTarget
)

// Quality is a rendition selection strategy. Height is only meaningful
// for QualityTarget.
type Quality struct {
	Mode   QualityMode
	Height int
}

var (
	Highest = Quality{Mode: QualityHighest}
	Lowest  = Quality{Mode: QualityLowest}
)

func Target(height int) Quality {
	return Quality{Mode: QualityTarget, Height: height}
}

var qualityRe = regexp.MustCompile(`^(\d+)p?$`)

// ParseQuality parses "highest", "lowest", "720" or "720p".
// An empty value means highest.
func ParseQuality(s string) (Quality, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "highest":
		return Highest, nil
	case "lowest":
		return Lowest, nil
	}

	m := qualityRe.FindStringSubmatch(v)
	if m == nil {
		return Quality{}, newError(KindInvalidQualityValue,
			fmt.Sprintf("invalid quality option %q, use \"highest\", \"lowest\" or a height like \"720p\"", s), nil)
	}
	h, err := strconv.Atoi(m[1])
	if err != nil || h <= 0 {
		return Quality{}, newError(KindInvalidQualityValue,
			fmt.Sprintf("invalid quality height %q", s), err)
	}
	return Target(h), nil
}

func (q Quality) String() string {
	switch q.Mode {
	case QualityLowest:
		return "lowest"
	case QualityTarget:
		return strconv.Itoa(q.Height) + "p"
	default:
		return "highest"
	}
}

func parseQualityNum(quality string) int {
	var num int
	fmt.Sscanf(quality, "%dp", &num)
	return num
}
