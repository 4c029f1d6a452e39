package platforms

import (
	"strconv"
	"strings"
)

// ParseHumanNumber parses human-readable engagement counts such as
// "3.2万" or "128+" into an integer, mapping "万" to x10000 and
// stripping a trailing "+". Missing/unparseable input defaults to 0.
func ParseHumanNumber(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.TrimSuffix(s, "+")

	if strings.Contains(s, "万") {
		numPart := strings.TrimSuffix(s, "万")
		f, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0
		}
		return int64(f * 10000)
	}

	if strings.Contains(s, "亿") {
		numPart := strings.TrimSuffix(s, "亿")
		f, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0
		}
		return int64(f * 100000000)
	}

	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return n
}
