package lyrics

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line is one lyric line with its display timestamp. Plain (unsynced)
// lyrics carry zero timestamps and rely on manual scrolling.
type Line struct {
	Time time.Duration
	Text string
}

// ParseLRC parses LRC-format text into timestamped lines, sorted by time.
// Metadata tags like [ar:...] are skipped; a line may carry several
// timestamps, producing one entry per timestamp.
func ParseLRC(text string) []Line {
	var lines []Line

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if raw == "" || raw[0] != '[' {
			continue
		}

		var stamps []time.Duration
		rest := raw
		for strings.HasPrefix(rest, "[") {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				break
			}
			ts, ok := parseTimestamp(rest[1:end])
			if !ok {
				break
			}
			stamps = append(stamps, ts)
			rest = rest[end+1:]
		}

		text := strings.TrimSpace(rest)
		if text == "" {
			continue
		}
		for _, ts := range stamps {
			lines = append(lines, Line{Time: ts, Text: text})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Time < lines[j].Time })
	return lines
}

// parseTimestamp handles mm:ss.xx and mm:ss. Anything with letters before
// the colon is an LRC metadata tag, not a timestamp.
func parseTimestamp(s string) (time.Duration, bool) {
	minPart, rest, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	minutes, err := strconv.Atoi(minPart)
	if err != nil {
		return 0, false
	}

	secPart, centiPart, hasCenti := strings.Cut(rest, ".")
	seconds, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, false
	}

	centi := 0
	if hasCenti {
		// Ignore garbage after the centiseconds rather than reject the line.
		if c, err := strconv.Atoi(centiPart); err == nil {
			centi = c
		}
	}

	total := time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(centi)*10*time.Millisecond
	return total, true
}
