package lrc

import (
	"regexp"
	"strings"
)

var lineTimestampRegex = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{2,3})\](.*)$`)

const (
	bgOpen  = "[bg:"
	bgClose = "]"
)

// classifyLine turns one raw input line into a Line. ok is false when the
// line must be skipped: blank lines, background lines without a timed word,
// and lines whose timestamps fail to decode.
func classifyLine(raw string) (line Line, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{}, false
	}

	if inner, isBg := unwrapBackground(trimmed); isBg {
		line = Line{Vocal: Primary, Background: true}
		if !parseContent(&line, inner) {
			return Line{}, false
		}
		if len(line.Words) == 0 || !line.Words[0].Time.Valid {
			return Line{}, false
		}
		line.Start = line.Words[0].Time
		return line, true
	}

	if m := lineTimestampRegex.FindStringSubmatch(strings.TrimLeft(raw, " \t")); m != nil {
		start, err := DecodeTimestamp(m[1], m[2], m[3])
		if err != nil {
			return Line{}, false
		}
		line = Line{Start: At(start), Vocal: Primary}
		content := m[4]
		if inner, isBg := unwrapBackground(strings.TrimSpace(content)); isBg {
			line.Background = true
			content = inner
		}
		if !parseContent(&line, content) {
			return Line{}, false
		}
		return line, true
	}

	return Line{
		Words: splitWords(raw, Unset),
		Vocal: Primary,
	}, true
}

func unwrapBackground(trimmed string) (string, bool) {
	if len(trimmed) < len(bgOpen)+len(bgClose) {
		return "", false
	}
	if !strings.HasPrefix(trimmed, bgOpen) || !strings.HasSuffix(trimmed, bgClose) {
		return "", false
	}
	return trimmed[len(bgOpen) : len(trimmed)-len(bgClose)], true
}

// parseContent strips the vocal marker from content and fills in the words
// of line. It returns false when a word timestamp cannot be decoded.
func parseContent(line *Line, content string) bool {
	trimmed := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(trimmed, "v2:"):
		line.Vocal = Secondary
		content = strings.Replace(content, "v2:", "", 1)
	case strings.HasPrefix(trimmed, "v1:"):
		line.Vocal = Primary
		content = strings.Replace(content, "v1:", "", 1)
	case !line.Background:
		line.Vocal = Primary
		content = stripSingerPrefix(content)
	}

	words, end, found, err := extractWords(content)
	if err != nil {
		return false
	}
	line.WordSynced = found
	if !found {
		line.Words = splitWords(content, line.Start)
		return true
	}

	line.Words = words
	if end.Valid {
		line.End = end
	}
	return true
}

// stripSingerPrefix removes a leading "Name:" label. The label may not
// contain '<', so colons inside word timestamps are never taken for one.
func stripSingerPrefix(content string) string {
	colon := strings.IndexByte(content, ':')
	if colon < 0 {
		return content
	}
	if strings.IndexByte(content[:colon], '<') >= 0 {
		return content
	}
	return content[colon+1:]
}
