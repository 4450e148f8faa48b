package lrc

import (
	"bufio"
	"io"
	"strings"
)

// Parse reads lyric text from r and builds its timeline. Lines end at "\n",
// "\r\n" or a lone "\r" and have no length limit. Lines that cannot be used
// are skipped. A read failure yields an empty timeline.
func Parse(r io.Reader) *Timeline {
	if r == nil {
		return Empty()
	}

	var lines []Line
	first := true
	err := readLines(r, func(raw string) {
		if first {
			raw = strings.TrimPrefix(raw, "\ufeff")
			first = false
		}
		if line, ok := classifyLine(raw); ok {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return Empty()
	}

	return buildTimeline(lines)
}

// ParseString parses lyric text held in memory.
func ParseString(text string) *Timeline {
	return Parse(strings.NewReader(text))
}

// readLines calls fn for every line of r. A final line without a terminator
// is reported too. It returns the first read error other than io.EOF.
func readLines(r io.Reader, fn func(string)) error {
	br := bufio.NewReader(r)
	var sb strings.Builder
	for {
		c, err := br.ReadByte()
		if err != nil {
			if sb.Len() > 0 {
				fn(sb.String())
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch c {
		case '\n':
			fn(sb.String())
			sb.Reset()
		case '\r':
			fn(sb.String())
			sb.Reset()
			next, err := br.Peek(1)
			if err != nil && err != io.EOF {
				return err
			}
			if len(next) == 1 && next[0] == '\n' {
				br.ReadByte()
			}
		default:
			sb.WriteByte(c)
		}
	}
}
