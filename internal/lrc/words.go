package lrc

import (
	"regexp"
	"strings"
)

var (
	bareTimestampRegex = regexp.MustCompile(`^(\d{2}):(\d{2})\.(\d{2,3})$`)
	wordTimestampRegex = regexp.MustCompile(`<(\d{2}):(\d{2})\.(\d{2,3})>([^<]*)`)
)

// Word is one highlightable piece of a line. Time is unset for words of an
// unsynced line.
type Word struct {
	Time Stamp
	Text string
}

// extractWords scans fragment for <mm:ss.xx>text tokens. Text before the
// first token is dropped. When the last token carries no text it is an end
// marker: it is removed from the result and returned as end. found reports
// whether any token was present.
func extractWords(fragment string) (words []Word, end Stamp, found bool, err error) {
	matches := wordTimestampRegex.FindAllStringSubmatch(fragment, -1)
	if len(matches) == 0 {
		return nil, Unset, false, nil
	}

	words = make([]Word, 0, len(matches))
	for _, m := range matches {
		ms, err := DecodeTimestamp(m[1], m[2], m[3])
		if err != nil {
			return nil, Unset, true, err
		}
		words = append(words, Word{Time: At(ms), Text: m[4]})
	}

	last := words[len(words)-1]
	if strings.TrimSpace(last.Text) == "" {
		return words[:len(words)-1], last.Time, true, nil
	}
	return words, Unset, true, nil
}

// splitWords tokenizes fragment on whitespace. Each word keeps one trailing
// space so that joining the texts rebuilds the fragment with single spaces.
// A non-empty fragment without tokens yields a single word holding it as is.
func splitWords(fragment string, t Stamp) []Word {
	fields := strings.Fields(fragment)
	if len(fields) == 0 {
		if fragment == "" {
			return nil
		}
		return []Word{{Time: t, Text: fragment}}
	}

	words := make([]Word, len(fields))
	for i, f := range fields {
		words[i] = Word{Time: t, Text: f + " "}
	}
	return words
}
