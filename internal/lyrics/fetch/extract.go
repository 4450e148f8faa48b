package fetch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoLyrics is returned when no configured selector matches the page.
var ErrNoLyrics = errors.New("no lyrics element found")

var (
	chordSeparatorRegex = regexp.MustCompile(`^[\s|]*$`)
	commentRegex        = regexp.MustCompile(`/\*[^*]*\*/`)
)

// ExtractText finds the lyric block of an HTML page and returns its text,
// one lyric line per line.
func ExtractText(html string, config Config) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	for _, selector := range config.Selectors {
		var text string
		doc.Find(selector).EachWithBreak(func(_ int, selection *goquery.Selection) bool {
			selection.Find("br").ReplaceWithHtml("\n")
			selection.Find("script, style").Remove()
			text = cleanLines(selection.Text(), config.MaxBlankLines)
			return text == ""
		})
		if text != "" {
			return text, nil
		}
	}

	return "", ErrNoLyrics
}

// cleanLines trims every line, drops chord separator rows and author
// comments, and collapses runs of blank lines to at most maxBlank.
func cleanLines(text string, maxBlank int) string {
	text = commentRegex.ReplaceAllString(text, "")

	var out []string
	blank := 0
	for _, line := range strings.Split(normalizeText(text), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blank++
			if blank <= maxBlank && len(out) > 0 {
				out = append(out, "")
			}
			continue
		}
		if chordSeparatorRegex.MatchString(trimmed) {
			continue
		}
		blank = 0
		out = append(out, trimmed)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// normalizeText converts Windows and old Mac line endings to "\n".
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
