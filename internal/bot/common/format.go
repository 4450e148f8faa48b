package common

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sukalov/lyricsync/internal/lrc"
)

var errUsageAt = errors.New("usage: /at <song_id> <mm:ss.xx | seconds>")

// maxPosition is the latest playback position accepted, in milliseconds.
const maxPosition int64 = 24 * 60 * 60 * 1000

// ParseAtArgs reads "<song_id> <time>" where time is mm:ss.xx or seconds.
func ParseAtArgs(args string) (songID string, ms int64, err error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, errUsageAt
	}
	ms, err = parsePosition(fields[1])
	if err != nil {
		return "", 0, errUsageAt
	}
	return fields[0], ms, nil
}

func parsePosition(s string) (int64, error) {
	if ms, err := lrc.ParseTimestamp(s); err == nil {
		return ms, nil
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(sec) || sec < 0 || sec*1000 > float64(maxPosition) {
		return 0, fmt.Errorf("bad position %q", s)
	}
	return int64(math.Round(sec * 1000)), nil
}

// FormatSummary describes a timeline and lists up to maxLines of it.
func FormatSummary(songID string, tl *lrc.Timeline, maxLines int) string {
	var sb strings.Builder

	mode := "unsynced"
	if tl.Synced() {
		mode = "synced"
	}
	fmt.Fprintf(&sb, "%s: %d lines, %s\n", songID, tl.Len(), mode)

	for i := 0; i < tl.Len() && i < maxLines; i++ {
		sb.WriteString("\n")
		sb.WriteString(formatLine(tl.Line(i)))
	}
	if tl.Len() > maxLines {
		fmt.Fprintf(&sb, "\n… %d more", tl.Len()-maxLines)
	}
	return sb.String()
}

// FormatFocus renders the lines around playback position now, the way a
// player would scroll them, each with its focus in percent. The active line
// is marked.
func FormatFocus(tl *lrc.Timeline, now int64, window int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⏱ %s\n", lrc.FormatTimestamp(now))
	if tl.Len() == 0 {
		sb.WriteString("\n(no lyrics)")
		return sb.String()
	}

	lines := tl.Lines()
	anchors := make([]float64, len(lines))
	for i := range anchors {
		anchors[i] = float64(i)
	}
	targets := lrc.ScrollTargets(lines, anchors)

	active := lrc.ActiveIndex(lines, now)
	center := active
	if pos, ok := lrc.ScrollPosition(lines, targets, now); ok {
		center = int(math.Round(pos))
	}

	from, to := visibleRange(center, window, len(lines))
	for i := from; i < to; i++ {
		marker := "  "
		if i == active {
			marker = "▶ "
		}
		ratio := tl.FocusRatio(i, now)
		fmt.Fprintf(&sb, "\n%s%s · %d%%", marker, formatLine(lines[i]), int(math.Round(ratio*100)))
	}
	return sb.String()
}

func visibleRange(center, window, n int) (from, to int) {
	if window <= 0 || window > n {
		window = n
	}
	from = center - window/2
	if from < 0 {
		from = 0
	}
	to = from + window
	if to > n {
		to = n
		from = n - window
	}
	return from, to
}

func formatLine(l lrc.Line) string {
	var tags string
	if l.Vocal == lrc.Secondary {
		tags += "(v2) "
	}
	if l.Background {
		tags += "(bg) "
	}
	return fmt.Sprintf("[%s] %s%s", l.Start, tags, strings.TrimSpace(l.Text()))
}
