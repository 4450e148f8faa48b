package lrc

import (
	"sort"
)

// DefaultTrailingWindow is the end time given to the last line of a group
// when no later line starts after it.
const DefaultTrailingWindow int64 = 3000

// Timeline is an ordered, immutable sequence of lines produced by one parse.
// It is safe for concurrent readers.
type Timeline struct {
	lines  []Line
	synced bool
}

// Empty returns a timeline without lines.
func Empty() *Timeline {
	return &Timeline{}
}

// Synced reports whether at least one line carries a start time.
func (t *Timeline) Synced() bool {
	return t != nil && t.synced
}

func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.lines)
}

// Line returns the line at index i. The returned Words slice is shared with
// the timeline and must not be modified.
func (t *Timeline) Line(i int) Line {
	return t.lines[i]
}

// Lines returns a copy of the ordered lines.
func (t *Timeline) Lines() []Line {
	if t == nil {
		return nil
	}
	out := make([]Line, len(t.lines))
	copy(out, t.lines)
	return out
}

// NextStart returns the start time of the line following index i.
func (t *Timeline) NextStart(i int) Stamp {
	if i+1 < len(t.lines) {
		return t.lines[i+1].Start
	}
	return Unset
}

// FocusRatio is FocusRatio for the line at index i, using the following line
// as the anticipated next line.
func (t *Timeline) FocusRatio(i int, now int64) float64 {
	return FocusRatio(t.lines[i], t.NextStart(i), now)
}

// buildTimeline orders lines in playback order and fills in missing end
// times. When no line is synced the input order is kept untouched.
func buildTimeline(lines []Line) *Timeline {
	synced := false
	for _, l := range lines {
		if l.Start.Valid {
			synced = true
			break
		}
	}
	if !synced {
		return &Timeline{lines: lines}
	}

	sort.Stable(byPlayback(lines))
	inferEndTimes(lines)
	return &Timeline{lines: lines, synced: true}
}

// byPlayback orders unsynced lines first, then by start time, main vocals
// before background vocals, and the primary track before the secondary one.
type byPlayback []Line

func (a byPlayback) Len() int      { return len(a) }
func (a byPlayback) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byPlayback) Less(i, j int) bool {
	x, y := a[i], a[j]
	if x.Start.Before(y.Start) {
		return true
	}
	if y.Start.Before(x.Start) {
		return false
	}
	if x.Background != y.Background {
		return !x.Background
	}
	return x.Vocal < y.Vocal
}

func inferEndTimes(lines []Line) {
	for i := range lines {
		cur := &lines[i]
		if !cur.Start.Valid || cur.End.Valid {
			continue
		}

		cur.End = At(cur.Start.Ms + DefaultTrailingWindow)
		for j := i + 1; j < len(lines); j++ {
			if next := lines[j].Start; next.Valid && next.Ms > cur.Start.Ms {
				cur.End = next
				break
			}
		}
	}
}
