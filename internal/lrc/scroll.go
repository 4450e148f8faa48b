package lrc

// ScrollTargets computes the scroll anchor of every line. anchors[i] is the
// position the layout assigned to lines[i]; a missing entry counts as 0.
//
// A line overlapping the previous line in time scrolls to the midpoint of
// both anchors. A line that also overlaps the one before that scrolls to the
// anchor of the middle line.
func ScrollTargets(lines []Line, anchors []float64) []float64 {
	return ScrollTargetsInto(make([]float64, len(lines)), lines, anchors)
}

// ScrollTargetsInto is ScrollTargets writing into dst, which is grown only
// when shorter than lines.
func ScrollTargetsInto(dst []float64, lines []Line, anchors []float64) []float64 {
	if cap(dst) < len(lines) {
		dst = make([]float64, len(lines))
	}
	dst = dst[:len(lines)]

	anchor := func(i int) float64 {
		if i < len(anchors) {
			return anchors[i]
		}
		return 0
	}

	for i, cur := range lines {
		dst[i] = anchor(i)
		if !cur.Start.Valid {
			continue
		}

		overlapsPrev := i > 0 && startsBeforeEnd(cur, lines[i-1])
		overlapsPrevPrev := i > 1 && startsBeforeEnd(cur, lines[i-2])

		switch {
		case overlapsPrevPrev:
			dst[i] = anchor(i - 1)
		case overlapsPrev:
			dst[i] = (anchor(i-1) + anchor(i)) / 2
		}
	}
	return dst
}

// ScrollTargets is ScrollTargets over the timeline's lines.
func (t *Timeline) ScrollTargets(anchors []float64) []float64 {
	if t == nil {
		return nil
	}
	return ScrollTargets(t.lines, anchors)
}

func startsBeforeEnd(cur, prev Line) bool {
	return prev.End.Valid && cur.Start.Ms < prev.End.Ms
}
