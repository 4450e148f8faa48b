package lrc

// ActiveIndex returns the index of the last line that has started at now,
// or -1 when none has. Unsynced lines count as started. lines must be in
// timeline order.
func ActiveIndex(lines []Line, now int64) int {
	idx := -1
	for i, l := range lines {
		if l.Start.Valid && now < l.Start.Ms {
			break
		}
		idx = i
	}
	return idx
}

// ScrollPosition returns the scroll anchor to show at now given per-line
// targets from ScrollTargets. During the anticipation window before the next
// synced line the position glides linearly toward that line's target. ok is
// false when there is nothing to follow.
func ScrollPosition(lines []Line, targets []float64, now int64) (pos float64, ok bool) {
	if len(lines) == 0 {
		return 0, false
	}
	idx := ActiveIndex(lines, now)
	if idx < 0 {
		idx = 0
	}
	cur := lines[idx]
	if !cur.Start.Valid || idx >= len(targets) {
		return 0, false
	}

	pos = targets[idx]
	if idx+1 < len(lines) && idx+1 < len(targets) {
		if next := lines[idx+1].Start; next.Valid {
			until := next.Ms - now
			if until > 0 && until < AnticipationWindow {
				ratio := 1 - float64(until)/float64(AnticipationWindow)
				pos += (targets[idx+1] - pos) * ratio
			}
		}
	}
	return pos, true
}

// WordProgress reports how much of the word at index i has been sung at now,
// in [0, 1]. A word lasts until the next word starts, the last one until the
// line ends. Lines without word timing progress as a whole.
func WordProgress(line Line, i int, now int64) float64 {
	if i < 0 || i >= len(line.Words) || !line.Start.Valid {
		return 0
	}
	if !line.WordSynced {
		if now >= line.Start.Ms {
			return 1
		}
		return 0
	}

	w := line.Words[i]
	until := line.endOrStart()
	if i+1 < len(line.Words) && line.Words[i+1].Time.Valid {
		until = line.Words[i+1].Time.Ms
	}
	duration := until - w.Time.Ms
	if duration <= 0 {
		duration = 1
	}
	return clamp01(float64(now-w.Time.Ms) / float64(duration))
}

// backgroundFadeStart is the completion after which background lines fade.
const backgroundFadeStart = 0.9

// BackgroundFade returns the opacity factor of a background line at now: 1
// until 90% of the line has elapsed, then linearly down to 0 at its end.
// Other lines always return 1.
func BackgroundFade(line Line, now int64) float64 {
	if !line.Background || !line.Start.Valid {
		return 1
	}
	duration := line.endOrStart() - line.Start.Ms
	if duration <= 0 {
		return 1
	}
	completion := float64(now-line.Start.Ms) / float64(duration)
	if completion <= backgroundFadeStart {
		return 1
	}
	return clamp01(1 - (completion-backgroundFadeStart)/(1-backgroundFadeStart))
}

// SeekTime returns the playback position a tap on line should seek to.
func SeekTime(line Line) (int64, bool) {
	if !line.Start.Valid {
		return 0, false
	}
	return line.Start.Ms, true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
