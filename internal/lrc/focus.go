package lrc

const (
	// AnticipationWindow is the lead-in before a line starts during which
	// its focus ratio ramps up from 0 to 1.
	AnticipationWindow int64 = 600
	// DecayWindow is the period after a line ends during which its focus
	// ratio ramps down from 1 to 0.
	DecayWindow int64 = 400
)

// FocusRatio reports how active line is at playback time now, in [0, 1].
// Unsynced lines are always fully active. next is the start of the following
// line; while it approaches, a finished line brightens again.
func FocusRatio(line Line, next Stamp, now int64) float64 {
	if !line.Start.Valid {
		return 1
	}

	start := line.Start.Ms
	end := line.endOrStart()
	if now >= start && now <= end {
		return 1
	}
	if now < start {
		return leadIn(start - now)
	}

	var decay float64
	if since := now - end; since < DecayWindow {
		decay = 1 - float64(since)/float64(DecayWindow)
	}

	var anticipation float64
	if next.Valid && next.Ms > now {
		anticipation = leadIn(next.Ms - now)
	}

	if anticipation > decay {
		return anticipation
	}
	return decay
}

// leadIn maps the remaining time before a start to the anticipation ramp.
func leadIn(until int64) float64 {
	if until > AnticipationWindow {
		return 0
	}
	return 1 - float64(until)/float64(AnticipationWindow)
}
