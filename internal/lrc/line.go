package lrc

import "strings"

// VocalTrack tells which singer a line belongs to. Primary sorts first.
type VocalTrack int

const (
	Primary VocalTrack = iota + 1
	Secondary
)

func (v VocalTrack) String() string {
	if v == Secondary {
		return "v2"
	}
	return "v1"
}

// Line is a single lyric line. Start is unset for plain text lines. End is
// unset until the timeline infers it, unless the line carried an explicit
// end marker.
type Line struct {
	Start      Stamp
	End        Stamp
	Words      []Word
	Vocal      VocalTrack
	WordSynced bool
	Background bool
}

// Synced reports whether the line carries a start time.
func (l Line) Synced() bool {
	return l.Start.Valid
}

// Text joins the words of the line.
func (l Line) Text() string {
	var sb strings.Builder
	for _, w := range l.Words {
		sb.WriteString(w.Text)
	}
	return sb.String()
}

// Contains reports whether now falls inside [Start, End].
func (l Line) Contains(now int64) bool {
	if !l.Start.Valid {
		return false
	}
	return now >= l.Start.Ms && now <= l.endOrStart()
}

func (l Line) endOrStart() int64 {
	if l.End.Valid {
		return l.End.Ms
	}
	return l.Start.Ms
}
