package lrc

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestActiveIndex(t *testing.T) {
	synced := []Line{span(1000, 2000), span(2000, 3000)}
	withIntro := []Line{{}, span(1000, 2000)}

	tests := []struct {
		name  string
		lines []Line
		now   int64
		want  int
	}{
		{name: "before first", lines: synced, now: 500, want: -1},
		{name: "first", lines: synced, now: 1500, want: 0},
		{name: "boundary goes to next", lines: synced, now: 2000, want: 1},
		{name: "after last", lines: synced, now: 9000, want: 1},
		{name: "unsynced counts as started", lines: withIntro, now: 0, want: 0},
		{name: "empty", lines: nil, now: 0, want: -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ActiveIndex(tc.lines, tc.now); got != tc.want {
				t.Errorf("ActiveIndex(%d) = %d; want %d", tc.now, got, tc.want)
			}
		})
	}
}

func TestScrollPosition(t *testing.T) {
	lines := []Line{span(1000, 2000), span(2000, 3000)}
	targets := []float64{100, 200}

	tests := []struct {
		name   string
		now    int64
		want   float64
		wantOK bool
	}{
		{name: "before start follows first line", now: 0, want: 100, wantOK: true},
		{name: "outside anticipation", now: 1300, want: 100, wantOK: true},
		{name: "gliding toward next", now: 1700, want: 150, wantOK: true},
		{name: "on next line", now: 2500, want: 200, wantOK: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ScrollPosition(lines, targets, tc.now)
			if ok != tc.wantOK || !approx(got, tc.want) {
				t.Errorf("ScrollPosition(%d) = %v, %v; want %v, %v", tc.now, got, ok, tc.want, tc.wantOK)
			}
		})
	}

	if _, ok := ScrollPosition(nil, nil, 0); ok {
		t.Error("empty timeline should have no scroll position")
	}
	if _, ok := ScrollPosition([]Line{{}, span(5000, 6000)}, []float64{1, 2}, 0); ok {
		t.Error("unsynced active line should have no scroll position")
	}
}

func TestWordProgress(t *testing.T) {
	line := Line{
		Start:      At(1000),
		End:        At(3000),
		Words:      []Word{w(1000, "a "), w(2000, "b")},
		WordSynced: true,
	}

	tests := []struct {
		name string
		i    int
		now  int64
		want float64
	}{
		{name: "not started", i: 0, now: 500, want: 0},
		{name: "half of first", i: 0, now: 1500, want: 0.5},
		{name: "first done", i: 0, now: 2500, want: 1},
		{name: "last runs to line end", i: 1, now: 2500, want: 0.5},
		{name: "after line end", i: 1, now: 3500, want: 1},
		{name: "out of range", i: 5, now: 1500, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := WordProgress(line, tc.i, tc.now); !approx(got, tc.want) {
				t.Errorf("WordProgress(%d, %d) = %v; want %v", tc.i, tc.now, got, tc.want)
			}
		})
	}

	zero := Line{Start: At(1000), End: At(1000), Words: []Word{w(1000, "x")}, WordSynced: true}
	if got := WordProgress(zero, 0, 1001); got != 1 {
		t.Errorf("zero length word: got %v; want 1", got)
	}

	flat := Line{Start: At(1000), End: At(2000), Words: []Word{w(1000, "x ")}}
	if WordProgress(flat, 0, 999) != 0 || WordProgress(flat, 0, 1000) != 1 {
		t.Error("line timed words should switch on at the line start")
	}
}

func TestBackgroundFade(t *testing.T) {
	bg := Line{Start: At(0), End: At(1000), Background: true}

	tests := []struct {
		now  int64
		want float64
	}{
		{now: 0, want: 1},
		{now: 900, want: 1},
		{now: 950, want: 0.5},
		{now: 1000, want: 0},
		{now: 1500, want: 0},
	}
	for _, tc := range tests {
		if got := BackgroundFade(bg, tc.now); !approx(got, tc.want) {
			t.Errorf("BackgroundFade(%d) = %v; want %v", tc.now, got, tc.want)
		}
	}

	if got := BackgroundFade(span(0, 1000), 990); got != 1 {
		t.Errorf("main line fade = %v; want 1", got)
	}
}

func TestSeekTime(t *testing.T) {
	if ms, ok := SeekTime(span(4200, 5000)); !ok || ms != 4200 {
		t.Errorf("SeekTime = %d, %v; want 4200, true", ms, ok)
	}
	if _, ok := SeekTime(Line{}); ok {
		t.Error("unsynced line should not be seekable")
	}
}

func TestTimelineJSON(t *testing.T) {
	tl := ParseString("Title\n[00:01.00]v2:<00:01.00>a <00:01.50>b<00:02.00>\n[00:03.00][bg: la]")

	data, err := json.Marshal(tl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Timeline
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.Synced() != tl.Synced() {
		t.Errorf("synced = %v; want %v", back.Synced(), tl.Synced())
	}
	if !reflect.DeepEqual(back.Lines(), tl.Lines()) {
		t.Errorf("lines differ after round trip:\n%#v\n%#v", back.Lines(), tl.Lines())
	}
}
