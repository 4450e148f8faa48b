package lrc

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParse_Scenarios(t *testing.T) {
	t.Run("word synced line ends at its marker", func(t *testing.T) {
		tl := ParseString("[00:01.50]Hi <00:01.50>Hi<00:02.00>there<00:02.50>")
		if tl.Len() != 1 {
			t.Fatalf("got %d lines; want 1", tl.Len())
		}
		l := tl.Line(0)
		if l.Start != At(1500) || l.End != At(2500) || !l.WordSynced {
			t.Errorf("line = %#v; want start 1500, end 2500, word synced", l)
		}
		if want := []Word{w(1500, "Hi"), w(2000, "there")}; !reflect.DeepEqual(l.Words, want) {
			t.Errorf("words = %#v; want %#v", l.Words, want)
		}
	})

	t.Run("plain text stays unsynced", func(t *testing.T) {
		tl := ParseString("Just some text")
		if tl.Synced() {
			t.Fatal("timeline should not be synced")
		}
		if tl.Len() != 1 {
			t.Fatalf("got %d lines; want 1", tl.Len())
		}
		l := tl.Line(0)
		if l.Start.Valid || l.End.Valid {
			t.Errorf("plain line has timing: %#v", l)
		}
		if want := []Word{uw("Just "), uw("some "), uw("text ")}; !reflect.DeepEqual(l.Words, want) {
			t.Errorf("words = %#v; want %#v", l.Words, want)
		}
	})

	t.Run("standalone background", func(t *testing.T) {
		tl := ParseString("[bg: <00:05.00>ooh<00:06.00>]")
		if tl.Len() != 1 {
			t.Fatalf("got %d lines; want 1", tl.Len())
		}
		l := tl.Line(0)
		if !l.Background || l.Start != At(5000) || l.End != At(6000) {
			t.Errorf("line = %#v; want background 5000-6000", l)
		}
		if want := []Word{w(5000, "ooh")}; !reflect.DeepEqual(l.Words, want) {
			t.Errorf("words = %#v; want %#v", l.Words, want)
		}
	})

	t.Run("main vocal sorts before background at same start", func(t *testing.T) {
		tl := ParseString("[00:02.00][bg: <00:02.00>ooh]\n[00:02.00]main")
		if tl.Len() != 2 {
			t.Fatalf("got %d lines; want 2", tl.Len())
		}
		if tl.Line(0).Background || !tl.Line(1).Background {
			t.Errorf("order = %q, %q; want main first", tl.Line(0).Text(), tl.Line(1).Text())
		}
	})

	t.Run("last line gets trailing window", func(t *testing.T) {
		tl := ParseString("[00:10.00]last")
		if got := tl.Line(0).End; got != At(13000) {
			t.Errorf("end = %v; want 13000", got)
		}
	})
}

func TestParse_OrderingAndEndTimes(t *testing.T) {
	input := strings.Join([]string{
		"Song title",
		"[00:05.00]b",
		"",
		"[00:01.00]v2:a2",
		"[00:01.00]a",
		"[bg: ooh]",
		"[00:03.00]<00:03.00>c<00:03.50>",
		"[00:05.00][bg: <00:05.20>echo]",
	}, "\n")

	tl := ParseString(input)
	if !tl.Synced() {
		t.Fatal("timeline should be synced")
	}

	want := []struct {
		text       string
		start, end Stamp
	}{
		{"Song title ", Unset, Unset},
		{"a ", At(1000), At(3000)},
		{"a2 ", At(1000), At(3000)},
		{"c", At(3000), At(3500)},
		{"b ", At(5000), At(8000)},
		{"echo", At(5000), At(8000)},
	}
	if tl.Len() != len(want) {
		t.Fatalf("got %d lines; want %d", tl.Len(), len(want))
	}
	for i, wl := range want {
		l := tl.Line(i)
		if l.Text() != wl.text || l.Start != wl.start || l.End != wl.end {
			t.Errorf("line %d = %q [%v, %v]; want %q [%v, %v]", i, l.Text(), l.Start, l.End, wl.text, wl.start, wl.end)
		}
	}
}

func TestParse_SortInvariants(t *testing.T) {
	input := strings.Join([]string{
		"[00:09.00]v2:late two",
		"intro",
		"[00:09.00]late one",
		"[00:01.00][bg: back]",
		"[00:01.00]v2:second",
		"[00:01.00]first",
		"[bg: v2:<00:04.00>mid]",
		"outro",
		"[00:04.00]mid main",
	}, "\n")
	lines := ParseString(input).Lines()

	seenSynced := false
	for i, l := range lines {
		if !l.Start.Valid {
			if seenSynced {
				t.Fatalf("unsynced line %d after a synced line", i)
			}
			continue
		}
		seenSynced = true
		if i == 0 || !lines[i-1].Start.Valid {
			continue
		}
		prev := lines[i-1]
		if prev.Start.Ms > l.Start.Ms {
			t.Errorf("line %d starts before line %d", i, i-1)
		}
		if prev.Start.Ms == l.Start.Ms {
			if prev.Background && !l.Background {
				t.Errorf("background line %d precedes main line %d", i-1, i)
			}
			if prev.Background == l.Background && prev.Vocal > l.Vocal {
				t.Errorf("secondary line %d precedes primary line %d", i-1, i)
			}
		}
	}

	for i, l := range lines {
		if !l.Start.Valid {
			continue
		}
		want := At(l.Start.Ms + DefaultTrailingWindow)
		for _, next := range lines[i+1:] {
			if next.Start.Ms > l.Start.Ms {
				want = next.Start
				break
			}
		}
		if l.End != want {
			t.Errorf("line %d %q end = %v; want %v", i, l.Text(), l.End, want)
		}
	}
}

func TestParse_StableForEqualKeys(t *testing.T) {
	tl := ParseString("[00:01.00]first\n[00:01.00]second\n[00:01.00]third")
	got := []string{tl.Line(0).Text(), tl.Line(1).Text(), tl.Line(2).Text()}
	want := []string{"first ", "second ", "third "}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %q; want %q", got, want)
	}
}

func TestParse_UnsyncedKeepsOrder(t *testing.T) {
	tl := ParseString("zeta\n\nalpha\n[bg: nope]\nmid")
	if tl.Synced() {
		t.Fatal("timeline should not be synced")
	}
	var got []string
	for _, l := range tl.Lines() {
		got = append(got, l.Text())
		if l.End.Valid {
			t.Errorf("unsynced line %q has an end time", l.Text())
		}
	}
	if want := []string{"zeta ", "alpha ", "mid "}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %q; want %q", got, want)
	}
}

func TestParse_Deterministic(t *testing.T) {
	input := "[ti:x]\n[00:03.00]v2:b\n[00:01.00]<00:01.00>a <00:01.40>b<00:02.00>\n[bg: <00:01.00>c]\n"
	a, b := ParseString(input), ParseString(input)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("parsing the same text twice differs:\n%#v\n%#v", a, b)
	}
}

func TestParse_LineEndingsAndBOM(t *testing.T) {
	tl := ParseString("\ufeff[00:01.00]a\r\n[00:02.00]b\r\n")
	if tl.Len() != 2 {
		t.Fatalf("got %d lines; want 2", tl.Len())
	}
	if tl.Line(0).Start != At(1000) || tl.Line(0).Text() != "a " {
		t.Errorf("first line = %#v", tl.Line(0))
	}
}

func TestParse_CarriageReturnLineEnds(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"cr", "[00:01.00]a\r[00:02.00]b\r"},
		{"mixed", "[00:01.00]a\r\n[00:02.00]b\n"},
		{"no trailing end", "[00:01.00]a\r[00:02.00]b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := ParseString(tt.in)
			if tl.Len() != 2 {
				t.Fatalf("got %d lines; want 2", tl.Len())
			}
			if tl.Line(0).Text() != "a " || tl.Line(1).Text() != "b " {
				t.Errorf("texts = %q, %q", tl.Line(0).Text(), tl.Line(1).Text())
			}
			if tl.Line(1).Start != At(2000) {
				t.Errorf("second start = %v; want 00:02.00", tl.Line(1).Start)
			}
		})
	}
}

func TestParse_VeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	tl := ParseString("[00:01.00]first\n" + long + "\n[00:03.00]third\n")
	if tl.Len() != 3 || !tl.Synced() {
		t.Fatalf("got %d lines, synced %v; want 3 synced", tl.Len(), tl.Synced())
	}
	if tl.Line(0).Synced() || len(tl.Line(0).Text()) != len(long)+1 {
		t.Errorf("long line should come first as plain text, got %d chars", len(tl.Line(0).Text()))
	}
	if tl.Line(1).Start != At(1000) || tl.Line(2).Start != At(3000) {
		t.Errorf("starts = %v, %v", tl.Line(1).Start, tl.Line(2).Start)
	}
}

func TestParse_ReadFailure(t *testing.T) {
	tl := Parse(iotest.ErrReader(errors.New("unreadable")))
	if tl.Len() != 0 || tl.Synced() {
		t.Errorf("got %d lines; want an empty timeline", tl.Len())
	}

	half := iotest.TimeoutReader(strings.NewReader("[00:01.00]a\n"))
	if got := Parse(half); got.Len() != 0 {
		t.Errorf("partial read: got %d lines; want 0", got.Len())
	}

	if got := Parse(nil); got.Len() != 0 {
		t.Errorf("nil reader: got %d lines; want 0", got.Len())
	}
}

func TestTimeline_NilSafe(t *testing.T) {
	var tl *Timeline
	if tl.Len() != 0 || tl.Synced() || tl.Lines() != nil {
		t.Error("nil timeline should behave as empty")
	}
}
