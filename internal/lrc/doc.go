package lrc

import "encoding/json"

// Document is the serialized form of a Timeline.
type Document struct {
	Synced bool      `json:"synced" yaml:"synced"`
	Lines  []LineDoc `json:"lines" yaml:"lines"`
}

type LineDoc struct {
	Start      *int64    `json:"start" yaml:"start"`
	End        *int64    `json:"end" yaml:"end"`
	Vocal      string    `json:"vocal" yaml:"vocal"`
	WordSynced bool      `json:"word_synced" yaml:"word_synced"`
	Background bool      `json:"background,omitempty" yaml:"background,omitempty"`
	Text       string    `json:"text" yaml:"text"`
	Words      []WordDoc `json:"words" yaml:"words"`
}

type WordDoc struct {
	Time *int64 `json:"time" yaml:"time"`
	Text string `json:"text" yaml:"text"`
}

// Document converts the timeline to its serialized form.
func (t *Timeline) Document() Document {
	doc := Document{Synced: t.Synced(), Lines: make([]LineDoc, 0, t.Len())}
	if t == nil {
		return doc
	}
	for _, l := range t.lines {
		ld := LineDoc{
			Start:      l.Start.Ptr(),
			End:        l.End.Ptr(),
			Vocal:      l.Vocal.String(),
			WordSynced: l.WordSynced,
			Background: l.Background,
			Text:       l.Text(),
			Words:      make([]WordDoc, len(l.Words)),
		}
		for i, w := range l.Words {
			ld.Words[i] = WordDoc{Time: w.Time.Ptr(), Text: w.Text}
		}
		doc.Lines = append(doc.Lines, ld)
	}
	return doc
}

// FromDocument rebuilds a timeline from its serialized form. The lines are
// taken in the stored order, which is already the timeline order.
func FromDocument(doc Document) *Timeline {
	lines := make([]Line, len(doc.Lines))
	for i, ld := range doc.Lines {
		l := Line{
			Start:      stampOf(ld.Start),
			End:        stampOf(ld.End),
			Vocal:      Primary,
			WordSynced: ld.WordSynced,
			Background: ld.Background,
		}
		if ld.Vocal == Secondary.String() {
			l.Vocal = Secondary
		}
		for _, wd := range ld.Words {
			l.Words = append(l.Words, Word{Time: stampOf(wd.Time), Text: wd.Text})
		}
		lines[i] = l
	}
	return &Timeline{lines: lines, synced: doc.Synced}
}

func (t *Timeline) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Document())
}

func (t *Timeline) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*t = *FromDocument(doc)
	return nil
}

func stampOf(ms *int64) Stamp {
	if ms == nil {
		return Unset
	}
	return At(*ms)
}
