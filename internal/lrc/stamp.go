package lrc

// Stamp is a millisecond position that may be unset, in the spirit of
// sql.NullInt64. The zero value is unset.
type Stamp struct {
	Ms    int64
	Valid bool
}

// At returns a set Stamp.
func At(ms int64) Stamp {
	return Stamp{Ms: ms, Valid: true}
}

// Unset is the unset Stamp.
var Unset = Stamp{}

// Before reports whether s orders strictly before o. Unset orders before
// every set value and is not before another unset value.
func (s Stamp) Before(o Stamp) bool {
	if !s.Valid {
		return o.Valid
	}
	return o.Valid && s.Ms < o.Ms
}

func (s Stamp) String() string {
	if !s.Valid {
		return "--:--.--"
	}
	return FormatTimestamp(s.Ms)
}

// Ptr returns the value as a pointer, nil when unset.
func (s Stamp) Ptr() *int64 {
	if !s.Valid {
		return nil
	}
	ms := s.Ms
	return &ms
}
