package form

import "time"

// DateSet is an ordered list of follow-up dates without duplicate instants.
type DateSet struct {
	dates []time.Time
}

// NewDateSet creates a set holding only today.
func NewDateSet(today time.Time) *DateSet {
	return &DateSet{dates: []time.Time{today}}
}

// Add inserts d unless an entry with the same instant (to the millisecond)
// already exists. It reports whether d was inserted.
func (s *DateSet) Add(d time.Time) bool {
	for _, existing := range s.dates {
		if existing.UnixMilli() == d.UnixMilli() {
			return false
		}
	}
	s.dates = append(s.dates, d)
	return true
}

// Remove deletes the entry at index. Out-of-range indexes are ignored.
func (s *DateSet) Remove(index int) {
	if index < 0 || index >= len(s.dates) {
		return
	}
	s.dates = append(s.dates[:index:index], s.dates[index+1:]...)
}

// Dates returns a copy of the entries in insertion order.
func (s *DateSet) Dates() []time.Time {
	return append([]time.Time{}, s.dates...)
}

// Len returns the number of entries.
func (s *DateSet) Len() int {
	return len(s.dates)
}

// Reset replaces the content with the single entry today.
func (s *DateSet) Reset(today time.Time) {
	s.dates = []time.Time{today}
}
