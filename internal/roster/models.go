// Package roster loads the enrolled-trainee spreadsheet that is the sole
// source of truth for trainee identities, specializations, host organizations
// and, through row repetition, placement capacity.
package roster

import "strings"

// TraineeRecord is one row of the roster. Specialization and Organization are
// fixed attributes of the trainee as given by the spreadsheet, not choices
// made at allocation time.
type TraineeRecord struct {
	TraineeID      string
	Name           string
	Phone          string
	Specialization string
	Organization   string
	Supervisor     string
	CourseRef      string
}

// PhoneSuffix returns the last n digits of the registered phone number,
// ignoring any non-digit characters. Returns "" when fewer than n digits are
// present.
func (r TraineeRecord) PhoneSuffix(n int) string {
	digits := Digits(r.Phone)
	if len(digits) < n {
		return ""
	}
	return digits[len(digits)-n:]
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// Snapshot is a loaded roster with a by-ID index. The first row for a trainee
// ID wins as the canonical identity; later rows still count toward capacity.
type Snapshot struct {
	Records []TraineeRecord
	byID    map[string]TraineeRecord
}

// NewSnapshot indexes the given records.
func NewSnapshot(records []TraineeRecord) *Snapshot {
	byID := make(map[string]TraineeRecord, len(records))
	for _, rec := range records {
		if _, seen := byID[rec.TraineeID]; !seen {
			byID[rec.TraineeID] = rec
		}
	}
	return &Snapshot{Records: records, byID: byID}
}

// Find returns the canonical record for a trainee ID.
func (s *Snapshot) Find(traineeID string) (TraineeRecord, bool) {
	rec, ok := s.byID[strings.TrimSpace(traineeID)]
	return rec, ok
}

// Len returns the number of roster rows.
func (s *Snapshot) Len() int {
	return len(s.Records)
}
