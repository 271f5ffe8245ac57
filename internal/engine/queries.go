package engine

import (
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-phonebook/internal/phonebook"
)

// Listing is the paginated view produced by ListAll.
type Listing struct {
	Pages iter.Seq[[]*phonebook.Record]

	// Clamped is set when a page size below 1 was requested and 1 is used instead.
	Clamped   bool
	Requested int
}

// ListAll pages through every record. An empty size shows everything on one page.
func (b *Book) ListAll(sizeText string) (Listing, error) {
	sizeText = strings.TrimSpace(sizeText)
	if sizeText == "" {
		return Listing{Pages: b.Dir.Paginate(b.Dir.Len())}, nil
	}

	n, err := strconv.Atoi(sizeText)
	if err != nil {
		return Listing{}, phonebook.NewError(phonebook.KindNotANumber, sizeText)
	}
	if n <= 0 {
		return Listing{Pages: b.Dir.Paginate(1), Clamped: true, Requested: n}, nil
	}
	return Listing{Pages: b.Dir.Paginate(n)}, nil
}

// MatchField names the field through which a search hit a record.
type MatchField int

const (
	MatchName MatchField = iota
	MatchPhone
	MatchEmail
)

func (f MatchField) String() string {
	switch f {
	case MatchName:
		return "name"
	case MatchPhone:
		return "phone"
	case MatchEmail:
		return "email"
	default:
		return "unknown"
	}
}

// Match is one search hit.
type Match struct {
	Record *phonebook.Record
	Field  MatchField
}

// Search finds records whose name, phone or email contains query, ignoring case.
// Fields are tried in that order and each record is reported at most once.
// An empty query matches every record.
func (b *Book) Search(query string) []Match {
	q := strings.ToLower(query)
	var matches []Match

	for _, rec := range b.Dir.All() {
		if field, ok := matchRecord(rec, q); ok {
			matches = append(matches, Match{Record: rec, Field: field})
		}
	}
	return matches
}

func matchRecord(rec *phonebook.Record, q string) (MatchField, bool) {
	if strings.Contains(strings.ToLower(string(rec.Name)), q) {
		return MatchName, true
	}
	for _, p := range rec.Phones() {
		if strings.Contains(strings.ToLower(string(p)), q) {
			return MatchPhone, true
		}
	}
	for _, e := range rec.Emails() {
		if strings.Contains(strings.ToLower(string(e)), q) {
			return MatchEmail, true
		}
	}
	return 0, false
}

// Upcoming is a birthday falling inside the requested window.
type Upcoming struct {
	Record    *phonebook.Record
	DaysUntil int
}

// BirthdayWindow lists contacts whose birthday, projected onto the current year,
// falls within [today, today+days]. The stored year is ignored. Feb 29 becomes
// Mar 1 in common years because time.Date normalizes it.
func (b *Book) BirthdayWindow(args []string) ([]Upcoming, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	days, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return nil, phonebook.NewError(phonebook.KindNotANumber, args[0])
	}

	today := civilDate(b.Clock.Now())
	end := today.AddDate(0, 0, days)

	var found []Upcoming
	for _, rec := range b.Dir.All() {
		if !rec.Birthday.IsSet() {
			continue
		}
		month, day := rec.Birthday.MonthDay()
		candidate := time.Date(today.Year(), month, day, 0, 0, 0, 0, time.UTC)
		if candidate.Before(today) || candidate.After(end) {
			continue
		}
		found = append(found, Upcoming{
			Record:    rec,
			DaysUntil: int(candidate.Sub(today).Hours() / 24),
		})
	}
	return found, nil
}

// Merge adds the records of incoming whose names are not taken yet.
// It returns how many were added and how many were skipped.
func (b *Book) Merge(incoming *phonebook.Directory) (added, skipped int) {
	for _, rec := range incoming.All() {
		if err := b.Dir.Add(rec); err != nil {
			skipped++
			continue
		}
		added++
	}
	return added, skipped
}
