package phonebook

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	namePattern     = regexp.MustCompile(`^[A-Za-z\p{Cyrillic}]+$`)
	emailPattern    = regexp.MustCompile(`^[a-z0-9_.-]+@[a-z0-9_.-]+\.[a-z]+$`)
	birthdayPattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
)

const phoneAlphabet = "0123456789()-+"

// Name is a validated, title-cased contact name. It is the Directory key.
type Name string

// Phone is a validated phone number, kept exactly as typed.
type Phone string

// Email is a validated lowercase email address.
type Email string

// Birthday is an optional dd.mm.yyyy date. The zero value means "not recorded".
type Birthday struct {
	text  string
	month time.Month
	day   int
	year  int
}

func (n Name) String() string  { return string(n) }
func (p Phone) String() string { return string(p) }
func (e Email) String() string { return string(e) }

// ParseName accepts Latin or Cyrillic letters only and title-cases the result.
func ParseName(text string) (Name, error) {
	if !namePattern.MatchString(text) {
		return "", newError(KindInvalidName, text)
	}
	// Casers keep state between calls, so each parse gets its own.
	return Name(cases.Title(language.Und).String(text)), nil
}

// ParsePhone trims the input and rejects any character outside digits and ()-+.
func ParsePhone(text string) (Phone, error) {
	trimmed := strings.TrimSpace(text)
	for _, r := range trimmed {
		if !strings.ContainsRune(phoneAlphabet, r) {
			return "", newError(KindInvalidPhone, text)
		}
	}
	return Phone(trimmed), nil
}

// ParseEmail trims the input and matches it against a lowercase-only pattern.
// Uppercase input is rejected, not folded.
func ParseEmail(text string) (Email, error) {
	trimmed := strings.TrimSpace(text)
	if !emailPattern.MatchString(trimmed) {
		return "", newError(KindInvalidEmail, text)
	}
	return Email(trimmed), nil
}

// ParseBirthday accepts an empty string (no birthday) or a real day.month.year date.
func ParseBirthday(text string) (Birthday, error) {
	if text == "" {
		return Birthday{}, nil
	}

	m := birthdayPattern.FindStringSubmatch(text)
	if m == nil {
		return Birthday{}, newError(KindInvalidBirthday, text)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if year < 1 || month < 1 || month > 12 || day < 1 {
		return Birthday{}, newError(KindInvalidBirthday, text)
	}

	// time.Date normalizes overflowing days (31.04 -> 01.05); a changed month means the day does not exist.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return Birthday{}, newError(KindInvalidBirthday, text)
	}

	return Birthday{text: text, month: t.Month(), day: day, year: year}, nil
}

// IsSet reports whether a birthday is recorded.
func (b Birthday) IsSet() bool { return b.text != "" }

// String returns the birthday exactly as it was entered.
func (b Birthday) String() string { return b.text }

// MonthDay returns the annual recurrence of the birthday.
func (b Birthday) MonthDay() (time.Month, int) { return b.month, b.day }

// Year returns the recorded birth year.
func (b Birthday) Year() int { return b.year }

// Date returns the full birth date at midnight UTC.
func (b Birthday) Date() time.Time {
	return time.Date(b.year, b.month, b.day, 0, 0, 0, 0, time.UTC)
}
