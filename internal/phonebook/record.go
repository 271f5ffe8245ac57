package phonebook

import (
	"slices"

	"github.com/google/uuid"
)

// Record holds one person's data. Phones and emails are ordered sets:
// insertion order is kept and duplicates are ignored.
type Record struct {
	// UID is stable across saves and identifies the card in the vCard store.
	UID      string
	Name     Name
	Birthday Birthday

	phones []Phone
	emails []Email
}

// NewRecord creates a record with a fresh UID. An empty phone is not attached.
func NewRecord(name Name, phone Phone) *Record {
	r := &Record{UID: uuid.NewString(), Name: name}
	if phone != "" {
		r.AddPhone(phone)
	}
	return r
}

// Phones returns a copy of the phone list.
func (r *Record) Phones() []Phone { return slices.Clone(r.phones) }

// Emails returns a copy of the email list.
func (r *Record) Emails() []Email { return slices.Clone(r.emails) }

func (r *Record) HasPhone(p Phone) bool { return slices.Contains(r.phones, p) }

// AddPhone appends p unless the record already holds it.
func (r *Record) AddPhone(p Phone) bool {
	if r.HasPhone(p) {
		return false
	}
	r.phones = append(r.phones, p)
	return true
}

// UpdatePhone removes old and appends replacement, so the new number ends up last.
func (r *Record) UpdatePhone(old, replacement Phone) error {
	if !r.HasPhone(old) {
		return newError(KindPhoneNotFound, string(old))
	}
	r.DeletePhone(old)
	r.AddPhone(replacement)
	return nil
}

// DeletePhone removes p if present. Absent numbers are not an error.
func (r *Record) DeletePhone(p Phone) bool {
	i := slices.Index(r.phones, p)
	if i < 0 {
		return false
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return true
}

func (r *Record) HasEmail(e Email) bool { return slices.Contains(r.emails, e) }

// AddEmail appends e unless the record already holds it.
func (r *Record) AddEmail(e Email) bool {
	if r.HasEmail(e) {
		return false
	}
	r.emails = append(r.emails, e)
	return true
}

// UpdateEmail removes old and appends replacement.
func (r *Record) UpdateEmail(old, replacement Email) error {
	if !r.HasEmail(old) {
		return newError(KindEmailNotFound, string(old))
	}
	r.DeleteEmail(old)
	r.AddEmail(replacement)
	return nil
}

// DeleteEmail removes e if present.
func (r *Record) DeleteEmail(e Email) bool {
	i := slices.Index(r.emails, e)
	if i < 0 {
		return false
	}
	r.emails = slices.Delete(r.emails, i, i+1)
	return true
}

// SetBirthday records b only when no birthday is set yet.
func (r *Record) SetBirthday(b Birthday) bool {
	if r.Birthday.IsSet() {
		return false
	}
	r.Birthday = b
	return true
}
