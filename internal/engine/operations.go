package engine

import (
	"strings"

	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
)

// Outcome selects the success message of an operation and its positional arguments.
type Outcome struct {
	Key  string
	Args []any
}

func outcome(key string, args ...any) Outcome {
	return Outcome{Key: key, Args: args}
}

// Book runs the phonebook commands against an injected Directory.
// Every operation either completes or returns one *phonebook.Error.
type Book struct {
	Dir   *phonebook.Directory
	Clock Clock
}

// NewBook wires a Book over dir. A nil clock defaults to RealClock.
func NewBook(dir *phonebook.Directory, clock Clock) *Book {
	if clock == nil {
		clock = RealClock{}
	}
	return &Book{Dir: dir, Clock: clock}
}

// Empty reports whether the directory holds no records.
func (b *Book) Empty() bool { return b.Dir.Len() == 0 }

func requireArgs(args []string, n int) error {
	if len(args) < n {
		return phonebook.ErrNotEnoughArguments
	}
	return nil
}

// lookup parses the name token and fetches its record.
func (b *Book) lookup(text string) (*phonebook.Record, error) {
	name, err := phonebook.ParseName(text)
	if err != nil {
		return nil, err
	}
	return b.Dir.Get(name)
}

// AddContact creates a record from <name> <phone>.
// Only the new record is checked for a duplicate phone, which always passes;
// the directory-wide check belongs to AppendNumber and UpdateNumber.
func (b *Book) AddContact(args []string) (Outcome, error) {
	if err := requireArgs(args, 2); err != nil {
		return Outcome{}, err
	}
	name, err := phonebook.ParseName(args[0])
	if err != nil {
		return Outcome{}, err
	}
	phone, err := phonebook.ParsePhone(args[1])
	if err != nil {
		return Outcome{}, err
	}
	if err := b.Dir.Add(phonebook.NewRecord(name, phone)); err != nil {
		return Outcome{}, err
	}
	return outcome(config.TKeyContactAdded, name), nil
}

// UpdateNumber replaces <old> with <new> on <name>. The new number must not be
// held by any contact. It is appended, so it becomes the last number.
func (b *Book) UpdateNumber(args []string) (Outcome, error) {
	if err := requireArgs(args, 3); err != nil {
		return Outcome{}, err
	}
	rec, err := b.lookup(args[0])
	if err != nil {
		return Outcome{}, err
	}
	replacement, err := phonebook.ParsePhone(args[2])
	if err != nil {
		return Outcome{}, err
	}
	if _, taken := b.Dir.PhoneOwner(replacement); taken {
		return Outcome{}, phonebook.NewError(phonebook.KindPhoneExists, string(replacement))
	}
	old := phonebook.Phone(strings.TrimSpace(args[1]))
	if err := rec.UpdatePhone(old, replacement); err != nil {
		return Outcome{}, err
	}
	return outcome(config.TKeyNumberUpdated, rec.Name, old, replacement), nil
}

// AppendNumber adds <phone> to <name> if no contact holds it yet.
func (b *Book) AppendNumber(args []string) (Outcome, error) {
	if err := requireArgs(args, 2); err != nil {
		return Outcome{}, err
	}
	rec, err := b.lookup(args[0])
	if err != nil {
		return Outcome{}, err
	}
	phone, err := phonebook.ParsePhone(args[1])
	if err != nil {
		return Outcome{}, err
	}
	if _, taken := b.Dir.PhoneOwner(phone); taken {
		return Outcome{}, phonebook.NewError(phonebook.KindPhoneExists, string(phone))
	}
	rec.AddPhone(phone)
	return outcome(config.TKeyNumberAppended, phone, rec.Name), nil
}

// DeletePhoneNumber removes <phone> from <name>. Absent numbers are ignored.
func (b *Book) DeletePhoneNumber(args []string) (Outcome, error) {
	if err := requireArgs(args, 2); err != nil {
		return Outcome{}, err
	}
	rec, err := b.lookup(args[0])
	if err != nil {
		return Outcome{}, err
	}
	phone := phonebook.Phone(strings.TrimSpace(args[1]))
	rec.DeletePhone(phone)
	return outcome(config.TKeyNumberDeleted, phone, rec.Name), nil
}

// DeleteContact removes <name> from the directory.
func (b *Book) DeleteContact(args []string) (Outcome, error) {
	if err := requireArgs(args, 1); err != nil {
		return Outcome{}, err
	}
	rec, err := b.lookup(args[0])
	if err != nil {
		return Outcome{}, err
	}
	if err := b.Dir.Remove(rec.Name); err != nil {
		return Outcome{}, err
	}
	return outcome(config.TKeyContactDeleted, rec.Name), nil
}

// AddEmail adds <email> to <name>.
func (b *Book) AddEmail(args []string) (Outcome, error) {
	return b.attachEmail(args, config.TKeyEmailAdded)
}

// AppendEmail adds one more <email> to <name>. It differs from AddEmail only in wording.
func (b *Book) AppendEmail(args []string) (Outcome, error) {
	return b.attachEmail(args, config.TKeyEmailAppended)
}

func (b *Book) attachEmail(args []string, key string) (Outcome, error) {
	if err := requireArgs(args, 2); err != nil {
		return Outcome{}, err
	}
	rec, err := b.lookup(args[0])
	if err != nil {
		return Outcome{}, err
	}
	email, err := phonebook.ParseEmail(args[1])
	if err != nil {
		return Outcome{}, err
	}
	if !rec.AddEmail(email) {
		return Outcome{}, phonebook.NewError(phonebook.KindEmailExists, string(email))
	}
	return outcome(key, email, rec.Name), nil
}

// UpdateEmail replaces <old> with <new> on <name>; the new address moves to the end.
func (b *Book) UpdateEmail(args []string) (Outcome, error) {
	if err := requireArgs(args, 3); err != nil {
		return Outcome{}, err
	}
	rec, err := b.lookup(args[0])
	if err != nil {
		return Outcome{}, err
	}
	old := phonebook.Email(strings.TrimSpace(args[1]))
	if !rec.HasEmail(old) {
		return Outcome{}, phonebook.NewError(phonebook.KindEmailNotFound, string(old))
	}
	replacement, err := phonebook.ParseEmail(args[2])
	if err != nil {
		return Outcome{}, err
	}
	if err := rec.UpdateEmail(old, replacement); err != nil {
		return Outcome{}, err
	}
	return outcome(config.TKeyEmailUpdated, old, rec.Name, replacement), nil
}

// DeleteEmail removes <email> from <name>. Absent addresses are ignored.
func (b *Book) DeleteEmail(args []string) (Outcome, error) {
	if err := requireArgs(args, 2); err != nil {
		return Outcome{}, err
	}
	rec, err := b.lookup(args[0])
	if err != nil {
		return Outcome{}, err
	}
	email := phonebook.Email(strings.TrimSpace(args[1]))
	rec.DeleteEmail(email)
	return outcome(config.TKeyEmailDeleted, email, rec.Name), nil
}

// AddBirthday records <dd.mm.yyyy> on <name>. A contact that already has a
// birthday keeps it and the command still succeeds.
func (b *Book) AddBirthday(args []string) (Outcome, error) {
	if err := requireArgs(args, 2); err != nil {
		return Outcome{}, err
	}
	rec, err := b.lookup(args[0])
	if err != nil {
		return Outcome{}, err
	}
	bd, err := phonebook.ParseBirthday(args[1])
	if err != nil {
		return Outcome{}, err
	}
	rec.SetBirthday(bd)
	return outcome(config.TKeyBirthdayAdded, args[1], rec.Name), nil
}

// ClearPhonebook empties the directory only on an explicit "y".
func (b *Book) ClearPhonebook(answer string) Outcome {
	if strings.TrimSpace(answer) != config.AnswerYes {
		return outcome(config.TKeyNotCleared)
	}
	b.Dir.Clear()
	return outcome(config.TKeyPhonebookCleared)
}
