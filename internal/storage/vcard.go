package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
)

// Stats summarizes a decode pass.
type Stats struct {
	Total   int // cards read
	Skipped int // cards rejected (malformed, invalid or duplicate name)
}

// Encode writes every record of dir as a vCard 4.0 card, in directory order.
func Encode(w io.Writer, dir *phonebook.Directory) error {
	enc := vcard.NewEncoder(w)
	for _, rec := range dir.All() {
		if err := enc.Encode(recordToCard(rec)); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

// Decode reads cards until EOF and builds a Directory from them.
// Malformed cards, invalid names and repeated names are skipped, not fatal.
func Decode(r io.Reader) (*phonebook.Directory, Stats, error) {
	return decode(r, false)
}

// decode in strict mode fails on anything the tolerant mode would skip, so a
// directory it returns can be saved back without losing a card or a field.
func decode(r io.Reader, strict bool) (*phonebook.Directory, Stats, error) {
	dir := phonebook.NewDirectory()
	dec := vcard.NewDecoder(r)
	var stats Stats

	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if strict || stats.Total == 0 {
				return nil, stats, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			// A broken line breaks the whole stream for the decoder, so stop here.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyError, err)
			stats.Skipped++
			break
		}
		stats.Total++

		var cr cardReader
		rec, err := cr.record(card)
		if err != nil {
			if strict {
				return nil, stats, fmt.Errorf("%s: %w", config.ErrCardRejected, err)
			}
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyError, err)
			stats.Skipped++
			continue
		}
		if strict && cr.dropped > 0 {
			return nil, stats, fmt.Errorf("%s: %s", config.ErrCardRejected, rec.Name)
		}

		if err := dir.Add(rec); err != nil {
			if strict {
				return nil, stats, fmt.Errorf("%s: %w", config.ErrCardRejected, err)
			}
			slog.Warn(config.MsgSkippedDup,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, rec.Name)
			stats.Skipped++
		}
	}

	return dir, stats, nil
}

func recordToCard(rec *phonebook.Record) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldUID, rec.UID)
	card.SetValue(vcard.FieldFormattedName, string(rec.Name))
	card.SetName(&vcard.Name{GivenName: string(rec.Name)})

	for _, p := range rec.Phones() {
		card.AddValue(vcard.FieldTelephone, string(p))
	}
	for _, e := range rec.Emails() {
		card.AddValue(vcard.FieldEmail, string(e))
	}
	if rec.Birthday.IsSet() {
		card.SetValue(vcard.FieldBirthday, rec.Birthday.Date().Format(config.DateFormatFullBasic))
		card.SetValue(config.VCardBirthdayText, rec.Birthday.String())
	}
	return card
}

// cardReader converts cards to records and counts the fields it drops.
type cardReader struct {
	dropped int
}

// record validates every field; only the name is mandatory.
func (cr *cardReader) record(card vcard.Card) (*phonebook.Record, error) {
	name, err := phonebook.ParseName(cardName(card))
	if err != nil {
		return nil, err
	}

	rec := phonebook.NewRecord(name, "")
	if uid := card.Value(vcard.FieldUID); uid != "" {
		rec.UID = uid
	} else {
		rec.UID = uuid.NewString()
	}

	for _, v := range card.Values(vcard.FieldTelephone) {
		p, err := phonebook.ParsePhone(strings.TrimPrefix(v, "tel:"))
		if err != nil || p == "" {
			cr.skipField(vcard.FieldTelephone, v)
			continue
		}
		rec.AddPhone(p)
	}

	for _, v := range card.Values(vcard.FieldEmail) {
		e, err := phonebook.ParseEmail(v)
		if err != nil {
			cr.skipField(vcard.FieldEmail, v)
			continue
		}
		rec.AddEmail(e)
	}

	if bd, ok := cr.birthday(card); ok {
		rec.SetBirthday(bd)
	}
	return rec, nil
}

// cardName prefers FN, then the given name of N.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.Value(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(n.GivenName)
	}
	return ""
}

// birthday uses the text stored by Encode, falling back to BDAY for foreign cards.
func (cr *cardReader) birthday(card vcard.Card) (phonebook.Birthday, bool) {
	if text := card.Value(config.VCardBirthdayText); text != "" {
		if bd, err := phonebook.ParseBirthday(text); err == nil {
			return bd, true
		}
		cr.skipField(config.VCardBirthdayText, text)
	}

	raw := card.Value(vcard.FieldBirthday)
	if raw == "" {
		return phonebook.Birthday{}, false
	}
	t, err := parseDate(raw)
	if err != nil {
		cr.skipField(vcard.FieldBirthday, raw)
		return phonebook.Birthday{}, false
	}
	bd, err := phonebook.ParseBirthday(t.Format(config.BirthdayLayout))
	if err != nil {
		cr.skipField(vcard.FieldBirthday, raw)
		return phonebook.Birthday{}, false
	}
	return bd, true
}

// parseDate handles the vCard date layouts that carry a year.
// Year-less dates (--MM-DD) cannot become a dd.mm.yyyy birthday and are rejected.
func parseDate(value string) (time.Time, error) {
	formats := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(config.ErrDateParse)
}

func (cr *cardReader) skipField(field, value string) {
	cr.dropped++
	slog.Debug(config.MsgSkippedField,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyKey, field,
		config.LogKeyValue, value)
}
